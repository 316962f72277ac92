package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/coachprep/coachprep-backend/internal/data/repos/testutil"
)

func TestMasteryHistoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewMasteryHistoryRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "masteryhistoryrepo@example.com")
	topic := testutil.SeedTopic(t, ctx, tx, "Goal Setting")
	other := testutil.SeedTopic(t, ctx, tx, "Active Listening")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of chronological order; the trend must come back sorted by
	// recorded_at ascending.
	testutil.SeedHistory(t, ctx, tx, u.ID, topic.ID, 60, base.AddDate(0, 0, 2))
	testutil.SeedHistory(t, ctx, tx, u.ID, topic.ID, 20, base)
	testutil.SeedHistory(t, ctx, tx, u.ID, topic.ID, 45, base.AddDate(0, 0, 1))
	testutil.SeedHistory(t, ctx, tx, u.ID, other.ID, 90, base)

	rows, err := repo.GetTrend(ctx, tx, u.ID, topic.ID)
	if err != nil || len(rows) != 3 {
		t.Fatalf("GetTrend: err=%v len=%d", err, len(rows))
	}
	for i, want := range []int{20, 45, 60} {
		if rows[i].Score != want {
			t.Fatalf("GetTrend order: rows[%d].Score=%d want %d", i, rows[i].Score, want)
		}
	}

	if rows, err := repo.GetTrend(ctx, tx, u.ID, other.ID); err != nil || len(rows) != 1 {
		t.Fatalf("GetTrend other topic: err=%v len=%d", err, len(rows))
	}

	if err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
	if rows, err := repo.GetTrend(ctx, tx, u.ID, topic.ID); err != nil || len(rows) != 0 {
		t.Fatalf("GetTrend after delete: err=%v len=%d", err, len(rows))
	}
}
