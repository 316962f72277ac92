package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos/testutil"
	types "github.com/coachprep/coachprep-backend/internal/domain/progress"
)

func TestTopicMasteryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewTopicMasteryRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "topicmasteryrepo@example.com")
	topic := testutil.SeedTopic(t, ctx, tx, "Motivational Interviewing")

	tm := &types.TopicMastery{
		ID:      uuid.New(),
		UserID:  u.ID,
		TopicID: topic.ID,
		Score:   40,
	}
	if _, err := repo.Create(ctx, tx, []*types.TopicMastery{tm}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}
	row, err := repo.GetByUserIDAndTopicID(ctx, tx, u.ID, topic.ID)
	if err != nil || row.Score != 40 {
		t.Fatalf("GetByUserIDAndTopicID: err=%v", err)
	}
	if _, err := repo.GetByUserIDAndTopicID(ctx, tx, u.ID, uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByUserIDAndTopicID miss: want ErrRecordNotFound, got %v", err)
	}

	row.Score = 52
	if err := repo.Update(ctx, tx, row); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if again, err := repo.GetByUserIDAndTopicID(ctx, tx, u.ID, topic.ID); err != nil || again.Score != 52 {
		t.Fatalf("GetByUserIDAndTopicID after update: err=%v", err)
	}

	if err := repo.FullDeleteByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("FullDeleteByUserIDs: %v", err)
	}
	if rows, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{u.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("GetByUserIDs after delete: err=%v len=%d", err, len(rows))
	}
}
