package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/coachprep/coachprep-backend/internal/data/repos/testutil"
	types "github.com/coachprep/coachprep-backend/internal/domain/catalog"
)

func TestFlashcardRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewFlashcardRepo(db, testutil.Logger(t))

	topic := testutil.SeedTopic(t, ctx, tx, "Exercise Physiology")
	other := testutil.SeedTopic(t, ctx, tx, "Stress Management")

	cards := []*types.Flashcard{
		{ID: uuid.New(), TopicID: topic.ID, Front: "VO2 max", Back: "Maximal oxygen uptake during exercise"},
		{ID: uuid.New(), TopicID: topic.ID, Front: "RPE", Back: "Rating of perceived exertion"},
		{ID: uuid.New(), TopicID: other.ID, Front: "HPA axis", Back: "Hypothalamic-pituitary-adrenal stress pathway"},
	}
	if _, err := repo.Create(ctx, tx, cards); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByTopicIDs(ctx, tx, []uuid.UUID{topic.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByTopicIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByTopicIDs(ctx, tx, []uuid.UUID{topic.ID, other.ID}); err != nil || len(rows) != 3 {
		t.Fatalf("GetByTopicIDs both: err=%v len=%d", err, len(rows))
	}

	if err := repo.FullDeleteAll(ctx, tx); err != nil {
		t.Fatalf("FullDeleteAll: %v", err)
	}
	if rows, err := repo.GetByTopicIDs(ctx, tx, []uuid.UUID{topic.ID, other.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("GetByTopicIDs after delete: err=%v len=%d", err, len(rows))
	}
}
