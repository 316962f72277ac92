package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type PuzzleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Puzzle) ([]*types.Puzzle, error)
	GetByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Puzzle, error)
}

type puzzleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPuzzleRepo(db *gorm.DB, baseLog *logger.Logger) PuzzleRepo {
	repoLog := baseLog.With("repo", "PuzzleRepo")
	return &puzzleRepo{db: db, log: repoLog}
}

func (r *puzzleRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Puzzle) ([]*types.Puzzle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Puzzle{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *puzzleRepo) GetByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Puzzle, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Puzzle
	if len(topicIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("topic_id IN ?", topicIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
