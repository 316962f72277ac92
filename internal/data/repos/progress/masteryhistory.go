package progress

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/coachprep/coachprep-backend/internal/domain/progress"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type MasteryHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.MasteryHistory) ([]*types.MasteryHistory, error)
	// GetTrend returns the full history for one (user, topic) pair in
	// ascending recorded_at order.
	GetTrend(ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID) ([]*types.MasteryHistory, error)
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type masteryHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMasteryHistoryRepo(db *gorm.DB, baseLog *logger.Logger) MasteryHistoryRepo {
	repoLog := baseLog.With("repo", "MasteryHistoryRepo")
	return &masteryHistoryRepo{db: db, log: repoLog}
}

func (r *masteryHistoryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.MasteryHistory) ([]*types.MasteryHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.MasteryHistory{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *masteryHistoryRepo) GetTrend(ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID) ([]*types.MasteryHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MasteryHistory
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Order("recorded_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *masteryHistoryRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(userIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("user_id IN ?", userIDs).
		Delete(&types.MasteryHistory{}).Error; err != nil {
		return err
	}
	return nil
}
