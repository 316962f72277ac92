package progress

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/coachprep/coachprep-backend/internal/domain/progress"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type TopicMasteryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TopicMastery) ([]*types.TopicMastery, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TopicMastery, error)
	GetByUserIDAndTopicID(ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID) (*types.TopicMastery, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.TopicMastery) error
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type topicMasteryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicMasteryRepo(db *gorm.DB, baseLog *logger.Logger) TopicMasteryRepo {
	repoLog := baseLog.With("repo", "TopicMasteryRepo")
	return &topicMasteryRepo{db: db, log: repoLog}
}

func (r *topicMasteryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TopicMastery) ([]*types.TopicMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.TopicMastery{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *topicMasteryRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.TopicMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TopicMastery
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *topicMasteryRepo) GetByUserIDAndTopicID(ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID) (*types.TopicMastery, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.TopicMastery
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *topicMasteryRepo) Update(ctx context.Context, tx *gorm.DB, row *types.TopicMastery) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *topicMasteryRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
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
		Delete(&types.TopicMastery{}).Error; err != nil {
		return err
	}
	return nil
}
