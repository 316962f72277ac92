package progress

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/coachprep/coachprep-backend/internal/domain/progress"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type UserStatsRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.UserStats) (*types.UserStats, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.UserStats) error
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	repoLog := baseLog.With("repo", "UserStatsRepo")
	return &userStatsRepo{db: db, log: repoLog}
}

func (r *userStatsRepo) Create(ctx context.Context, tx *gorm.DB, row *types.UserStats) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *userStatsRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.UserStats
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userStatsRepo) Update(ctx context.Context, tx *gorm.DB, row *types.UserStats) error {
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

func (r *userStatsRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
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
		Delete(&types.UserStats{}).Error; err != nil {
		return err
	}
	return nil
}
