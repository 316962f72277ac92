package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type OptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Option) ([]*types.Option, error)
	GetByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.Option, error)
	FullDeleteAll(ctx context.Context, tx *gorm.DB) error
}

type optionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOptionRepo(db *gorm.DB, baseLog *logger.Logger) OptionRepo {
	repoLog := baseLog.With("repo", "OptionRepo")
	return &optionRepo{db: db, log: repoLog}
}

func (r *optionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Option) ([]*types.Option, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Option{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *optionRepo) GetByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.Option, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Option
	if len(questionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("question_id IN ?", questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *optionRepo) FullDeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("1 = 1").
		Delete(&types.Option{}).Error; err != nil {
		return err
	}
	return nil
}
