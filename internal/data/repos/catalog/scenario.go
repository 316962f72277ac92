package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type ScenarioRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Scenario) ([]*types.Scenario, error)
	GetByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Scenario, error)
}

type scenarioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScenarioRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioRepo {
	repoLog := baseLog.With("repo", "ScenarioRepo")
	return &scenarioRepo{db: db, log: repoLog}
}

func (r *scenarioRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Scenario) ([]*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Scenario{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scenarioRepo) GetByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Scenario
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
