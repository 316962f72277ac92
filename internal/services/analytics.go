package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

// TrendPoint is one mastery-history sample on the wire.
type TrendPoint struct {
	MasteryScore int       `json:"masteryScore"`
	RecordedAt   time.Time `json:"recordedAt"`
}

type AnalyticsService interface {
	MasteryTrend(ctx context.Context, userID uuid.UUID, topicName string) ([]TrendPoint, error)
}

type analyticsService struct {
	db          *gorm.DB
	log         *logger.Logger
	topicRepo   repos.TopicRepo
	historyRepo repos.MasteryHistoryRepo
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	historyRepo repos.MasteryHistoryRepo,
) AnalyticsService {
	return &analyticsService{
		db:          db,
		log:         log.With("service", "AnalyticsService"),
		topicRepo:   topicRepo,
		historyRepo: historyRepo,
	}
}

// MasteryTrend returns the full history for the user and topic, oldest
// first. No history is an empty slice, not an error.
func (s *analyticsService) MasteryTrend(ctx context.Context, userID uuid.UUID, topicName string) ([]TrendPoint, error) {
	const op = "AnalyticsService.MasteryTrend"
	if userID == uuid.Nil {
		return nil, pkgerrors.Invalid(op, "user id required")
	}
	topic, err := resolveTopicByName(ctx, op, s.topicRepo, topicName)
	if err != nil {
		return nil, err
	}

	rows, err := s.historyRepo.GetTrend(ctx, nil, userID, topic.ID)
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	out := make([]TrendPoint, 0, len(rows))
	for _, row := range rows {
		out = append(out, TrendPoint{
			MasteryScore: row.Score,
			RecordedAt:   row.RecordedAt,
		})
	}
	return out, nil
}
