package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

// StatsSummary is the gamification snapshot served by GET /stats.
type StatsSummary struct {
	Points         int        `json:"points"`
	Streak         int        `json:"streak"`
	Level          int        `json:"level"`
	Readiness      int        `json:"readiness"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

type MasteryEntry struct {
	Topic string `json:"topic"`
	Score int    `json:"score"`
}

type AchievementEntry struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

type Overview struct {
	Stats        *StatsSummary      `json:"stats"`
	Mastery      []MasteryEntry     `json:"mastery"`
	Achievements []AchievementEntry `json:"achievements"`
}

type StatsService interface {
	GetStats(ctx context.Context, userID uuid.UUID) (*StatsSummary, error)
	GetMastery(ctx context.Context, userID uuid.UUID) ([]MasteryEntry, error)
	GetAchievements(ctx context.Context, userID uuid.UUID) ([]AchievementEntry, error)
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)
}

type statsService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	topicRepo           repos.TopicRepo
	masteryRepo         repos.TopicMasteryRepo
	statsRepo           repos.UserStatsRepo
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo
}

func NewStatsService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	masteryRepo repos.TopicMasteryRepo,
	statsRepo repos.UserStatsRepo,
	achievementRepo repos.AchievementRepo,
	userAchievementRepo repos.UserAchievementRepo,
) StatsService {
	return &statsService{
		db:                  db,
		log:                 log.With("service", "StatsService"),
		topicRepo:           topicRepo,
		masteryRepo:         masteryRepo,
		statsRepo:           statsRepo,
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
	}
}

// GetStats serves a zero-value snapshot when no row exists yet; registration
// creates the row, but stats must never 404 for an authenticated user.
func (s *statsService) GetStats(ctx context.Context, userID uuid.UUID) (*StatsSummary, error) {
	const op = "StatsService.GetStats"
	if userID == uuid.Nil {
		return nil, pkgerrors.Invalid(op, "user id required")
	}
	row, err := s.statsRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StatsSummary{Level: 1}, nil
		}
		return nil, pkgerrors.Classify(op, err)
	}
	return &StatsSummary{
		Points:         row.Points,
		Streak:         row.Streak,
		Level:          row.Level,
		Readiness:      row.Readiness,
		LastActivityAt: row.LastActivityAt,
	}, nil
}

func (s *statsService) GetMastery(ctx context.Context, userID uuid.UUID) ([]MasteryEntry, error) {
	const op = "StatsService.GetMastery"
	if userID == uuid.Nil {
		return nil, pkgerrors.Invalid(op, "user id required")
	}
	rows, err := s.masteryRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	if len(rows) == 0 {
		return []MasteryEntry{}, nil
	}

	topicIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		topicIDs = append(topicIDs, row.TopicID)
	}
	topics, err := s.topicRepo.GetByIDs(ctx, nil, topicIDs)
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	nameByID := make(map[uuid.UUID]string, len(topics))
	for _, topic := range topics {
		nameByID[topic.ID] = topic.Name
	}

	out := make([]MasteryEntry, 0, len(rows))
	for _, row := range rows {
		name, ok := nameByID[row.TopicID]
		if !ok {
			continue
		}
		out = append(out, MasteryEntry{Topic: name, Score: row.Score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

// GetAchievements lists the whole catalog with earned markers so clients can
// render locked and unlocked badges together.
func (s *statsService) GetAchievements(ctx context.Context, userID uuid.UUID) ([]AchievementEntry, error) {
	const op = "StatsService.GetAchievements"
	if userID == uuid.Nil {
		return nil, pkgerrors.Invalid(op, "user id required")
	}
	defs, err := s.achievementRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	earned, err := s.userAchievementRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	earnedAt := make(map[uuid.UUID]time.Time, len(earned))
	for _, row := range earned {
		earnedAt[row.AchievementID] = row.EarnedAt
	}

	out := make([]AchievementEntry, 0, len(defs))
	for _, def := range defs {
		entry := AchievementEntry{
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
		}
		if at, ok := earnedAt[def.ID]; ok {
			entry.Earned = true
			at := at
			entry.EarnedAt = &at
		}
		out = append(out, entry)
	}
	return out, nil
}

// Overview fans the three reads out concurrently; they are independent
// queries against the same store.
func (s *statsService) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	const op = "StatsService.Overview"
	if userID == uuid.Nil {
		return nil, pkgerrors.Invalid(op, "user id required")
	}

	var (
		summary      *StatsSummary
		mastery      []MasteryEntry
		achievements []AchievementEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.GetStats(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		mastery, err = s.GetMastery(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		achievements, err = s.GetAchievements(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	return &Overview{
		Stats:        summary,
		Mastery:      mastery,
		Achievements: achievements,
	}, nil
}
