package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/domain/progress"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

const (
	pointsPerCorrect = 10
	perfectBonus     = 50
	masteryGainCap   = 20
	pointsPerLevel   = 250
)

type SubmissionResult struct {
	Message       string `json:"message"`
	PointsAwarded int    `json:"pointsAwarded"`
	NewMastery    int    `json:"newMastery"`
}

type SubmissionService interface {
	Submit(ctx context.Context, userID uuid.UUID, topicName string, correctAnswers, totalQuestions int) (*SubmissionResult, error)
}

type submissionService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	topicRepo           repos.TopicRepo
	masteryRepo         repos.TopicMasteryRepo
	historyRepo         repos.MasteryHistoryRepo
	statsRepo           repos.UserStatsRepo
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo

	// now is swappable so streak day-boundary behavior is testable.
	now func() time.Time
}

func NewSubmissionService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	masteryRepo repos.TopicMasteryRepo,
	historyRepo repos.MasteryHistoryRepo,
	statsRepo repos.UserStatsRepo,
	achievementRepo repos.AchievementRepo,
	userAchievementRepo repos.UserAchievementRepo,
) SubmissionService {
	return &submissionService{
		db:                  db,
		log:                 log.With("service", "SubmissionService"),
		topicRepo:           topicRepo,
		masteryRepo:         masteryRepo,
		historyRepo:         historyRepo,
		statsRepo:           statsRepo,
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
		now:                 time.Now,
	}
}

// Submit scores a finished quiz and applies every progress side effect in a
// single transaction: mastery upsert, history append, stats update and
// achievement awards. Resubmitting the same quiz counts again.
func (ss *submissionService) Submit(ctx context.Context, userID uuid.UUID, topicName string, correctAnswers, totalQuestions int) (*SubmissionResult, error) {
	const op = "SubmissionService.Submit"
	if userID == uuid.Nil {
		return nil, pkgerrors.Invalid(op, "user id required")
	}
	if totalQuestions <= 0 {
		return nil, pkgerrors.Invalid(op, "totalQuestions must be positive")
	}
	if correctAnswers < 0 || correctAnswers > totalQuestions {
		return nil, pkgerrors.Invalid(op, "correctAnswers must be between 0 and totalQuestions")
	}
	topic, err := resolveTopicByName(ctx, op, ss.topicRepo, topicName)
	if err != nil {
		return nil, err
	}

	score := float64(correctAnswers) / float64(totalQuestions) * 100
	perfect := correctAnswers == totalQuestions
	points := correctAnswers * pointsPerCorrect
	if perfect {
		points += perfectBonus
	}

	var result *SubmissionResult
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := ss.now().UTC()

		mastery, err := ss.masteryRepo.GetByUserIDAndTopicID(ctx, tx, userID, topic.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			created, cErr := ss.masteryRepo.Create(ctx, tx, []*progress.TopicMastery{{
				ID:      uuid.New(),
				UserID:  userID,
				TopicID: topic.ID,
			}})
			if cErr != nil {
				return cErr
			}
			mastery = created[0]
		}

		// Mastery gain is proportional to the score, saturates at 100 and
		// never goes down.
		newMastery := int(math.Round(float64(mastery.Score) + score/100*masteryGainCap))
		if newMastery > 100 {
			newMastery = 100
		}
		if newMastery < mastery.Score {
			newMastery = mastery.Score
		}
		mastery.Score = newMastery
		if err := ss.masteryRepo.Update(ctx, tx, mastery); err != nil {
			return err
		}

		meta, err := json.Marshal(map[string]int{
			"correctAnswers": correctAnswers,
			"totalQuestions": totalQuestions,
		})
		if err != nil {
			return err
		}
		if _, err := ss.historyRepo.Create(ctx, tx, []*progress.MasteryHistory{{
			ID:         uuid.New(),
			UserID:     userID,
			TopicID:    topic.ID,
			Score:      newMastery,
			Metadata:   datatypes.JSON(meta),
			RecordedAt: now,
		}}); err != nil {
			return err
		}

		stats, err := ss.statsRepo.GetByUserID(ctx, tx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			stats = &progress.UserStats{ID: uuid.New(), UserID: userID, Level: 1}
			if _, cErr := ss.statsRepo.Create(ctx, tx, stats); cErr != nil {
				return cErr
			}
		}
		firstQuiz := stats.LastActivityAt == nil

		stats.Points += points
		stats.Streak = nextStreak(stats.Streak, stats.LastActivityAt, now)
		stats.Level = 1 + stats.Points/pointsPerLevel
		stats.LastActivityAt = &now

		masteries, err := ss.masteryRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return err
		}
		stats.Readiness = meanMastery(masteries)

		if err := ss.statsRepo.Update(ctx, tx, stats); err != nil {
			return err
		}

		if err := ss.awardAchievements(ctx, tx, userID, awardCheck{
			firstQuiz: firstQuiz,
			perfect:   perfect,
			points:    stats.Points,
			mastery:   newMastery,
			streak:    stats.Streak,
			now:       now,
		}); err != nil {
			return err
		}

		result = &SubmissionResult{
			Message:       submissionMessage(score),
			PointsAwarded: points,
			NewMastery:    newMastery,
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}

	ss.log.Info("scored submission",
		"user_id", userID, "topic", topic.Name,
		"correct", correctAnswers, "total", totalQuestions,
		"points", result.PointsAwarded, "new_mastery", result.NewMastery)
	return result, nil
}

type awardCheck struct {
	firstQuiz bool
	perfect   bool
	points    int
	mastery   int
	streak    int
	now       time.Time
}

func (ss *submissionService) awardAchievements(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in awardCheck) error {
	codes := make([]string, 0, 5)
	if in.firstQuiz {
		codes = append(codes, progress.AchievementFirstQuiz)
	}
	if in.perfect {
		codes = append(codes, progress.AchievementPerfectScore)
	}
	if in.points >= 500 {
		codes = append(codes, progress.AchievementPoints500)
	}
	if in.mastery >= 100 {
		codes = append(codes, progress.AchievementMastery100)
	}
	if in.streak >= 7 {
		codes = append(codes, progress.AchievementStreak7)
	}
	if len(codes) == 0 {
		return nil
	}

	defs, err := ss.achievementRepo.GetByCodes(ctx, tx, codes)
	if err != nil {
		return err
	}
	if len(defs) < len(codes) {
		ss.log.Warn("achievement definitions missing, skipping unknown codes",
			"wanted", len(codes), "found", len(defs))
	}
	rows := make([]*progress.UserAchievement, 0, len(defs))
	for _, def := range defs {
		rows = append(rows, &progress.UserAchievement{
			ID:            uuid.New(),
			UserID:        userID,
			AchievementID: def.ID,
			EarnedAt:      in.now,
		})
	}
	return ss.userAchievementRepo.InsertIgnore(ctx, tx, rows)
}

// nextStreak applies the consecutive-day rule on UTC day boundaries: a repeat
// submission the same day keeps the streak, the next day extends it, a gap
// resets it.
func nextStreak(current int, lastActivity *time.Time, now time.Time) int {
	if lastActivity == nil {
		return 1
	}
	prev := startOfDay(lastActivity.UTC())
	today := startOfDay(now.UTC())
	switch {
	case prev.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case today.Sub(prev) == 24*time.Hour:
		return current + 1
	default:
		return 1
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func meanMastery(rows []*progress.TopicMastery) int {
	if len(rows) == 0 {
		return 0
	}
	sum := 0
	for _, row := range rows {
		sum += row.Score
	}
	return int(math.Round(float64(sum) / float64(len(rows))))
}

func submissionMessage(score float64) string {
	switch {
	case score >= 100:
		return "Perfect score! Outstanding work."
	case score >= 80:
		return "Great job! You're well on your way."
	case score >= 50:
		return "Good effort. Keep practicing."
	default:
		return "Keep studying. You'll get there."
	}
}
