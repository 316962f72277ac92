package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/domain/progress"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
	"github.com/coachprep/coachprep-backend/internal/seed"
)

// SeedService applies boot-time content: the achievement catalog is ensured
// on every start, the starter topic catalog only when the topic table is
// empty and SEED_ON_EMPTY is set. Requests never fall back to built-in
// content; the store is the only source at serve time.
type SeedService interface {
	EnsureAchievements(ctx context.Context) error
	ApplyStarterCatalog(ctx context.Context) (bool, error)
}

type seedService struct {
	db              *gorm.DB
	log             *logger.Logger
	topicRepo       repos.TopicRepo
	questionRepo    repos.QuestionRepo
	optionRepo      repos.OptionRepo
	flashcardRepo   repos.FlashcardRepo
	scenarioRepo    repos.ScenarioRepo
	puzzleRepo      repos.PuzzleRepo
	achievementRepo repos.AchievementRepo
}

func NewSeedService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	questionRepo repos.QuestionRepo,
	optionRepo repos.OptionRepo,
	flashcardRepo repos.FlashcardRepo,
	scenarioRepo repos.ScenarioRepo,
	puzzleRepo repos.PuzzleRepo,
	achievementRepo repos.AchievementRepo,
) SeedService {
	return &seedService{
		db:              db,
		log:             log.With("service", "SeedService"),
		topicRepo:       topicRepo,
		questionRepo:    questionRepo,
		optionRepo:      optionRepo,
		flashcardRepo:   flashcardRepo,
		scenarioRepo:    scenarioRepo,
		puzzleRepo:      puzzleRepo,
		achievementRepo: achievementRepo,
	}
}

func (s *seedService) EnsureAchievements(ctx context.Context) error {
	const op = "SeedService.EnsureAchievements"
	defs := []*progress.Achievement{
		{ID: uuid.New(), Code: progress.AchievementFirstQuiz, Name: "First Steps", Description: "Complete your first quiz."},
		{ID: uuid.New(), Code: progress.AchievementPerfectScore, Name: "Flawless", Description: "Score 100% on a quiz."},
		{ID: uuid.New(), Code: progress.AchievementPoints500, Name: "Point Collector", Description: "Earn 500 total points."},
		{ID: uuid.New(), Code: progress.AchievementMastery100, Name: "Topic Master", Description: "Reach full mastery in a topic."},
		{ID: uuid.New(), Code: progress.AchievementStreak7, Name: "Week Streak", Description: "Study seven days in a row."},
	}
	if err := s.achievementRepo.UpsertByCodes(ctx, nil, defs); err != nil {
		return pkgerrors.Classify(op, err)
	}
	return nil
}

// ApplyStarterCatalog loads the embedded catalog and writes it in one
// transaction. Returns false without touching the store when topics already
// exist.
func (s *seedService) ApplyStarterCatalog(ctx context.Context) (bool, error) {
	const op = "SeedService.ApplyStarterCatalog"

	count, err := s.topicRepo.Count(ctx, nil)
	if err != nil {
		return false, pkgerrors.Classify(op, err)
	}
	if count > 0 {
		s.log.Debug("topic table not empty, skipping starter catalog", "topics", count)
		return false, nil
	}

	cat, err := seed.Load()
	if err != nil {
		return false, pkgerrors.Internal(op, "starter catalog unreadable", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range cat.Topics {
			topicRow := &catalog.Topic{
				ID:          uuid.New(),
				Name:        t.Name,
				Description: t.Description,
			}
			if _, err := s.topicRepo.Create(ctx, tx, []*catalog.Topic{topicRow}); err != nil {
				return err
			}

			for _, q := range t.Questions {
				questionRow := &catalog.Question{
					ID:          uuid.New(),
					TopicID:     topicRow.ID,
					Text:        q.Text,
					Explanation: q.Explanation,
					Eli5:        q.Eli5,
				}
				if _, err := s.questionRepo.Create(ctx, tx, []*catalog.Question{questionRow}); err != nil {
					return err
				}
				options := []*catalog.Option{{
					ID:         uuid.New(),
					QuestionID: questionRow.ID,
					Text:       q.CorrectAnswer,
					IsCorrect:  true,
				}}
				for _, wrong := range q.WrongAnswers {
					options = append(options, &catalog.Option{
						ID:         uuid.New(),
						QuestionID: questionRow.ID,
						Text:       wrong,
					})
				}
				if _, err := s.optionRepo.Create(ctx, tx, options); err != nil {
					return err
				}
			}

			if len(t.Flashcards) > 0 {
				cards := make([]*catalog.Flashcard, 0, len(t.Flashcards))
				for _, f := range t.Flashcards {
					cards = append(cards, &catalog.Flashcard{
						ID:      uuid.New(),
						TopicID: topicRow.ID,
						Front:   f.Front,
						Back:    f.Back,
						Hint:    f.Hint,
					})
				}
				if _, err := s.flashcardRepo.Create(ctx, tx, cards); err != nil {
					return err
				}
			}

			for _, sc := range t.Scenarios {
				nodes, err := json.Marshal(sc.Nodes)
				if err != nil {
					return err
				}
				if _, err := s.scenarioRepo.Create(ctx, tx, []*catalog.Scenario{{
					ID:          uuid.New(),
					TopicID:     topicRow.ID,
					Title:       sc.Title,
					Description: sc.Description,
					Nodes:       datatypes.JSON(nodes),
				}}); err != nil {
					return err
				}
			}

			for _, p := range t.Puzzles {
				steps, err := json.Marshal(p.Steps)
				if err != nil {
					return err
				}
				if _, err := s.puzzleRepo.Create(ctx, tx, []*catalog.Puzzle{{
					ID:      uuid.New(),
					TopicID: topicRow.ID,
					Title:   p.Title,
					Prompt:  p.Prompt,
					Steps:   datatypes.JSON(steps),
				}}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, pkgerrors.Classify(op, err)
	}

	s.log.Info("applied starter catalog", "topics", len(cat.Topics))
	return true, nil
}
