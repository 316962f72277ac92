package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

// CatalogService serves the study content: topics and the per-topic
// flashcards, scenarios and ordering puzzles. Catalog rows are read-only at
// request time.
type CatalogService interface {
	ListTopics(ctx context.Context) ([]*catalog.Topic, error)
	ListFlashcards(ctx context.Context, topicName string) ([]*catalog.Flashcard, error)
	ListScenarios(ctx context.Context, topicName string) ([]*catalog.Scenario, error)
	ListPuzzles(ctx context.Context, topicName string) ([]*catalog.Puzzle, error)
}

type catalogService struct {
	db            *gorm.DB
	log           *logger.Logger
	topicRepo     repos.TopicRepo
	flashcardRepo repos.FlashcardRepo
	scenarioRepo  repos.ScenarioRepo
	puzzleRepo    repos.PuzzleRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	flashcardRepo repos.FlashcardRepo,
	scenarioRepo repos.ScenarioRepo,
	puzzleRepo repos.PuzzleRepo,
) CatalogService {
	return &catalogService{
		db:            db,
		log:           log.With("service", "CatalogService"),
		topicRepo:     topicRepo,
		flashcardRepo: flashcardRepo,
		scenarioRepo:  scenarioRepo,
		puzzleRepo:    puzzleRepo,
	}
}

func (cs *catalogService) ListTopics(ctx context.Context) ([]*catalog.Topic, error) {
	const op = "CatalogService.ListTopics"
	rows, err := cs.topicRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	if rows == nil {
		rows = []*catalog.Topic{}
	}
	return rows, nil
}

func (cs *catalogService) ListFlashcards(ctx context.Context, topicName string) ([]*catalog.Flashcard, error) {
	const op = "CatalogService.ListFlashcards"
	topic, err := resolveTopicByName(ctx, op, cs.topicRepo, topicName)
	if err != nil {
		return nil, err
	}
	rows, err := cs.flashcardRepo.GetByTopicIDs(ctx, nil, []uuid.UUID{topic.ID})
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	if rows == nil {
		rows = []*catalog.Flashcard{}
	}
	return rows, nil
}

func (cs *catalogService) ListScenarios(ctx context.Context, topicName string) ([]*catalog.Scenario, error) {
	const op = "CatalogService.ListScenarios"
	topic, err := resolveTopicByName(ctx, op, cs.topicRepo, topicName)
	if err != nil {
		return nil, err
	}
	rows, err := cs.scenarioRepo.GetByTopicIDs(ctx, nil, []uuid.UUID{topic.ID})
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	if rows == nil {
		rows = []*catalog.Scenario{}
	}
	return rows, nil
}

func (cs *catalogService) ListPuzzles(ctx context.Context, topicName string) ([]*catalog.Puzzle, error) {
	const op = "CatalogService.ListPuzzles"
	topic, err := resolveTopicByName(ctx, op, cs.topicRepo, topicName)
	if err != nil {
		return nil, err
	}
	rows, err := cs.puzzleRepo.GetByTopicIDs(ctx, nil, []uuid.UUID{topic.ID})
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}
	if rows == nil {
		rows = []*catalog.Puzzle{}
	}
	return rows, nil
}

// resolveTopicByName distinguishes a missing topic argument (validation) from
// an unknown topic (not found). Shared by every topic-scoped service.
func resolveTopicByName(ctx context.Context, op string, topicRepo repos.TopicRepo, name string) (*catalog.Topic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.Invalid(op, "topic is required")
	}
	row, err := topicRepo.GetByName(ctx, nil, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(op, "unknown topic")
		}
		return nil, pkgerrors.Classify(op, err)
	}
	return row, nil
}
