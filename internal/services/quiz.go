package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/observability"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
	"github.com/coachprep/coachprep-backend/internal/pkg/randutil"
)

const (
	// Question budget: one question per 1.5 minutes of study time, floor of 3.
	minutesPerQuestion = 1.5
	minQuizQuestions   = 3
)

// QuizQuestion is the wire shape of a generated question. Options carry the
// full shuffled answer texts; the correct one is repeated in CorrectAnswer so
// clients can grade locally.
type QuizQuestion struct {
	ID            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	Explanation   string    `json:"explanation"`
	Eli5          string    `json:"eli5"`
	CorrectAnswer string    `json:"correctAnswer"`
	Options       []string  `json:"options"`
}

type QuizService interface {
	Generate(ctx context.Context, topicName string, durationMinutes float64) ([]QuizQuestion, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	topicRepo    repos.TopicRepo
	questionRepo repos.QuestionRepo
	rng          randutil.Source
	metrics      *observability.Metrics
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	questionRepo repos.QuestionRepo,
	rng randutil.Source,
	metrics *observability.Metrics,
) QuizService {
	return &quizService{
		db:           db,
		log:          log.With("service", "QuizService"),
		topicRepo:    topicRepo,
		questionRepo: questionRepo,
		rng:          rng,
		metrics:      metrics,
	}
}

// Generate samples questions for the topic without replacement. Questions
// with zero or multiple correct options are excluded with a warning; a quiz
// shorter than requested (even empty) is served as-is.
func (qs *quizService) Generate(ctx context.Context, topicName string, durationMinutes float64) ([]QuizQuestion, error) {
	const op = "QuizService.Generate"
	if durationMinutes < 0 {
		return nil, pkgerrors.Invalid(op, "duration must not be negative")
	}
	topic, err := resolveTopicByName(ctx, op, qs.topicRepo, topicName)
	if err != nil {
		return nil, err
	}

	count := int(math.Floor(durationMinutes / minutesPerQuestion))
	if count < minQuizQuestions {
		count = minQuizQuestions
	}

	rows, err := qs.questionRepo.GetByTopicIDs(ctx, nil, []uuid.UUID{topic.ID})
	if err != nil {
		return nil, pkgerrors.Classify(op, err)
	}

	valid := make([]*catalog.Question, 0, len(rows))
	for _, q := range rows {
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			qs.log.Warn("skipping malformed question",
				"question_id", q.ID, "topic", topic.Name, "correct_options", correct)
			qs.metrics.IncMalformedQuestion()
			continue
		}
		valid = append(valid, q)
	}

	order := qs.rng.Perm(len(valid))
	if len(order) > count {
		order = order[:count]
	}

	out := make([]QuizQuestion, 0, len(order))
	for _, idx := range order {
		q := valid[idx]
		options := make([]string, 0, len(q.Options))
		var correctAnswer string
		for _, o := range q.Options {
			options = append(options, o.Text)
			if o.IsCorrect {
				correctAnswer = o.Text
			}
		}
		qs.rng.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		out = append(out, QuizQuestion{
			ID:            q.ID,
			Question:      q.Text,
			Explanation:   q.Explanation,
			Eli5:          q.Eli5,
			CorrectAnswer: correctAnswer,
			Options:       options,
		})
	}
	return out, nil
}
