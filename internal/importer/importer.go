package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/observability"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

// Kind selects which entity set an import run replaces.
type Kind string

const (
	KindQuestions  Kind = "questions"
	KindFlashcards Kind = "flashcards"

	// DefaultBatchSize keeps each insert transaction short on large files.
	DefaultBatchSize = 500

	questionArity  = 8 // topic,question,explanation,eli5,correct_answer,wrong_1,wrong_2,wrong_3
	flashcardArity = 4 // topic,front,back,hint
)

// Summary reports one run's row accounting.
type Summary struct {
	Imported int
	Skipped  int
	Batches  int
}

type Importer struct {
	db            *gorm.DB
	log           *logger.Logger
	topicRepo     repos.TopicRepo
	questionRepo  repos.QuestionRepo
	optionRepo    repos.OptionRepo
	flashcardRepo repos.FlashcardRepo
	metrics       *observability.Metrics
	batchSize     int
}

func New(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	questionRepo repos.QuestionRepo,
	optionRepo repos.OptionRepo,
	flashcardRepo repos.FlashcardRepo,
	metrics *observability.Metrics,
	batchSize int,
) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		db:            db,
		log:           log.With("component", "Importer"),
		topicRepo:     topicRepo,
		questionRepo:  questionRepo,
		optionRepo:    optionRepo,
		flashcardRepo: flashcardRepo,
		metrics:       metrics,
		batchSize:     batchSize,
	}
}

// Run streams the CSV and replaces the target entity set. The clear step is
// its own transaction; each insert batch commits independently, so a failed
// batch aborts the run but earlier batches stay committed. Callers should
// re-run a failed import from a known-clean state.
func (im *Importer) Run(ctx context.Context, r io.Reader, kind Kind) (Summary, error) {
	const op = "Importer.Run"
	var sum Summary

	switch kind {
	case KindQuestions, KindFlashcards:
	default:
		return sum, pkgerrors.Invalid(op, fmt.Sprintf("unknown import kind %q", kind))
	}

	if err := im.clear(ctx, kind); err != nil {
		return sum, pkgerrors.Classify(op, err)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	batch := make([][]string, 0, im.batchSize)
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, pkgerrors.New(pkgerrors.CodeValidation, op, fmt.Sprintf("csv parse failure at line %d", line+1), err)
		}
		line++

		if line == 1 && isHeader(record) {
			continue
		}
		if !im.validRow(record, kind, line) {
			sum.Skipped++
			im.metrics.AddImportRows(string(kind), "skipped", 1)
			continue
		}

		batch = append(batch, record)
		if len(batch) >= im.batchSize {
			if err := im.commitBatch(ctx, kind, batch, &sum); err != nil {
				return sum, pkgerrors.Classify(op, err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := im.commitBatch(ctx, kind, batch, &sum); err != nil {
			return sum, pkgerrors.Classify(op, err)
		}
	}

	im.log.Info("import finished",
		"kind", string(kind), "imported", sum.Imported, "skipped", sum.Skipped, "batches", sum.Batches)
	return sum, nil
}

// clear drops the previous generation. Topics are never cleared: they are
// upserted by name so mastery rows keyed on them survive re-imports.
func (im *Importer) clear(ctx context.Context, kind Kind) error {
	return im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch kind {
		case KindQuestions:
			if err := im.optionRepo.FullDeleteAll(ctx, tx); err != nil {
				return err
			}
			return im.questionRepo.FullDeleteAll(ctx, tx)
		case KindFlashcards:
			return im.flashcardRepo.FullDeleteAll(ctx, tx)
		}
		return nil
	})
}

func (im *Importer) validRow(record []string, kind Kind, line int) bool {
	arity := questionArity
	if kind == KindFlashcards {
		arity = flashcardArity
	}
	if len(record) != arity {
		im.log.Warn("skipping row with wrong field count",
			"line", line, "fields", len(record), "want", arity)
		return false
	}
	if strings.TrimSpace(record[0]) == "" {
		im.log.Warn("skipping row with blank topic", "line", line)
		return false
	}
	switch kind {
	case KindQuestions:
		// question text and correct answer are required; wrong answers may
		// be partially blank as long as one exists.
		if strings.TrimSpace(record[1]) == "" || strings.TrimSpace(record[4]) == "" {
			im.log.Warn("skipping question row with empty required field", "line", line)
			return false
		}
		if strings.TrimSpace(record[5]) == "" && strings.TrimSpace(record[6]) == "" && strings.TrimSpace(record[7]) == "" {
			im.log.Warn("skipping question row without wrong answers", "line", line)
			return false
		}
	case KindFlashcards:
		if strings.TrimSpace(record[1]) == "" || strings.TrimSpace(record[2]) == "" {
			im.log.Warn("skipping flashcard row with empty front or back", "line", line)
			return false
		}
	}
	return true
}

// commitBatch upserts the batch's topics by name then inserts its content
// rows, all in one transaction.
func (im *Importer) commitBatch(ctx context.Context, kind Kind, batch [][]string, sum *Summary) error {
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		topicIDs, err := im.resolveTopics(ctx, tx, batch)
		if err != nil {
			return err
		}

		switch kind {
		case KindQuestions:
			return im.insertQuestions(ctx, tx, batch, topicIDs, sum)
		case KindFlashcards:
			return im.insertFlashcards(ctx, tx, batch, topicIDs, sum)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sum.Batches++
	return nil
}

func (im *Importer) resolveTopics(ctx context.Context, tx *gorm.DB, batch [][]string) (map[string]uuid.UUID, error) {
	seen := map[string]bool{}
	rows := make([]*catalog.Topic, 0, len(batch))
	for _, record := range batch {
		name := strings.TrimSpace(record[0])
		if seen[name] {
			continue
		}
		seen[name] = true
		rows = append(rows, &catalog.Topic{ID: uuid.New(), Name: name})
	}
	resolved, err := im.topicRepo.UpsertByNames(ctx, tx, rows)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]uuid.UUID, len(resolved))
	for _, t := range resolved {
		byName[t.Name] = t.ID
	}
	return byName, nil
}

func (im *Importer) insertQuestions(ctx context.Context, tx *gorm.DB, batch [][]string, topicIDs map[string]uuid.UUID, sum *Summary) error {
	questions := make([]*catalog.Question, 0, len(batch))
	options := make([]*catalog.Option, 0, len(batch)*4)
	for _, record := range batch {
		topicID, ok := topicIDs[strings.TrimSpace(record[0])]
		if !ok {
			im.log.Warn("skipping question with unresolvable topic", "topic", record[0])
			sum.Skipped++
			im.metrics.AddImportRows(string(KindQuestions), "skipped", 1)
			continue
		}
		q := &catalog.Question{
			ID:          uuid.New(),
			TopicID:     topicID,
			Text:        strings.TrimSpace(record[1]),
			Explanation: strings.TrimSpace(record[2]),
			Eli5:        strings.TrimSpace(record[3]),
		}
		questions = append(questions, q)
		options = append(options, &catalog.Option{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Text:       strings.TrimSpace(record[4]),
			IsCorrect:  true,
		})
		for _, wrong := range record[5:] {
			if wrong = strings.TrimSpace(wrong); wrong == "" {
				continue
			}
			options = append(options, &catalog.Option{
				ID:         uuid.New(),
				QuestionID: q.ID,
				Text:       wrong,
			})
		}
	}
	if len(questions) == 0 {
		return nil
	}
	if _, err := im.questionRepo.Create(ctx, tx, questions); err != nil {
		return err
	}
	if _, err := im.optionRepo.Create(ctx, tx, options); err != nil {
		return err
	}
	sum.Imported += len(questions)
	im.metrics.AddImportRows(string(KindQuestions), "imported", len(questions))
	return nil
}

func (im *Importer) insertFlashcards(ctx context.Context, tx *gorm.DB, batch [][]string, topicIDs map[string]uuid.UUID, sum *Summary) error {
	cards := make([]*catalog.Flashcard, 0, len(batch))
	for _, record := range batch {
		topicID, ok := topicIDs[strings.TrimSpace(record[0])]
		if !ok {
			im.log.Warn("skipping flashcard with unresolvable topic", "topic", record[0])
			sum.Skipped++
			im.metrics.AddImportRows(string(KindFlashcards), "skipped", 1)
			continue
		}
		cards = append(cards, &catalog.Flashcard{
			ID:      uuid.New(),
			TopicID: topicID,
			Front:   strings.TrimSpace(record[1]),
			Back:    strings.TrimSpace(record[2]),
			Hint:    strings.TrimSpace(record[3]),
		})
	}
	if len(cards) == 0 {
		return nil
	}
	if _, err := im.flashcardRepo.Create(ctx, tx, cards); err != nil {
		return err
	}
	sum.Imported += len(cards)
	im.metrics.AddImportRows(string(KindFlashcards), "imported", len(cards))
	return nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "topic")
}
