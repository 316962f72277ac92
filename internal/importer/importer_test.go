package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/coachprep/coachprep-backend/internal/data/db"
	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/data/repos/testutil"
	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("automigrate test db: %v", err)
	}
	return gdb
}

func newTestImporter(t *testing.T, gdb *gorm.DB, batchSize int) *Importer {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return New(
		gdb, log,
		repos.NewTopicRepo(gdb, log),
		repos.NewQuestionRepo(gdb, log),
		repos.NewOptionRepo(gdb, log),
		repos.NewFlashcardRepo(gdb, log),
		nil,
		batchSize,
	)
}

const questionsCSV = `topic,question,explanation,eli5,correct_answer,wrong_answer_1,wrong_answer_2,wrong_answer_3
Nutrition Basics,How many calories per gram of fat?,Fat is the densest macro.,Fat packs the most energy.,9,4,7,12
Nutrition Basics,Which macro builds muscle?,Protein supplies amino acids.,Protein is the body's bricks.,Protein,Fat,Carbs,
Ethics,What is a dual relationship?,Mixing coach and other roles.,Wearing two hats at once.,A conflict of roles,A referral,A contract,A warm-up
`

func TestRunImportsQuestions(t *testing.T) {
	gdb := newTestDB(t)
	im := newTestImporter(t, gdb, 0)

	sum, err := im.Run(context.Background(), strings.NewReader(questionsCSV), KindQuestions)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Imported != 3 || sum.Skipped != 0 || sum.Batches != 1 {
		t.Fatalf("summary = %+v, want 3 imported in 1 batch", sum)
	}

	var topics []*catalog.Topic
	if err := gdb.Find(&topics).Error; err != nil {
		t.Fatalf("load topics: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(topics))
	}

	var questions []*catalog.Question
	if err := gdb.Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}
	for _, q := range questions {
		var correct, total int64
		if err := gdb.Model(&catalog.Option{}).Where("question_id = ? AND is_correct = ?", q.ID, true).Count(&correct).Error; err != nil {
			t.Fatalf("count correct: %v", err)
		}
		if err := gdb.Model(&catalog.Option{}).Where("question_id = ?", q.ID).Count(&total).Error; err != nil {
			t.Fatalf("count options: %v", err)
		}
		if correct != 1 {
			t.Fatalf("question %q has %d correct options, want 1", q.Text, correct)
		}
		if total < 2 {
			t.Fatalf("question %q has only %d options", q.Text, total)
		}
	}

	// The row with a trailing blank wrong answer keeps just its non-blank ones.
	var protein catalog.Question
	if err := gdb.Where("text = ?", "Which macro builds muscle?").First(&protein).Error; err != nil {
		t.Fatalf("find question: %v", err)
	}
	var opts int64
	if err := gdb.Model(&catalog.Option{}).Where("question_id = ?", protein.ID).Count(&opts).Error; err != nil {
		t.Fatalf("count options: %v", err)
	}
	if opts != 3 {
		t.Fatalf("got %d options, want 3 (blank wrong answer dropped)", opts)
	}
}

func TestRunSkipsMalformedRows(t *testing.T) {
	gdb := newTestDB(t)
	im := newTestImporter(t, gdb, 0)

	csv := "topic,question,explanation,eli5,correct_answer,wrong_answer_1,wrong_answer_2,wrong_answer_3\n" +
		"Ethics,Valid question?,expl,simple,Yes,No,Maybe,\n" +
		"short,row\n" +
		" ,Blank topic?,expl,simple,Yes,No,,\n" +
		"Ethics,,expl,simple,Yes,No,,\n" +
		"Ethics,No correct?,expl,simple,,No,,\n" +
		"Ethics,No wrongs?,expl,simple,Yes,,,\n"
	sum, err := im.Run(context.Background(), strings.NewReader(csv), KindQuestions)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Imported != 1 {
		t.Fatalf("imported = %d, want 1", sum.Imported)
	}
	if sum.Skipped != 5 {
		t.Fatalf("skipped = %d, want 5", sum.Skipped)
	}
}

func TestRunReplacesQuestionsButKeepsTopics(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	topic := testutil.SeedTopic(t, ctx, gdb, "Nutrition Basics")
	stale := testutil.SeedQuestion(t, ctx, gdb, topic.ID, "old question", "old right", "old wrong")
	im := newTestImporter(t, gdb, 0)

	if _, err := im.Run(ctx, strings.NewReader(questionsCSV), KindQuestions); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var gone int64
	if err := gdb.Model(&catalog.Question{}).Where("id = ?", stale.ID).Count(&gone).Error; err != nil {
		t.Fatalf("count stale: %v", err)
	}
	if gone != 0 {
		t.Fatal("previous question generation not cleared")
	}

	// The existing topic is reused by name, not duplicated.
	var sameName []*catalog.Topic
	if err := gdb.Where("name = ?", "Nutrition Basics").Find(&sameName).Error; err != nil {
		t.Fatalf("load topic: %v", err)
	}
	if len(sameName) != 1 {
		t.Fatalf("got %d topics named Nutrition Basics, want 1", len(sameName))
	}
	if sameName[0].ID != topic.ID {
		t.Fatal("topic row replaced instead of reused")
	}
}

func TestRunImportsFlashcards(t *testing.T) {
	gdb := newTestDB(t)
	im := newTestImporter(t, gdb, 0)

	csv := "topic,front,back,hint\n" +
		"Nutrition Basics,What is a macro?,A nutrient needed in bulk.,Three of them\n" +
		"Nutrition Basics,Missing back,,hint\n" +
		"Ethics,Dual relationship?,A conflict of roles.,\n"
	sum, err := im.Run(context.Background(), strings.NewReader(csv), KindFlashcards)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Imported != 2 || sum.Skipped != 1 {
		t.Fatalf("summary = %+v, want 2 imported 1 skipped", sum)
	}
	var cards int64
	if err := gdb.Model(&catalog.Flashcard{}).Count(&cards).Error; err != nil {
		t.Fatalf("count flashcards: %v", err)
	}
	if cards != 2 {
		t.Fatalf("got %d flashcards, want 2", cards)
	}
}

func TestRunRerunIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	im := newTestImporter(t, gdb, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := im.Run(ctx, strings.NewReader(questionsCSV), KindQuestions); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}
	var questions, topics int64
	if err := gdb.Model(&catalog.Question{}).Count(&questions).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if err := gdb.Model(&catalog.Topic{}).Count(&topics).Error; err != nil {
		t.Fatalf("count topics: %v", err)
	}
	if questions != 3 || topics != 2 {
		t.Fatalf("after rerun: %d questions %d topics, want 3/2", questions, topics)
	}
}

func TestRunBatching(t *testing.T) {
	gdb := newTestDB(t)
	im := newTestImporter(t, gdb, 2)

	var b strings.Builder
	b.WriteString("topic,front,back,hint\n")
	for i := 0; i < 5; i++ {
		b.WriteString("Ethics,front ")
		b.WriteByte(byte('a' + i))
		b.WriteString(",back,hint\n")
	}
	sum, err := im.Run(context.Background(), strings.NewReader(b.String()), KindFlashcards)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Imported != 5 || sum.Batches != 3 {
		t.Fatalf("summary = %+v, want 5 imported across 3 batches", sum)
	}
}

func TestRunRejectsUnknownKind(t *testing.T) {
	gdb := newTestDB(t)
	im := newTestImporter(t, gdb, 0)

	if _, err := im.Run(context.Background(), strings.NewReader(""), Kind("scenarios")); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}
