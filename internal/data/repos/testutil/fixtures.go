package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/domain/catalog"
	"github.com/coachprep/coachprep-backend/internal/domain/progress"
	"github.com/coachprep/coachprep-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *user.User {
	tb.Helper()
	u := &user.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *catalog.Topic {
	tb.Helper()
	t := &catalog.Topic{
		ID:          uuid.New(),
		Name:        name,
		Description: "about " + name,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

// SeedQuestion creates a well-formed question: one correct option plus the
// given wrong answers.
func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, text, correct string, wrong ...string) *catalog.Question {
	tb.Helper()
	q := &catalog.Question{
		ID:          uuid.New(),
		TopicID:     topicID,
		Text:        text,
		Explanation: "explanation for " + text,
		Eli5:        "simply: " + text,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	opts := []*catalog.Option{{
		ID:         uuid.New(),
		QuestionID: q.ID,
		Text:       correct,
		IsCorrect:  true,
	}}
	for _, w := range wrong {
		opts = append(opts, &catalog.Option{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Text:       w,
		})
	}
	if err := tx.WithContext(ctx).Create(&opts).Error; err != nil {
		tb.Fatalf("seed options: %v", err)
	}
	return q
}

// SeedQuestionWithCorrectCount creates a question whose option set carries
// the given number of correct options, for exercising malformed-row handling.
func SeedQuestionWithCorrectCount(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, text string, correctCount int) *catalog.Question {
	tb.Helper()
	q := &catalog.Question{
		ID:      uuid.New(),
		TopicID: topicID,
		Text:    text,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	opts := []*catalog.Option{
		{ID: uuid.New(), QuestionID: q.ID, Text: "wrong one"},
		{ID: uuid.New(), QuestionID: q.ID, Text: "wrong two"},
	}
	for i := 0; i < correctCount; i++ {
		opts = append(opts, &catalog.Option{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Text:       "right",
			IsCorrect:  true,
		})
	}
	if err := tx.WithContext(ctx).Create(&opts).Error; err != nil {
		tb.Fatalf("seed options: %v", err)
	}
	return q
}

func SeedFlashcard(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, front, back string) *catalog.Flashcard {
	tb.Helper()
	f := &catalog.Flashcard{
		ID:      uuid.New(),
		TopicID: topicID,
		Front:   front,
		Back:    back,
		Hint:    "hint",
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed flashcard: %v", err)
	}
	return f
}

func SeedScenario(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, title string) *catalog.Scenario {
	tb.Helper()
	s := &catalog.Scenario{
		ID:      uuid.New(),
		TopicID: topicID,
		Title:   title,
		Nodes:   datatypes.JSON([]byte(`[{"id":"start","text":"Client arrives late.","choices":[{"text":"Ask why","next":"probe"}]}]`)),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed scenario: %v", err)
	}
	return s
}

func SeedPuzzle(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, title string) *catalog.Puzzle {
	tb.Helper()
	p := &catalog.Puzzle{
		ID:      uuid.New(),
		TopicID: topicID,
		Title:   title,
		Prompt:  "Order the steps",
		Steps:   datatypes.JSON([]byte(`["Assess","Plan","Act","Review"]`)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed puzzle: %v", err)
	}
	return p
}

func SeedStats(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *progress.UserStats {
	tb.Helper()
	s := &progress.UserStats{
		ID:     uuid.New(),
		UserID: userID,
		Level:  1,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed stats: %v", err)
	}
	return s
}

func SeedMastery(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID, score int) *progress.TopicMastery {
	tb.Helper()
	m := &progress.TopicMastery{
		ID:      uuid.New(),
		UserID:  userID,
		TopicID: topicID,
		Score:   score,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed mastery: %v", err)
	}
	return m
}

func SeedHistory(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, topicID uuid.UUID, score int, recordedAt time.Time) *progress.MasteryHistory {
	tb.Helper()
	h := &progress.MasteryHistory{
		ID:         uuid.New(),
		UserID:     userID,
		TopicID:    topicID,
		Score:      score,
		RecordedAt: recordedAt,
	}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed history: %v", err)
	}
	return h
}

func SeedAchievement(tb testing.TB, ctx context.Context, tx *gorm.DB, code, name string) *progress.Achievement {
	tb.Helper()
	a := &progress.Achievement{
		ID:   uuid.New(),
		Code: code,
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

func PtrTime(v time.Time) *time.Time { return &v }
