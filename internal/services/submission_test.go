package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/repos"
	"github.com/coachprep/coachprep-backend/internal/data/repos/testutil"
	"github.com/coachprep/coachprep-backend/internal/domain/progress"
	pkgerrors "github.com/coachprep/coachprep-backend/internal/pkg/errors"
)

func newSubmissionService(t *testing.T, gdb *gorm.DB, now time.Time) *submissionService {
	t.Helper()
	log := newTestLogger(t)
	svc := NewSubmissionService(
		gdb, log,
		repos.NewTopicRepo(gdb, log),
		repos.NewTopicMasteryRepo(gdb, log),
		repos.NewMasteryHistoryRepo(gdb, log),
		repos.NewUserStatsRepo(gdb, log),
		repos.NewAchievementRepo(gdb, log),
		repos.NewUserAchievementRepo(gdb, log),
	).(*submissionService)
	svc.now = func() time.Time { return now }
	return svc
}

func seedAchievementDefs(t *testing.T, ctx context.Context, gdb *gorm.DB) map[string]uuid.UUID {
	t.Helper()
	ids := map[string]uuid.UUID{}
	for _, code := range []string{
		progress.AchievementFirstQuiz,
		progress.AchievementPerfectScore,
		progress.AchievementPoints500,
		progress.AchievementMastery100,
		progress.AchievementStreak7,
	} {
		a := testutil.SeedAchievement(t, ctx, gdb, code, code)
		ids[code] = a.ID
	}
	return ids
}

func earnedCodes(t *testing.T, gdb *gorm.DB, userID uuid.UUID, ids map[string]uuid.UUID) map[string]bool {
	t.Helper()
	var rows []*progress.UserAchievement
	if err := gdb.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		t.Fatalf("load user achievements: %v", err)
	}
	byID := map[uuid.UUID]string{}
	for code, id := range ids {
		byID[id] = code
	}
	out := map[string]bool{}
	for _, row := range rows {
		out[byID[row.AchievementID]] = true
	}
	return out
}

func TestSubmitValidationWritesNothing(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "score@example.com")
	topic := testutil.SeedTopic(t, ctx, gdb, "Nutrition Basics")
	svc := newSubmissionService(t, gdb, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	cases := []struct {
		name           string
		userID         uuid.UUID
		topic          string
		correct, total int
	}{
		{"zero total", u.ID, topic.Name, 0, 0},
		{"negative total", u.ID, topic.Name, 0, -3},
		{"negative correct", u.ID, topic.Name, -1, 5},
		{"correct above total", u.ID, topic.Name, 6, 5},
		{"blank topic", u.ID, "", 3, 5},
		{"nil user", uuid.Nil, topic.Name, 3, 5},
	}
	for _, tc := range cases {
		if _, err := svc.Submit(ctx, tc.userID, tc.topic, tc.correct, tc.total); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Fatalf("%s: want ErrInvalidArgument, got %v", tc.name, err)
		}
	}
	if _, err := svc.Submit(ctx, u.ID, "No Such Topic", 3, 5); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown topic: want ErrNotFound, got %v", err)
	}

	var historyCount, masteryCount int64
	if err := gdb.Model(&progress.MasteryHistory{}).Count(&historyCount).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	if err := gdb.Model(&progress.TopicMastery{}).Count(&masteryCount).Error; err != nil {
		t.Fatalf("count mastery: %v", err)
	}
	if historyCount != 0 || masteryCount != 0 {
		t.Fatalf("rejected submissions wrote rows: history=%d mastery=%d", historyCount, masteryCount)
	}
}

func TestSubmitPerfectScoreNearCap(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "perfect@example.com")
	topic := testutil.SeedTopic(t, ctx, gdb, "Motivational Interviewing")
	testutil.SeedMastery(t, ctx, gdb, u.ID, topic.ID, 90)
	ids := seedAchievementDefs(t, ctx, gdb)
	svc := newSubmissionService(t, gdb, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	res, err := svc.Submit(ctx, u.ID, topic.Name, 5, 5)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.PointsAwarded != 100 {
		t.Fatalf("points = %d, want 100 (5*10 + perfect bonus)", res.PointsAwarded)
	}
	if res.NewMastery != 100 {
		t.Fatalf("new mastery = %d, want 100 (90 + 20 capped)", res.NewMastery)
	}

	var history []*progress.MasteryHistory
	if err := gdb.Where("user_id = ?", u.ID).Find(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 1 || history[0].Score != 100 {
		t.Fatalf("history = %+v, want one row with score 100", history)
	}

	earned := earnedCodes(t, gdb, u.ID, ids)
	for _, code := range []string{progress.AchievementFirstQuiz, progress.AchievementPerfectScore, progress.AchievementMastery100} {
		if !earned[code] {
			t.Fatalf("achievement %q not awarded, earned=%v", code, earned)
		}
	}
	if earned[progress.AchievementPoints500] || earned[progress.AchievementStreak7] {
		t.Fatalf("unexpected achievements awarded: %v", earned)
	}
}

func TestSubmitCreatesMasteryAndStatsWhenMissing(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "fresh@example.com")
	topic := testutil.SeedTopic(t, ctx, gdb, "Scope of Practice")
	seedAchievementDefs(t, ctx, gdb)
	svc := newSubmissionService(t, gdb, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	res, err := svc.Submit(ctx, u.ID, topic.Name, 5, 10)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// Score 50% on a fresh mastery row: round(0 + 0.5*20) = 10.
	if res.NewMastery != 10 {
		t.Fatalf("new mastery = %d, want 10", res.NewMastery)
	}
	if res.PointsAwarded != 50 {
		t.Fatalf("points = %d, want 50", res.PointsAwarded)
	}

	var stats progress.UserStats
	if err := gdb.Where("user_id = ?", u.ID).First(&stats).Error; err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if stats.Points != 50 || stats.Level != 1 || stats.Streak != 1 {
		t.Fatalf("stats = points %d level %d streak %d, want 50/1/1", stats.Points, stats.Level, stats.Streak)
	}
	if stats.Readiness != 10 {
		t.Fatalf("readiness = %d, want 10 (single topic at 10)", stats.Readiness)
	}
	if stats.LastActivityAt == nil {
		t.Fatal("last activity not recorded")
	}
}

func TestSubmitMasteryNeverDecreases(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "floor@example.com")
	topic := testutil.SeedTopic(t, ctx, gdb, "Ethics")
	testutil.SeedMastery(t, ctx, gdb, u.ID, topic.ID, 100)
	seedAchievementDefs(t, ctx, gdb)
	svc := newSubmissionService(t, gdb, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	res, err := svc.Submit(ctx, u.ID, topic.Name, 0, 5)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.NewMastery != 100 {
		t.Fatalf("new mastery = %d, want 100 (must not decrease)", res.NewMastery)
	}
}

func TestSubmitRepeatedPerfectsConvergeToFull(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "grind@example.com")
	topic := testutil.SeedTopic(t, ctx, gdb, "Program Design")
	seedAchievementDefs(t, ctx, gdb)
	svc := newSubmissionService(t, gdb, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	want := []int{20, 40, 60, 80, 100, 100}
	for i, expect := range want {
		res, err := svc.Submit(ctx, u.ID, topic.Name, 5, 5)
		if err != nil {
			t.Fatalf("Submit #%d: %v", i+1, err)
		}
		if res.NewMastery != expect {
			t.Fatalf("Submit #%d: mastery = %d, want %d", i+1, res.NewMastery, expect)
		}
	}
}

func TestSubmitLevelAndPointsAchievement(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "level@example.com")
	topic := testutil.SeedTopic(t, ctx, gdb, "Client Assessment")
	stats := testutil.SeedStats(t, ctx, gdb, u.ID)
	stats.Points = 460
	stats.Streak = 1
	stats.LastActivityAt = testutil.PtrTime(time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC))
	if err := gdb.Save(stats).Error; err != nil {
		t.Fatalf("update stats: %v", err)
	}
	ids := seedAchievementDefs(t, ctx, gdb)
	svc := newSubmissionService(t, gdb, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	res, err := svc.Submit(ctx, u.ID, topic.Name, 4, 5)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.PointsAwarded != 40 {
		t.Fatalf("points = %d, want 40", res.PointsAwarded)
	}

	var got progress.UserStats
	if err := gdb.Where("user_id = ?", u.ID).First(&got).Error; err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if got.Points != 500 {
		t.Fatalf("points = %d, want 500", got.Points)
	}
	if got.Level != 3 {
		t.Fatalf("level = %d, want 3 (1 + 500/250)", got.Level)
	}
	if got.Streak != 2 {
		t.Fatalf("streak = %d, want 2 (consecutive day)", got.Streak)
	}
	if !earnedCodes(t, gdb, u.ID, ids)[progress.AchievementPoints500] {
		t.Fatal("points_500 not awarded at 500 points")
	}
}

func TestSubmitAchievementAwardIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "repeat@example.com")
	topic := testutil.SeedTopic(t, ctx, gdb, "Ethics")
	seedAchievementDefs(t, ctx, gdb)
	svc := newSubmissionService(t, gdb, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(ctx, u.ID, topic.Name, 5, 5); err != nil {
			t.Fatalf("Submit #%d: %v", i+1, err)
		}
	}
	var rows []*progress.UserAchievement
	if err := gdb.Where("user_id = ?", u.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load user achievements: %v", err)
	}
	seen := map[uuid.UUID]bool{}
	for _, row := range rows {
		if seen[row.AchievementID] {
			t.Fatalf("achievement %s awarded twice", row.AchievementID)
		}
		seen[row.AchievementID] = true
	}
}

func TestSubmitReadinessAveragesAllTopics(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "ready@example.com")
	topicA := testutil.SeedTopic(t, ctx, gdb, "Nutrition Basics")
	topicB := testutil.SeedTopic(t, ctx, gdb, "Behavior Change Models")
	testutil.SeedMastery(t, ctx, gdb, u.ID, topicA.ID, 80)
	testutil.SeedMastery(t, ctx, gdb, u.ID, topicB.ID, 0)
	seedAchievementDefs(t, ctx, gdb)
	svc := newSubmissionService(t, gdb, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	if _, err := svc.Submit(ctx, u.ID, topicB.Name, 5, 5); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	var stats progress.UserStats
	if err := gdb.Where("user_id = ?", u.ID).First(&stats).Error; err != nil {
		t.Fatalf("load stats: %v", err)
	}
	// Topic B moved to 20, so readiness = round((80+20)/2) = 50.
	if stats.Readiness != 50 {
		t.Fatalf("readiness = %d, want 50", stats.Readiness)
	}
}

func TestNextStreak(t *testing.T) {
	day := func(d int, hour int) time.Time {
		return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
	}
	cases := []struct {
		name    string
		current int
		last    *time.Time
		now     time.Time
		want    int
	}{
		{"first ever", 0, nil, day(1, 10), 1},
		{"same day repeat", 3, testutil.PtrTime(day(1, 8)), day(1, 23), 3},
		{"same day with zero streak", 0, testutil.PtrTime(day(1, 8)), day(1, 23), 1},
		{"next day extends", 3, testutil.PtrTime(day(1, 23)), day(2, 1), 4},
		{"gap resets", 9, testutil.PtrTime(day(1, 10)), day(3, 10), 1},
		{"clock skew backwards resets", 5, testutil.PtrTime(day(3, 10)), day(1, 10), 1},
	}
	for _, tc := range cases {
		if got := nextStreak(tc.current, tc.last, tc.now); got != tc.want {
			t.Fatalf("%s: nextStreak = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSubmissionMessageTiers(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "Perfect score! Outstanding work."},
		{80, "Great job! You're well on your way."},
		{50, "Good effort. Keep practicing."},
		{49, "Keep studying. You'll get there."},
		{0, "Keep studying. You'll get there."},
	}
	for _, tc := range cases {
		if got := submissionMessage(tc.score); got != tc.want {
			t.Fatalf("submissionMessage(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
