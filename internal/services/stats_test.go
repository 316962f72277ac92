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

func newStatsService(t *testing.T, gdb *gorm.DB) StatsService {
	t.Helper()
	log := newTestLogger(t)
	return NewStatsService(
		gdb, log,
		repos.NewTopicRepo(gdb, log),
		repos.NewTopicMasteryRepo(gdb, log),
		repos.NewUserStatsRepo(gdb, log),
		repos.NewAchievementRepo(gdb, log),
		repos.NewUserAchievementRepo(gdb, log),
	)
}

func TestGetStatsZeroValueWithoutRow(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "nosnap@example.com")
	svc := newStatsService(t, gdb)

	got, err := svc.GetStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if got.Level != 1 || got.Points != 0 || got.Streak != 0 || got.Readiness != 0 {
		t.Fatalf("zero-value snapshot = %+v, want level 1 and zeroes", got)
	}
	if got.LastActivityAt != nil {
		t.Fatal("fresh snapshot must not carry an activity timestamp")
	}

	if _, err := svc.GetStats(ctx, uuid.Nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("nil user: want ErrInvalidArgument, got %v", err)
	}
}

func TestGetStatsReadsRow(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "snap@example.com")
	stats := testutil.SeedStats(t, ctx, gdb, u.ID)
	stats.Points = 520
	stats.Streak = 4
	stats.Level = 3
	stats.Readiness = 61
	stats.LastActivityAt = testutil.PtrTime(time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC))
	if err := gdb.Save(stats).Error; err != nil {
		t.Fatalf("update stats: %v", err)
	}
	svc := newStatsService(t, gdb)

	got, err := svc.GetStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if got.Points != 520 || got.Streak != 4 || got.Level != 3 || got.Readiness != 61 {
		t.Fatalf("snapshot = %+v", got)
	}
	if got.LastActivityAt == nil {
		t.Fatal("activity timestamp missing")
	}
}

func TestGetMasterySortedByTopicName(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "mastery@example.com")
	zebra := testutil.SeedTopic(t, ctx, gdb, "Zone Training")
	alpha := testutil.SeedTopic(t, ctx, gdb, "Assessment")
	testutil.SeedMastery(t, ctx, gdb, u.ID, zebra.ID, 30)
	testutil.SeedMastery(t, ctx, gdb, u.ID, alpha.ID, 70)
	svc := newStatsService(t, gdb)

	got, err := svc.GetMastery(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetMastery: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Topic != "Assessment" || got[0].Score != 70 {
		t.Fatalf("first entry = %+v, want Assessment/70", got[0])
	}
	if got[1].Topic != "Zone Training" || got[1].Score != 30 {
		t.Fatalf("second entry = %+v, want Zone Training/30", got[1])
	}
}

func TestGetAchievementsMarksEarned(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "badges@example.com")
	first := testutil.SeedAchievement(t, ctx, gdb, progress.AchievementFirstQuiz, "First Steps")
	testutil.SeedAchievement(t, ctx, gdb, progress.AchievementStreak7, "Week Warrior")
	earnedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := gdb.Create(&progress.UserAchievement{
		ID:            uuid.New(),
		UserID:        u.ID,
		AchievementID: first.ID,
		EarnedAt:      earnedAt,
	}).Error; err != nil {
		t.Fatalf("seed earned row: %v", err)
	}
	svc := newStatsService(t, gdb)

	got, err := svc.GetAchievements(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetAchievements: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want the full catalog (2)", len(got))
	}
	byCode := map[string]AchievementEntry{}
	for _, e := range got {
		byCode[e.Code] = e
	}
	fq := byCode[progress.AchievementFirstQuiz]
	if !fq.Earned || fq.EarnedAt == nil || !fq.EarnedAt.Equal(earnedAt) {
		t.Fatalf("first_quiz entry = %+v, want earned at %v", fq, earnedAt)
	}
	if byCode[progress.AchievementStreak7].Earned {
		t.Fatal("unearned badge marked earned")
	}
}

func TestOverviewCombinesAllThree(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, gdb, "overview@example.com")
	topic := testutil.SeedTopic(t, ctx, gdb, "Ethics")
	testutil.SeedMastery(t, ctx, gdb, u.ID, topic.ID, 45)
	stats := testutil.SeedStats(t, ctx, gdb, u.ID)
	stats.Points = 120
	if err := gdb.Save(stats).Error; err != nil {
		t.Fatalf("update stats: %v", err)
	}
	testutil.SeedAchievement(t, ctx, gdb, progress.AchievementFirstQuiz, "First Steps")
	svc := newStatsService(t, gdb)

	got, err := svc.Overview(ctx, u.ID)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if got.Stats == nil || got.Stats.Points != 120 {
		t.Fatalf("overview stats = %+v", got.Stats)
	}
	if len(got.Mastery) != 1 || got.Mastery[0].Topic != "Ethics" || got.Mastery[0].Score != 45 {
		t.Fatalf("overview mastery = %+v", got.Mastery)
	}
	if len(got.Achievements) != 1 || got.Achievements[0].Earned {
		t.Fatalf("overview achievements = %+v", got.Achievements)
	}
}
