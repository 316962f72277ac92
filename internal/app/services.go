package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/observability"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
	"github.com/coachprep/coachprep-backend/internal/pkg/randutil"
	"github.com/coachprep/coachprep-backend/internal/services"
)

type Services struct {
	Avatar     services.AvatarService
	Auth       services.AuthService
	User       services.UserService
	Catalog    services.CatalogService
	Quiz       services.QuizService
	Submission services.SubmissionService
	Analytics  services.AnalyticsService
	Stats      services.StatsService
	Seed       services.SeedService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	avatarService, err := services.NewAvatarService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	authService := services.NewAuthService(
		db, log,
		reposet.User, reposet.UserToken, reposet.Topic,
		reposet.UserStats, reposet.TopicMastery,
		avatarService, clients.TokenDenylist,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	userService := services.NewUserService(db, log, reposet.User)
	catalogService := services.NewCatalogService(db, log, reposet.Topic, reposet.Flashcard, reposet.Scenario, reposet.Puzzle)
	quizService := services.NewQuizService(db, log, reposet.Topic, reposet.Question, randutil.New(), metrics)
	submissionService := services.NewSubmissionService(
		db, log,
		reposet.Topic, reposet.TopicMastery, reposet.MasteryHistory,
		reposet.UserStats, reposet.Achievement, reposet.UserAchievement,
	)
	analyticsService := services.NewAnalyticsService(db, log, reposet.Topic, reposet.MasteryHistory)
	statsService := services.NewStatsService(
		db, log,
		reposet.Topic, reposet.TopicMastery, reposet.UserStats,
		reposet.Achievement, reposet.UserAchievement,
	)
	seedService := services.NewSeedService(
		db, log,
		reposet.Topic, reposet.Question, reposet.Option,
		reposet.Flashcard, reposet.Scenario, reposet.Puzzle,
		reposet.Achievement,
	)

	return Services{
		Avatar:     avatarService,
		Auth:       authService,
		User:       userService,
		Catalog:    catalogService,
		Quiz:       quizService,
		Submission: submissionService,
		Analytics:  analyticsService,
		Stats:      statsService,
		Seed:       seedService,
	}, nil
}
