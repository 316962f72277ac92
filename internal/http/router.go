package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/coachprep/coachprep-backend/internal/http/handlers"
	httpMW "github.com/coachprep/coachprep-backend/internal/http/middleware"
	"github.com/coachprep/coachprep-backend/internal/observability"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler    *httpH.HealthHandler
	AuthHandler      *httpH.AuthHandler
	UserHandler      *httpH.UserHandler
	CatalogHandler   *httpH.CatalogHandler
	QuizHandler      *httpH.QuizHandler
	AnalyticsHandler *httpH.AnalyticsHandler
	StatsHandler     *httpH.StatsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("coachprep"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", observability.Handler())
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User
		if cfg.UserHandler != nil {
			protected.GET("/user", cfg.UserHandler.GetMe)
			protected.GET("/user/avatar", cfg.UserHandler.GetAvatar)
		}

		// Content catalog
		if cfg.CatalogHandler != nil {
			protected.GET("/topics", cfg.CatalogHandler.ListTopics)
			protected.GET("/flashcards", cfg.CatalogHandler.ListFlashcards)
			protected.GET("/scenarios", cfg.CatalogHandler.ListScenarios)
			protected.GET("/puzzles", cfg.CatalogHandler.ListPuzzles)
		}

		// Quiz
		if cfg.QuizHandler != nil {
			protected.POST("/quiz", cfg.QuizHandler.Generate)
			protected.POST("/quiz/submit", cfg.QuizHandler.Submit)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			protected.GET("/analytics/mastery-trend", cfg.AnalyticsHandler.MasteryTrend)
		}

		// Stats + gamification
		if cfg.StatsHandler != nil {
			protected.GET("/stats", cfg.StatsHandler.GetStats)
			protected.GET("/mastery", cfg.StatsHandler.GetMastery)
			protected.GET("/achievements", cfg.StatsHandler.GetAchievements)
			protected.GET("/overview", cfg.StatsHandler.Overview)
		}
	}

	return r
}
