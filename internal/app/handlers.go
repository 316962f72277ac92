package app

import (
	"github.com/gin-gonic/gin"

	httpx "github.com/coachprep/coachprep-backend/internal/http"
	httpH "github.com/coachprep/coachprep-backend/internal/http/handlers"
	httpMW "github.com/coachprep/coachprep-backend/internal/http/middleware"
	"github.com/coachprep/coachprep-backend/internal/observability"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	Catalog   *httpH.CatalogHandler
	Quiz      *httpH.QuizHandler
	Analytics *httpH.AnalyticsHandler
	Stats     *httpH.StatsHandler
}

func wireHandlers(log *logger.Logger, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Auth:      httpH.NewAuthHandler(services.Auth),
		User:      httpH.NewUserHandler(services.User),
		Catalog:   httpH.NewCatalogHandler(services.Catalog),
		Quiz:      httpH.NewQuizHandler(services.Quiz, services.Submission, metrics),
		Analytics: httpH.NewAnalyticsHandler(services.Analytics),
		Stats:     httpH.NewStatsHandler(services.Stats),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return httpx.NewRouter(httpx.RouterConfig{
		Log:     log,
		Metrics: metrics,

		AuthMiddleware: middleware.Auth,

		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		UserHandler:      handlers.User,
		CatalogHandler:   handlers.Catalog,
		QuizHandler:      handlers.Quiz,
		AnalyticsHandler: handlers.Analytics,
		StatsHandler:     handlers.Stats,
	})
}
