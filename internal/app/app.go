package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coachprep/coachprep-backend/internal/data/db"
	"github.com/coachprep/coachprep-backend/internal/observability"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	clients      Clients
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "coachprep",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients := wireClients(log)
	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, metrics)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, metrics)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		pg:           pg,
		clients:      clients,
		otelShutdown: otelShutdown,
	}, nil
}

// Seed ensures the achievement catalog and, when SEED_ON_EMPTY is set,
// applies the embedded starter catalog to an empty topic table.
func (a *App) Seed(ctx context.Context) error {
	if err := a.Services.Seed.EnsureAchievements(ctx); err != nil {
		return fmt.Errorf("ensure achievements: %w", err)
	}
	if !a.Cfg.SeedOnEmpty {
		return nil
	}
	applied, err := a.Services.Seed.ApplyStarterCatalog(ctx)
	if err != nil {
		return fmt.Errorf("apply starter catalog: %w", err)
	}
	if applied {
		a.Log.Info("starter catalog seeded")
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("postgres close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
