package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/team-roster/internal/config"
	"github.com/riskibarqy/team-roster/internal/domain/event"
	"github.com/riskibarqy/team-roster/internal/domain/player"
	"github.com/riskibarqy/team-roster/internal/domain/selection"
	cacherepo "github.com/riskibarqy/team-roster/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/team-roster/internal/infrastructure/repository/guarded"
	"github.com/riskibarqy/team-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/team-roster/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/team-roster/internal/interfaces/httpapi"
	"github.com/riskibarqy/team-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/team-roster/internal/platform/id"
	"github.com/riskibarqy/team-roster/internal/platform/logging"
	"github.com/riskibarqy/team-roster/internal/platform/metrics"
	"github.com/riskibarqy/team-roster/internal/platform/resilience"
	"github.com/riskibarqy/team-roster/internal/usecase"
)

// App is the assembled HTTP service and the resources it owns.
type App struct {
	Server *http.Server

	db *sqlx.DB
}

type repositories struct {
	players player.Repository
	events  event.Repository
	db      *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.NewRecorder()
	}

	repos, err := buildRepositories(ctx, cfg, logger, recorder)
	if err != nil {
		return nil, err
	}

	playerSvc := usecase.NewPlayerService(repos.players)
	eventSvc := usecase.NewEventService(repos.events)
	selectionSvc := usecase.NewSelectionService(
		repos.events,
		repos.players,
		NewEngine(cfg),
		idgen.NewUUIDGenerator(),
		selectionRecorder(recorder),
		logger,
		cfg.SelectionBatchMaxWorkers,
	)

	routerCfg := httpapi.RouterConfig{CORSAllowedOrigins: cfg.CORSAllowedOrigins}
	if recorder != nil {
		routerCfg.MetricsHandler = recorder.Handler()
		routerCfg.Recorder = recorder
	}

	handler := httpapi.NewHandler(playerSvc, eventSvc, selectionSvc, logger)
	router := httpapi.NewRouter(handler, logger, routerCfg)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app assembled",
		"storage", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"metrics_enabled", cfg.MetricsEnabled,
		"batch_max_workers", cfg.SelectionBatchMaxWorkers,
	)

	return &App{Server: server, db: repos.db}, nil
}

// NewEngine builds the selection engine from configured bands and seed.
func NewEngine(cfg config.Config) *selection.Engine {
	opts := []selection.Option{selection.WithLevelBands(cfg.SelectionLevelBands)}
	if cfg.SelectionRandomSeed != 0 {
		opts = append(opts, selection.WithSeed(cfg.SelectionRandomSeed))
	}
	return selection.NewEngine(opts...)
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger, recorder *metrics.Recorder) (repositories, error) {
	var repos repositories

	switch cfg.StorageDriver {
	case config.StorageMemory, "":
		repos.players = memory.NewPlayerRepository(memory.SeedPlayers())
		repos.events = memory.NewEventRepository(memory.SeedEvents())
	case config.StoragePostgres:
		db, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			return repositories{}, err
		}
		repos.db = db
		repos.players = postgres.NewPlayerRepository(db)
		repos.events = postgres.NewEventRepository(db)

		if cfg.DBBreaker.Enabled {
			breaker := resilience.NewBreaker("postgres", cfg.DBBreaker,
				resilience.WithStateListener(func(name string, from, to resilience.State) {
					logger.Warn("circuit breaker state changed", "name", name, "from", from, "to", to)
					recorder.ObserveBreakerState(name, string(to))
				}),
			)
			repos.players = guarded.NewPlayerRepository(repos.players, breaker)
			repos.events = guarded.NewEventRepository(repos.events, breaker)
		}
	default:
		return repositories{}, errors.New("unsupported storage driver: " + cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		repos.players = cacherepo.NewPlayerRepository(repos.players, cache.NewStore(cfg.CacheTTL))
	}

	return repos, nil
}

func selectionRecorder(recorder *metrics.Recorder) usecase.SelectionRecorder {
	if recorder == nil {
		return nil
	}
	return recorder
}
