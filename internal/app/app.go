package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/webzeppelin/angry-birdman-sub003/internal/config"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battle"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/playerstats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/setting"
	cacherepo "github.com/webzeppelin/angry-birdman-sub003/internal/infrastructure/repository/cache"
	"github.com/webzeppelin/angry-birdman-sub003/internal/infrastructure/repository/memory"
	"github.com/webzeppelin/angry-birdman-sub003/internal/infrastructure/repository/postgres"
	"github.com/webzeppelin/angry-birdman-sub003/internal/interfaces/httpapi"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/cache"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
	"github.com/webzeppelin/angry-birdman-sub003/internal/scheduler"
	"github.com/webzeppelin/angry-birdman-sub003/internal/usecase"
)

// App bundles the HTTP server, the optional in-process schedule runner, and
// the resources they own.
type App struct {
	Server *http.Server
	Runner *scheduler.Runner

	db *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db          *sqlx.DB
		battleRepo  battle.Repository
		settingRepo setting.Repository
		recordRepo  battlestats.Repository
		playerRepo  playerstats.Repository
	)

	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		opened, err := openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = opened
		battleRepo = postgres.NewBattleRepository(db)
		settingRepo = postgres.NewSettingRepository(db)
		recordRepo = postgres.NewBattleRecordRepository(db)
		playerRepo = postgres.NewPlayerRecordRepository(db)
	case config.StorageDriverMemory:
		battleRepo = memory.NewBattleRepository()
		settingRepo = memory.NewSettingRepository()
		recordRepo = memory.NewBattleRecordRepository()
		playerRepo = memory.NewPlayerRecordRepository()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
		battleRepo = cacherepo.NewBattleRepository(battleRepo, store)
	}

	scheduleSvc := usecase.NewScheduleService(battleRepo, settingRepo, logger)
	statsSvc := usecase.NewStatsService(battleRepo, recordRepo, playerRepo, logger)
	trendSvc := usecase.NewTrendService(recordRepo, store, logger)
	recalcSvc := usecase.NewRecalcService(recordRepo, playerRepo, logger)

	handler := httpapi.NewHandler(scheduleSvc, statsSvc, trendSvc, recalcSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var runner *scheduler.Runner
	if cfg.SchedulerRunnerEnabled {
		runner = scheduler.NewRunner(scheduleSvc.Tick, cfg.TickInterval, logger)
	}

	return &App{
		Server: server,
		Runner: runner,
		db:     db,
	}, nil
}

// Close releases resources owned by the app. The HTTP server is shut down
// separately by the caller.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}
