package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fundtires/ledger_backend/internal/adapters/database/memory"
	"github.com/fundtires/ledger_backend/internal/adapters/database/pgsql"
	portsrepo "github.com/fundtires/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/fundtires/ledger_backend/internal/core/ports/services"
	"github.com/fundtires/ledger_backend/internal/core/services"
	"github.com/fundtires/ledger_backend/internal/handlers"
	"github.com/fundtires/ledger_backend/internal/middleware"
	"github.com/fundtires/ledger_backend/internal/utils/locking"
	"github.com/fundtires/ledger_backend/pkg/config"
	"github.com/fundtires/ledger_backend/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo, cleanup, err := buildStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.MetricsMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:  cfg.CORSAllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT value", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	container := buildServices(repo, cfg, logger)
	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildStore selects the persistence backend. The in-memory store is for
// local development and tests; PostgreSQL is the production path and runs
// migrations on startup.
func buildStore(cfg *config.Config, logger *slog.Logger) (portsrepo.LedgerRepository, func(), error) {
	if cfg.UseInMemoryStore {
		logger.Info("Using in-memory store")
		return memory.NewStore(), func() {}, nil
	}

	pool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pgsql.NewPgxLedgerRepository(pool), pool.Close, nil
}

// runMigrations applies all pending up migrations against the database.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildServices wires the concrete services behind the container interfaces.
func buildServices(repo portsrepo.LedgerRepository, cfg *config.Config, logger *slog.Logger) *portssvc.ServiceContainer {
	locks := locking.NewKeyedLock()
	return &portssvc.ServiceContainer{
		Account:      services.NewAccountService(repo, locks, cfg.LockTimeout, logger),
		Campaign:     services.NewCampaignService(repo, locks, cfg.LockTimeout, logger),
		Contribution: services.NewContributionService(repo, locks, cfg.LockTimeout, logger),
		Ranking:      services.NewRankingService(repo),
		Burn:         services.NewBurnStatsService(repo),
	}
}
