package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/catalog"
	"github.com/oilslickpad/storeops/internal/classify"
	"github.com/oilslickpad/storeops/internal/config"
	"github.com/oilslickpad/storeops/internal/domain"
	"github.com/oilslickpad/storeops/internal/report"
	"github.com/oilslickpad/storeops/internal/repository"
	"github.com/oilslickpad/storeops/internal/repository/memory"
	"github.com/oilslickpad/storeops/internal/repository/postgres"
	"github.com/oilslickpad/storeops/internal/shopify"
	"github.com/oilslickpad/storeops/internal/woocommerce"
)

// ErrCriticalIssues makes a tool exit 1 after a completed run
var ErrCriticalIssues = errors.New("unresolved CRITICAL issues remain")

// App is everything a tool needs, built once per process
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Catalog    *catalog.Catalog
	Classifier *classify.Classifier
	Shopify    *shopify.Client
	Repos      *repository.Repositories

	db *sql.DB
}

// NewLogger builds the zap logger for the configured environment and level
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zcfg.Level = level
	return zcfg.Build()
}

// Bootstrap loads configuration and wires clients and repositories. Without
// DB_HOST the audit log is kept in memory for the life of the process.
func Bootstrap(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	classifier, err := classify.New(cat.Taxonomy, classify.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	app := &App{
		Config:     cfg,
		Logger:     logger,
		Catalog:    cat,
		Classifier: classifier,
		Shopify:    shopify.NewClient(cfg.Shopify, logger),
	}

	if cfg.Database.Enabled() {
		db, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.db = db
		app.Repos = postgres.NewRepositories(db, logger)
	} else {
		logger.Debug("DB_HOST not set, keeping the audit log in memory")
		app.Repos = memory.NewRepositories()
	}

	return app, nil
}

// WooCommerce returns the source store client, or an error when it is not configured
func (a *App) WooCommerce() (*woocommerce.Client, error) {
	if !a.Config.WooCommerce.Configured() {
		return nil, fmt.Errorf("WOO_BASE_URL, WOO_CONSUMER_KEY and WOO_CONSUMER_SECRET are required")
	}
	return woocommerce.NewClient(a.Config.WooCommerce, a.Logger), nil
}

// Close releases the database connection and flushes the logger
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	_ = a.Logger.Sync()
}

// StartRun records the start of a tool run. Failing to record it never stops the run.
func (a *App) StartRun(ctx context.Context, tool string, opts Options) uuid.UUID {
	run := &domain.Run{ID: uuid.New(), Tool: tool, DryRun: !opts.Writes(), StartedAt: time.Now()}
	if err := a.Repos.Run.Start(ctx, run); err != nil {
		a.Logger.Warn("Failed to record tool run", zap.String("tool", tool), zap.Error(err))
	}
	return run.ID
}

// FinishRun stores the summary counts of a run
func (a *App) FinishRun(ctx context.Context, id uuid.UUID, summary map[string]interface{}) {
	if err := a.Repos.Run.Finish(ctx, id, summary); err != nil {
		a.Logger.Warn("Failed to finish tool run", zap.String("run_id", id.String()), zap.Error(err))
	}
}

// FailRun closes a run that aborted, so it is not mistaken for one still in progress.
// It still records after ctx was cancelled by a signal.
func (a *App) FailRun(ctx context.Context, id uuid.UUID, runErr error) {
	a.FinishRun(context.WithoutCancel(ctx), id, map[string]interface{}{
		"status": "failed",
		"error":  runErr.Error(),
	})
}

// WriteReport writes v to REPORT_DIR and returns the file path
func (a *App) WriteReport(name string, v interface{}) (string, error) {
	return report.WriteJSON(a.Config.ReportDir, name, v, time.Now())
}
