package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/frahmantamala/savings/internal"
	"github.com/frahmantamala/savings/internal/core/events"
	"github.com/frahmantamala/savings/internal/dashboard"
	"github.com/frahmantamala/savings/internal/database"
	"github.com/frahmantamala/savings/internal/moneyflow"
	moneyflowPostgres "github.com/frahmantamala/savings/internal/moneyflow/postgres"
	"github.com/frahmantamala/savings/internal/notify"
	"github.com/frahmantamala/savings/pkg/logger"
)

// Dependencies is the wired application shared by every command.
type Dependencies struct {
	Config    *internal.Config
	Logger    *slog.Logger
	DB        *database.DB
	Bus       *events.EventBus
	Ledger    *moneyflow.Service
	Dashboard *dashboard.Service
	Notifier  *notify.Publisher
}

type initOptions struct {
	// logOutput defaults to stdout; data-writing commands log to stderr.
	logOutput io.Writer
	migrate   bool
	notify    bool
}

func initializeDependencies(ctx context.Context, opts initOptions) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	out := opts.logOutput
	if out == nil {
		out = os.Stdout
	}
	logger.InitWithWriter(out, config.Environment, config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := database.Open(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if opts.migrate && config.Database.AutoMigrate {
		if err := db.Migrate(ctx, database.MigrateOptions{}); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	ratioBase, err := dashboard.ParseRatioBase(config.Dashboard.RatioBase)
	if err != nil {
		db.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	ledger := moneyflow.NewService(moneyflowPostgres.NewMoneyFlowRepository(db.Gorm), bus, lg)
	dash := dashboard.NewService(ledger, ratioBase, lg)
	dash.RegisterEventHandlers(bus)

	deps := &Dependencies{
		Config:    config,
		Logger:    lg,
		DB:        db,
		Bus:       bus,
		Ledger:    ledger,
		Dashboard: dash,
	}

	if opts.notify && config.Broker.Enabled() {
		notifier, err := notify.Dial(config.Broker.URL, config.Broker.Exchange, lg)
		if err != nil {
			// the ledger keeps working without the broker
			lg.Error("ledger notifier disabled", "error", err)
		} else {
			// broker round trips stay off the ledger mutation path
			outbox := events.NewEventBus(lg)
			notifier.RegisterEventHandlers(outbox)
			bus.Forward(outbox, events.LedgerEventTypes...)
			deps.Notifier = notifier
		}
	}

	return deps, nil
}

func (d *Dependencies) Close() {
	if d.Notifier != nil {
		if err := d.Notifier.Close(); err != nil {
			d.Logger.Error("notifier close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}
