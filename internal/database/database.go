package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/frahmantamala/savings/db"
	"github.com/frahmantamala/savings/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const migrationsTable = "schema_migrations"

// DB shares one connection pool between sqlx (health checks, migrations)
// and gorm (repositories).
type DB struct {
	SQL    *sqlx.DB
	Gorm   *gorm.DB
	Driver string
	logger *slog.Logger
}

func Open(cfg internal.DatabaseConfig, lg *slog.Logger) (*DB, error) {
	if lg == nil {
		lg = slog.Default()
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.Driver {
	case internal.DriverPostgres:
		return openPostgres(cfg, gormCfg, lg)
	case internal.DriverSQLite:
		return openSQLite(cfg, gormCfg, lg)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func openPostgres(cfg internal.DatabaseConfig, gormCfg *gorm.Config, lg *slog.Logger) (*DB, error) {
	const driver = "pgx"

	conn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn.DB}), gormCfg)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	lg.Info("database connected", "driver", cfg.Driver)
	return &DB{SQL: conn, Gorm: gormDB, Driver: cfg.Driver, logger: lg}, nil
}

func openSQLite(cfg internal.DatabaseConfig, gormCfg *gorm.Config, lg *slog.Logger) (*DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(cfg.GetDSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
	}

	// sqlite allows a single writer; in-memory databases also live and die
	// with their only connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	lg.Info("database connected", "driver", cfg.Driver, "source", cfg.GetDSN())
	return &DB{SQL: sqlx.NewDb(sqlDB, "sqlite3"), Gorm: gormDB, Driver: cfg.Driver, logger: lg}, nil
}

// MigrateOptions selects the direction and source of migrations. An empty
// Dir uses the embedded migrations for the driver.
type MigrateOptions struct {
	Rollback bool
	Dir      string
}

func (d *DB) Migrate(ctx context.Context, opts MigrateOptions) error {
	var (
		fsys fs.FS = db.Migrations
		dir        = path.Join("migrations", d.Driver)
	)
	if opts.Dir != "" {
		fsys, dir = nil, opts.Dir
	}

	goose.SetBaseFS(fsys)
	goose.SetTableName(migrationsTable)
	if err := goose.SetDialect(d.dialect()); err != nil {
		return fmt.Errorf("goose: %w", err)
	}

	if opts.Rollback {
		if err := goose.DownContext(ctx, d.SQL.DB, dir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		d.logger.Info("rolled back latest migration", "dir", dir)
		return nil
	}

	if err := goose.UpContext(ctx, d.SQL.DB, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, d.SQL.DB)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	d.logger.Info("migrations applied", "dir", dir, "version", version)
	return nil
}

func (d *DB) dialect() string {
	if d.Driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

func (d *DB) Ping(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.SQL.Close()
}
