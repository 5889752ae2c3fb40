// Package sqlstore is a thin statement-level gateway over a relational store.
// It exposes execute/insert/fetch primitives and leaves schema and queries to
// its callers.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrUnknownDriver is returned by Open for a driver name it does not support.
var ErrUnknownDriver = errors.New("unknown database driver")

// Options selects and configures the backing database.
type Options struct {
	Driver string // "sqlite" (default) or "postgres"
	DSN    string // file path for sqlite, connection string for postgres
	Debug  bool   // log every statement through gorm's logger
	Logger *slog.Logger
}

// Gateway runs raw statements against a gorm connection.
type Gateway struct {
	db  *gorm.DB
	log *slog.Logger
}

// Open connects to the database described by opts.
func Open(opts Options) (*Gateway, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "", DriverSQLite:
		if dir := filepath.Dir(opts.DSN); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database dir: %w", err)
			}
		}
		dialector = sqlite.Open(opts.DSN)
	case DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}

	level := logger.Silent
	if opts.Debug {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialectName(opts.Driver), err)
	}
	return New(db, opts.Logger), nil
}

// New wraps an existing gorm connection. A nil logger means slog.Default().
func New(db *gorm.DB, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{db: db, log: log}
}

// Execute runs a statement that returns no rows.
func (g *Gateway) Execute(ctx context.Context, stmt string, args ...any) error {
	if err := g.db.WithContext(ctx).Exec(stmt, args...).Error; err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}

// Insert runs stmt once per argument row inside a single transaction. Either
// every row is written or none is.
func (g *Gateway) Insert(ctx context.Context, stmt string, rows ...[]any) error {
	if len(rows) == 0 {
		return nil
	}
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, args := range rows {
			if err := tx.Exec(stmt, args...).Error; err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		g.log.Debug("insert rolled back", "rows", len(rows), "error", err)
		return fmt.Errorf("inserting rows: %w", err)
	}
	g.log.Debug("insert committed", "rows", len(rows))
	return nil
}

// FetchOne runs a query expected to return at most one row.
// Errors are deferred to Row.Scan.
func (g *Gateway) FetchOne(ctx context.Context, stmt string, args ...any) *sql.Row {
	return g.db.WithContext(ctx).Raw(stmt, args...).Row()
}

// FetchAll runs a query and returns its rows. The caller must close them.
func (g *Gateway) FetchAll(ctx context.Context, stmt string, args ...any) (*sql.Rows, error) {
	rows, err := g.db.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	return rows, nil
}

// Transaction runs fn against a gateway bound to one database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (g *Gateway) Transaction(ctx context.Context, fn func(tx *Gateway) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gateway{db: tx, log: g.log})
	})
}

// Close releases the underlying connection pool.
func (g *Gateway) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return fmt.Errorf("getting connection pool: %w", err)
	}
	return sqlDB.Close()
}

func dialectName(driver string) string {
	if driver == "" {
		return DriverSQLite
	}
	return driver
}
