// Package database wraps sqlx with the connection, transaction and migration
// plumbing the repositories sit on.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
)

// DB is the subset of sqlx the repositories depend on, mockable in tests.
type DB interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Close() error
	DriverName() string
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	Rebind(query string) string
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	Stats() sql.DBStats
	Unsafe() *sqlx.DB
}

type DatabaseInstance struct {
	*sqlx.DB
	logger ectologger.Logger
}

func NewDatabaseInstance(db *sqlx.DB, logger ectologger.Logger) DB {
	return &DatabaseInstance{
		DB:     db,
		logger: logger,
	}
}

// ConnectConfig holds Postgres connection settings.
type ConnectConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the connection string.
func (c ConnectConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Connect opens and pings a database connection with pooling configured.
func Connect(ctx context.Context, cfg ConnectConfig, logger ectologger.Logger) (DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "postgres"
	}

	db, err := sqlx.ConnectContext(ctx, driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Name, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	logger.Infof("Connected to database %s at %s:%d", cfg.Name, cfg.Host, cfg.Port)
	return NewDatabaseInstance(db, logger), nil
}
