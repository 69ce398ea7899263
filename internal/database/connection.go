package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voting-api/pkg/config"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB couples a connection pool with the SQL dialect it speaks
type DB struct {
	*sql.DB
	Dialect Dialect
}

// NewConnection creates a new database connection based on configuration
func NewConnection(cfg *config.DatabaseConfig) (*DB, error) {
	var dsn string
	var driverName string
	var dialect Dialect

	switch cfg.Type {
	case "postgres":
		driverName = "postgres"
		dialect = Postgres
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)
	case "sqlite":
		driverName = "sqlite3"
		dialect = SQLite
		dsn = sqliteDSN(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	return &DB{DB: db, Dialect: dialect}, nil
}

// sqliteDSN enables foreign keys, WAL and immediate write transactions so
// concurrent vote casts serialize on the write lock instead of failing.
func sqliteDSN(path string) string {
	params := "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// Rebind rewrites ? placeholders for the connection's dialect
func (db *DB) Rebind(query string) string {
	return db.Dialect.Rebind(query)
}

// Health pings the database with the caller's deadline
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
