package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Options selects the backend. Driver is only consulted for postgres,
// where both lib/pq ("postgres") and pgx ("pgx") are registered.
type Options struct {
	Dialect Dialect
	Driver  string
	DSN     string
}

func Connect(ctx context.Context, opts Options, logger *logrus.Logger) (*sql.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}

	driver, dsn := opts.Driver, opts.DSN
	switch opts.Dialect {
	case DialectPostgres:
		if driver == "" {
			driver = "postgres"
		}
		if driver != "postgres" && driver != "pgx" {
			return nil, fmt.Errorf("unsupported postgres driver %q", driver)
		}
	case DialectSQLite:
		driver = "sqlite3"
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", opts.Dialect)
	}

	logger.Infof("Connecting to %s database (driver %s)...", opts.Dialect, driver)
	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if opts.Dialect == DialectSQLite {
		// one process-wide handle; also keeps :memory: databases alive
		database.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully.")
	return database, nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		path = "file::memory:"
	} else if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
