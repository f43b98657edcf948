package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/pressly/goose/v3"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

// Supported values for the driver argument of Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store owns the database handle and hands out repositories.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to the database described by driver and dsn, applies the
// SQLite pragmas when relevant and brings the schema up to date.
func Open(driver, dsn string) (*Store, error) {
	var (
		sqlDriver  string
		entDialect string
		gooseDia   goose.Dialect
	)
	switch driver {
	case DriverSQLite, "":
		sqlDriver, entDialect, gooseDia = "sqlite", dialect.SQLite, goose.DialectSQLite3
	case DriverPostgres:
		sqlDriver, entDialect, gooseDia = "pgx", dialect.Postgres, goose.DialectPostgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if entDialect == dialect.SQLite {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := migrate(context.Background(), db, gooseDia, entDialect); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dialect: entDialect}, nil
}

// migrate applies the embedded migrations for the given dialect.
func migrate(ctx context.Context, db *sql.DB, d goose.Dialect, entDialect string) error {
	dir := "migrations/sqlite"
	if entDialect == dialect.Postgres {
		dir = "migrations/postgres"
	}
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("migrations dir: %w", err)
	}

	provider, err := goose.NewProvider(d, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect reports the ent dialect name ("sqlite3" or "postgres").
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionRepo returns a SessionRepo backed by this store.
func (s *Store) SessionRepo() SessionRepo {
	return &sessionRepo{db: s.db, sql: entsql.Dialect(s.dialect)}
}

// EventRepo returns an LLMEventRepo backed by this store.
func (s *Store) EventRepo() LLMEventRepo {
	return &eventRepo{db: s.db, sql: entsql.Dialect(s.dialect)}
}

// applyPragmas configures SQLite for a single-writer workload.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the SQLite database file path in priority order:
// 1. INTERVIEWACE_DB environment variable
// 2. $XDG_DATA_HOME/interviewace/interviewace.db
// 3. ~/.local/share/interviewace/interviewace.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("INTERVIEWACE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "interviewace", "interviewace.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
