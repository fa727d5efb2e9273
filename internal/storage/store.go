// Package storage persists finished Deploy or Die sessions for the
// leaderboard. A local SQLite file (pure-Go modernc.org/sqlite, no CGO) is
// the default; a mysql:// DSN points a shared server at a MySQL database.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// mysqlScheme marks a DSN that selects the MySQL backend.
const mysqlScheme = "mysql://"

type dialect int

const (
	dialectSQLite dialect = iota
	dialectMySQL
)

// Store manages the database connection for result persistence.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open opens the result store named by dsn. A dsn starting with mysql://
// is a go-sql-driver DSN (user:pass@tcp(host:3306)/dbname); anything else
// is a SQLite file path, created with its parent directories if needed.
// Migrations run on open.
func Open(dsn string) (*Store, error) {
	if rest, ok := strings.CutPrefix(dsn, mysqlScheme); ok {
		return openMySQL(rest)
	}
	return openSQLite(dsn)
}

func openSQLite(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	return finishOpen(db, dialectSQLite)
}

func openMySQL(dsn string) (*Store, error) {
	cfg, err := mysqlConfig(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	return finishOpen(db, dialectMySQL)
}

// mysqlConfig parses a go-sql-driver DSN and forces the options the
// store relies on.
func mysqlConfig(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: bad mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("storage: mysql dsn has no database name")
	}
	cfg.AllowNativePasswords = true
	cfg.ParseTime = true
	return cfg, nil
}

func finishOpen(db *sql.DB, d dialect) (*Store, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: d}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the schema if it doesn't exist. Statements run one at a
// time; the MySQL driver rejects multi-statement Exec by default.
func (s *Store) migrate() error {
	schema := sqliteSchema
	if s.dialect == dialectMySQL {
		schema = mysqlSchema
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL UNIQUE,
		variant TEXT NOT NULL,
		player TEXT NOT NULL DEFAULT '',
		score INTEGER NOT NULL,
		success INTEGER NOT NULL DEFAULT 0,
		completed_cycles INTEGER NOT NULL DEFAULT 0,
		mistakes INTEGER NOT NULL DEFAULT 0,
		max_combo REAL NOT NULL DEFAULT 1,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		seed TEXT NOT NULL,
		played_at INTEGER NOT NULL,
		client_version TEXT NOT NULL,
		checksum TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_results_top ON results(variant, score DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_results_player ON results(player, played_at DESC)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS results (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		session_id VARCHAR(64) NOT NULL UNIQUE,
		variant VARCHAR(64) NOT NULL,
		player VARCHAR(128) NOT NULL DEFAULT '',
		score INT NOT NULL,
		success BOOLEAN NOT NULL DEFAULT FALSE,
		completed_cycles INT NOT NULL DEFAULT 0,
		mistakes INT NOT NULL DEFAULT 0,
		max_combo DOUBLE NOT NULL DEFAULT 1,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		seed VARCHAR(16) NOT NULL,
		played_at BIGINT NOT NULL,
		client_version VARCHAR(32) NOT NULL,
		checksum VARCHAR(16) NOT NULL,
		INDEX idx_results_top (variant, score DESC),
		INDEX idx_results_player (player, played_at DESC)
	)`,
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
