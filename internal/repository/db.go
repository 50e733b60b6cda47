package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// NewDB opens a connection pool for the given driver and DSN.
func NewDB(driver, dsn string) (*sql.DB, error) {
	if driver != DriverMySQL && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if driver == DriverMySQL {
		var err error
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// A single connection keeps in-memory databases and per-connection
		// pragmas alive for the lifetime of the pool.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling sqlite foreign keys: %w", err)
		}
		return db, nil
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed, continuing", "error", err)
	}

	return db, nil
}

// mysqlDSN makes MySQL report matched rather than changed rows, so an UPDATE
// that leaves a row as it was still counts as having found it.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

var schema = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id         BIGINT AUTO_INCREMENT PRIMARY KEY,
			email      VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci NOT NULL UNIQUE,
			name       VARCHAR(255) NOT NULL,
			password   VARCHAR(255) NOT NULL,
			created_at DATETIME(6)  NOT NULL,
			updated_at DATETIME(6)  NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profile_feed_items (
			id              BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_profile_id BIGINT       NOT NULL,
			status_text     VARCHAR(255) NOT NULL,
			created_on      DATETIME(6)  NOT NULL,
			CONSTRAINT fk_feed_profile FOREIGN KEY (user_profile_id)
				REFERENCES user_profiles (id) ON DELETE CASCADE
		)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email      TEXT     NOT NULL UNIQUE COLLATE NOCASE,
			name       TEXT     NOT NULL,
			password   TEXT     NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profile_feed_items (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_profile_id INTEGER  NOT NULL REFERENCES user_profiles (id) ON DELETE CASCADE,
			status_text     TEXT     NOT NULL,
			created_on      DATETIME NOT NULL
		)`,
	},
}

// Migrate creates the profile and feed tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, ok := schema[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// isDuplicateEntryError matches unique violations from MySQL (1062) and SQLite.
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// likePattern builds a case-insensitive substring pattern escaped with '!'.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
}

// dbTime scans DATETIME columns from either driver, whether they arrive
// as time.Time or as text.
type dbTime struct {
	t *time.Time
}

func (d dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d.t = v.UTC()
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (d dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised time format %q", s)
}

// now returns the timestamp stored for server-assigned columns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
