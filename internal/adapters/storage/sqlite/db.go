// Package sqlite backs the repositories with a single-file database for
// single-host deployments. WAL mode keeps the HTTP path and the sweep
// workers from blocking each other.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the database and initializes the schema.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS farms (
		id                TEXT PRIMARY KEY,
		owner_name        TEXT NOT NULL,
		address           TEXT NOT NULL DEFAULT '',
		phone             TEXT NOT NULL,
		inseminator_id    TEXT,
		inseminator_name  TEXT,
		inseminator_phone TEXT,
		doctor_id         TEXT,
		doctor_name       TEXT,
		doctor_phone      TEXT,
		registered_at     TEXT NOT NULL,
		active            INTEGER NOT NULL DEFAULT 1,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cows (
		farm_id                TEXT NOT NULL REFERENCES farms(id),
		id                     TEXT NOT NULL,
		breed                  TEXT NOT NULL DEFAULT '',
		sex                    TEXT NOT NULL,
		birth_date             TEXT,
		lactation_number       INTEGER NOT NULL DEFAULT 0,
		days_in_milk           INTEGER NOT NULL DEFAULT 0,
		phase                  TEXT NOT NULL,
		pregnant               INTEGER NOT NULL DEFAULT 0,
		last_heat_at           TEXT,
		last_insemination_at   TEXT,
		pregnancy_confirmed_at TEXT,
		last_calving_at        TEXT,
		expected_calving_at    TEXT,
		insemination_attempts  INTEGER NOT NULL DEFAULT 0,
		last_bull_id           TEXT NOT NULL DEFAULT '',
		version                INTEGER NOT NULL DEFAULT 1,
		active                 INTEGER NOT NULL DEFAULT 1,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL,
		PRIMARY KEY (farm_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_cows_active ON cows(active);

	CREATE TABLE IF NOT EXISTS repro_events (
		id            TEXT PRIMARY KEY,
		farm_id       TEXT NOT NULL,
		cow_id        TEXT NOT NULL,
		type          TEXT NOT NULL,
		occurred_at   TEXT NOT NULL,
		recorded_at   TEXT NOT NULL,
		status        TEXT NOT NULL,
		reject_reason TEXT NOT NULL DEFAULT '',
		detail        TEXT NOT NULL DEFAULT 'null'
	);
	CREATE INDEX IF NOT EXISTS idx_events_cow ON repro_events(farm_id, cow_id, recorded_at);

	CREATE TABLE IF NOT EXISTS messages (
		id           TEXT PRIMARY KEY,
		farm_id      TEXT NOT NULL,
		cow_id       TEXT NOT NULL DEFAULT '',
		type         TEXT NOT NULL,
		role         TEXT NOT NULL,
		recipient    TEXT NOT NULL DEFAULT '',
		body         TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL,
		error        TEXT NOT NULL DEFAULT '',
		provider_ref TEXT NOT NULL DEFAULT '',
		resend_of    TEXT NOT NULL DEFAULT '',
		sent_at      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_farm ON messages(farm_id, sent_at);
	CREATE INDEX IF NOT EXISTS idx_messages_cow ON messages(farm_id, cow_id, type, status);
	CREATE INDEX IF NOT EXISTS idx_messages_resend ON messages(resend_of);
	`
	_, err := db.Exec(schema)
	return err
}

// Timestamps are stored as fixed-width RFC3339 UTC text: the zero-padded
// fraction keeps lexicographic order equal to chronological order, which
// the sent_at range comparisons rely on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func fmtTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
