package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for the booking server.
type DB struct {
	*sql.DB
}

// NewDB opens the database at path and runs migrations.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Establishment settings (single row, id always 1)
		`CREATE TABLE IF NOT EXISTS establishment (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			active_lanes INTEGER NOT NULL DEFAULT 6,
			weekday_price_cents INTEGER NOT NULL DEFAULT 0,
			weekend_price_cents INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Weekly business hours, weekday 0 = Sunday
		`CREATE TABLE IF NOT EXISTS business_hours (
			weekday INTEGER PRIMARY KEY CHECK (weekday BETWEEN 0 AND 6),
			is_open BOOLEAN NOT NULL DEFAULT 0,
			open_hour INTEGER NOT NULL DEFAULT 0,
			close_hour INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Explicit full-day closures overriding the weekly schedule
		`CREATE TABLE IF NOT EXISTS blocked_dates (
			date TEXT PRIMARY KEY,
			reason TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Reservations; one row per contiguous block
		`CREATE TABLE IF NOT EXISTS reservations (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			start_hour INTEGER NOT NULL,
			duration_hours INTEGER NOT NULL,
			lane_count INTEGER NOT NULL,
			people_count INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pendente',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			pay_on_site BOOLEAN NOT NULL DEFAULT 0,
			has_table_reservation BOOLEAN NOT NULL DEFAULT 0,
			table_seat_count INTEGER NOT NULL DEFAULT 0,
			client_name TEXT NOT NULL,
			client_phone TEXT,
			price_cents INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_date_hour ON reservations(date, start_hour)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
