package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

// DefaultSettings seeds a fresh database: six lanes, evenings until
// midnight every day.
var DefaultSettings = model.Settings{
	ActiveLanes:       6,
	WeekdayPriceCents: 8000,
	WeekendPriceCents: 10000,
	Hours: [7]model.DayHours{
		{Open: true, Start: 18, End: 0},
		{Open: true, Start: 18, End: 0},
		{Open: true, Start: 18, End: 0},
		{Open: true, Start: 18, End: 0},
		{Open: true, Start: 18, End: 0},
		{Open: true, Start: 18, End: 0},
		{Open: true, Start: 18, End: 0},
	},
}

// EnsureSettings seeds the establishment row and the weekly schedule when
// the database is empty.
func (db *DB) EnsureSettings(ctx context.Context) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM establishment").Scan(&count); err != nil {
		return fmt.Errorf("check establishment: %w", err)
	}
	if count == 0 {
		_, err := db.ExecContext(ctx,
			"INSERT INTO establishment (id, active_lanes, weekday_price_cents, weekend_price_cents) VALUES (1, ?, ?, ?)",
			DefaultSettings.ActiveLanes, DefaultSettings.WeekdayPriceCents, DefaultSettings.WeekendPriceCents,
		)
		if err != nil {
			return fmt.Errorf("seed establishment: %w", err)
		}
	}

	for weekday, d := range DefaultSettings.Hours {
		_, err := db.ExecContext(ctx, `
			INSERT INTO business_hours (weekday, is_open, open_hour, close_hour)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(weekday) DO NOTHING`,
			weekday, d.Open, d.Start, d.End,
		)
		if err != nil {
			return fmt.Errorf("seed business hours for weekday %d: %w", weekday, err)
		}
	}
	return nil
}

// LoadSettings assembles the establishment settings, weekly schedule and
// blocked dates into one snapshot.
func (db *DB) LoadSettings(ctx context.Context) (*model.Settings, error) {
	var s model.Settings
	err := db.QueryRowContext(ctx,
		"SELECT active_lanes, weekday_price_cents, weekend_price_cents FROM establishment WHERE id = 1",
	).Scan(&s.ActiveLanes, &s.WeekdayPriceCents, &s.WeekendPriceCents)
	if err != nil {
		return nil, fmt.Errorf("load establishment: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT weekday, is_open, open_hour, close_hour FROM business_hours")
	if err != nil {
		return nil, fmt.Errorf("load business hours: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var weekday int
		var d model.DayHours
		if err := rows.Scan(&weekday, &d.Open, &d.Start, &d.End); err != nil {
			return nil, err
		}
		if weekday >= 0 && weekday < 7 {
			s.Hours[weekday] = d
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	blocked, err := db.QueryContext(ctx, "SELECT date FROM blocked_dates")
	if err != nil {
		return nil, fmt.Errorf("load blocked dates: %w", err)
	}
	defer blocked.Close()
	s.BlockedDates = make(map[string]struct{})
	for blocked.Next() {
		var d string
		if err := blocked.Scan(&d); err != nil {
			return nil, err
		}
		s.BlockedDates[d] = struct{}{}
	}
	return &s, blocked.Err()
}

// UpdateBusinessHours replaces the schedule of one weekday (0 = Sunday).
func (db *DB) UpdateBusinessHours(ctx context.Context, weekday int, d model.DayHours) error {
	if weekday < 0 || weekday > 6 {
		return fmt.Errorf("weekday out of range: %d", weekday)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO business_hours (weekday, is_open, open_hour, close_hour, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(weekday) DO UPDATE SET
			is_open = excluded.is_open,
			open_hour = excluded.open_hour,
			close_hour = excluded.close_hour,
			updated_at = excluded.updated_at`,
		weekday, d.Open, d.Start, d.End, time.Now(),
	)
	return err
}

// BlockDate marks a date as a full-day closure.
func (db *DB) BlockDate(ctx context.Context, date time.Time, reason string) error {
	_, err := db.ExecContext(ctx,
		"INSERT INTO blocked_dates (date, reason) VALUES (?, ?) ON CONFLICT(date) DO UPDATE SET reason = excluded.reason",
		date.Format(model.DateKey), reason,
	)
	return err
}

// UnblockDate removes a full-day closure.
func (db *DB) UnblockDate(ctx context.Context, date time.Time) error {
	res, err := db.ExecContext(ctx, "DELETE FROM blocked_dates WHERE date = ?", date.Format(model.DateKey))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
