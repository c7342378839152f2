package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

// ReservationsForDate returns every reservation row on a date, cancelled
// rows included: the engine filters status and hold expiry itself so the
// snapshot stays a plain read.
func (db *DB) ReservationsForDate(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, start_hour, duration_hours, lane_count, people_count,
		       status, payment_status, pay_on_site, has_table_reservation,
		       table_seat_count, client_name, client_phone, price_cents,
		       created_at, updated_at
		FROM reservations
		WHERE date = ?
		ORDER BY start_hour`,
		date.Format(model.DateKey),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, rows.Err()
}

// GetReservation returns a reservation by id.
func (db *DB) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, date, start_hour, duration_hours, lane_count, people_count,
		       status, payment_status, pay_on_site, has_table_reservation,
		       table_seat_count, client_name, client_phone, price_cents,
		       created_at, updated_at
		FROM reservations
		WHERE id = ?`,
		id,
	)
	return scanReservation(row)
}

// CreateReservations inserts all blocks of one submission in a single
// transaction so a mid-write failure cannot leave a partial submission.
// The capacity check ran against an earlier snapshot outside this tx; a
// concurrent writer may have booked the same hours in between.
func (db *DB) CreateReservations(ctx context.Context, reservations []model.Reservation) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i := range reservations {
		r := &reservations[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reservations (
				id, date, start_hour, duration_hours, lane_count, people_count,
				status, payment_status, pay_on_site, has_table_reservation,
				table_seat_count, client_name, client_phone, price_cents,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Date.Format(model.DateKey), r.StartHour, r.DurationHours,
			r.LaneCount, r.PeopleCount, r.Status, r.PaymentStatus, r.PayOnSite,
			r.HasTableReservation, r.TableSeatCount, r.ClientName, r.ClientPhone,
			r.PriceCents, r.CreatedAt, r.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert reservation %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// UpdateReservation rewrites the mutable fields of an existing row.
func (db *DB) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	res, err := db.ExecContext(ctx, `
		UPDATE reservations SET
			date = ?, start_hour = ?, duration_hours = ?, lane_count = ?,
			people_count = ?, status = ?, payment_status = ?, pay_on_site = ?,
			has_table_reservation = ?, table_seat_count = ?, client_name = ?,
			client_phone = ?, price_cents = ?, updated_at = ?
		WHERE id = ?`,
		r.Date.Format(model.DateKey), r.StartHour, r.DurationHours, r.LaneCount,
		r.PeopleCount, r.Status, r.PaymentStatus, r.PayOnSite,
		r.HasTableReservation, r.TableSeatCount, r.ClientName, r.ClientPhone,
		r.PriceCents, time.Now(), r.ID,
	)
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

// UpdateReservationStatus transitions a reservation's status. Cancellation
// is the terminal soft delete; rows are never hard-deleted.
func (db *DB) UpdateReservationStatus(ctx context.Context, id, status string) error {
	res, err := db.ExecContext(ctx,
		"UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), id,
	)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var r model.Reservation
	var dateStr string
	var phone sql.NullString
	err := row.Scan(
		&r.ID, &dateStr, &r.StartHour, &r.DurationHours, &r.LaneCount,
		&r.PeopleCount, &r.Status, &r.PaymentStatus, &r.PayOnSite,
		&r.HasTableReservation, &r.TableSeatCount, &r.ClientName, &phone,
		&r.PriceCents, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Date, err = time.ParseInLocation(model.DateKey, dateStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse reservation date %q: %w", dateStr, err)
	}
	if phone.Valid {
		r.ClientPhone = phone.String
	}
	return &r, nil
}
