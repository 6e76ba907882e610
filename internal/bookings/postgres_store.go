package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/homepros/booking-platform/internal/scheduling"
)

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists bookings in Postgres. Conflict checking and the
// insert run in one transaction: a transaction-scoped advisory lock
// keyed by technician id serializes concurrent attempts for the same
// technician, and the window is re-read inside the transaction, so two
// near-simultaneous requests cannot both commit overlapping bookings.
type PostgresStore struct {
	db DB
}

// NewPostgresStore initializes a store backed by pgx.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresStore{db: db}
}

const selectBookingQuery = `
	SELECT id, technician_id, service_type, customer_name, customer_email, customer_phone,
	       start_time, end_time, status, confirmation_code, created_at, updated_at
	FROM bookings
	WHERE id = $1
`

const listWindowQuery = `
	SELECT id, technician_id, service_type, customer_name, customer_email, customer_phone,
	       start_time, end_time, status, confirmation_code, created_at, updated_at
	FROM bookings
	WHERE technician_id = $1
	  AND status <> 'cancelled'
	  AND start_time < $3
	  AND end_time > $2
	ORDER BY start_time
`

const advisoryLockQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`

const insertBookingQuery = `
	INSERT INTO bookings (id, technician_id, service_type, customer_name, customer_email,
	                      customer_phone, start_time, end_time, status, confirmation_code)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
`

// GetByID fetches a booking row.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Booking, error) {
	row := s.db.QueryRow(ctx, selectBookingQuery, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return b, nil
}

// ListForTechnician returns non-cancelled bookings intersecting [from, to).
func (s *PostgresStore) ListForTechnician(ctx context.Context, technicianID string, from, to time.Time) ([]*Booking, error) {
	rows, err := s.db.Query(ctx, listWindowQuery, technicianID, from, to)
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()
	return collectBookings(rows)
}

// CreateChecked inserts the booking after re-checking the technician's
// guarded window inside the transaction.
func (s *PostgresStore) CreateChecked(ctx context.Context, b *Booking) (*Booking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("bookings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.checkWindowInTx(ctx, tx, b.TechnicianID, b, ""); err != nil {
		return nil, err
	}

	clone := *b
	row := tx.QueryRow(ctx, insertBookingQuery,
		clone.ID,
		clone.TechnicianID,
		clone.ServiceType,
		clone.CustomerName,
		clone.CustomerEmail,
		clone.CustomerPhone,
		clone.StartTime,
		clone.EndTime,
		clone.Status,
		clone.ConfirmationCode,
	)
	if err := row.Scan(&clone.CreatedAt, &clone.UpdatedAt); err != nil {
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("bookings: commit failed: %w", err)
	}
	return &clone, nil
}

// RescheduleChecked moves a booking under the same transactional guard,
// excluding its own row from the conflict test.
func (s *PostgresStore) RescheduleChecked(ctx context.Context, id string, newStart, newEnd time.Time) (*Booking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("bookings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, selectBookingQuery+" FOR UPDATE", id)
	current, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select for update failed: %w", err)
	}
	if current.Status == StatusCancelled {
		return nil, ErrBookingCancelled
	}

	moved := *current
	moved.StartTime = newStart
	moved.EndTime = newEnd
	if err := s.checkWindowInTx(ctx, tx, current.TechnicianID, &moved, id); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE bookings
		SET start_time = $2, end_time = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := tx.QueryRow(ctx, updateQuery, id, newStart, newEnd).Scan(&moved.UpdatedAt); err != nil {
		return nil, fmt.Errorf("bookings: reschedule update failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("bookings: commit failed: %w", err)
	}
	return &moved, nil
}

// UpdateStatus transitions a booking's lifecycle status.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, technician_id, service_type, customer_name, customer_email, customer_phone,
		          start_time, end_time, status, confirmation_code, created_at, updated_at
	`
	b, err := scanBooking(s.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: status update failed: %w", err)
	}
	return b, nil
}

// checkWindowInTx takes the per-technician advisory lock, re-reads the
// guarded window from within the transaction, and runs the same
// buffer+overlap test the availability engine uses.
func (s *PostgresStore) checkWindowInTx(ctx context.Context, tx pgx.Tx, technicianID string, b *Booking, excludeID string) error {
	if _, err := tx.Exec(ctx, advisoryLockQuery, technicianID); err != nil {
		return fmt.Errorf("bookings: advisory lock: %w", err)
	}

	buf := scheduling.BufferFor(b.ServiceType)
	guardStart := b.StartTime.Add(-buf.Before)
	guardEnd := b.EndTime.Add(buf.After)

	rows, err := tx.Query(ctx, listWindowQuery, technicianID, guardStart, guardEnd)
	if err != nil {
		return fmt.Errorf("bookings: conflict re-read: %w", err)
	}
	defer rows.Close()
	existing, err := collectBookings(rows)
	if err != nil {
		return err
	}

	events := make([]scheduling.Event, 0, len(existing))
	for _, e := range existing {
		if e.ID == excludeID {
			continue
		}
		events = append(events, e.Event())
	}
	if ev, conflict := scheduling.FindConflict(events, technicianID, b.StartTime, b.EndTime, buf); conflict {
		return &ConflictError{
			TechnicianID: technicianID,
			Start:        b.StartTime,
			End:          b.EndTime,
			Reason: fmt.Sprintf("overlaps booking %s (%s-%s)",
				ev.ID, ev.Start.Format("15:04"), ev.End.Format("15:04")),
		}
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID,
		&b.TechnicianID,
		&b.ServiceType,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.ConfirmationCode,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]*Booking, error) {
	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("bookings: scan failed: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bookings: rows failed: %w", err)
	}
	return out, nil
}
