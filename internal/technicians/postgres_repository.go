package technicians

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores the roster in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("technicians: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// GetByID fetches a technician row.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Technician, error) {
	query := `
		SELECT id, name, status, created_at
		FROM technicians
		WHERE id = $1
	`
	var t Technician
	if err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Status, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("technicians: select failed: %w", err)
	}
	return &t, nil
}

// ActiveIDs returns bookable technician ids, oldest first so slot
// assignment stays stable across requests.
func (r *PostgresRepository) ActiveIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT id
		FROM technicians
		WHERE status = 'available'
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("technicians: list failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("technicians: scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("technicians: rows failed: %w", err)
	}
	return ids, nil
}
