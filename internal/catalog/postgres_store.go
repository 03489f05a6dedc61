package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists service menus in the relational database.
type PostgresStore struct {
	db pgxDB
}

// NewPostgresStore initializes a store backed by pgx.
func NewPostgresStore(db pgxDB) *PostgresStore {
	if db == nil {
		panic("catalog: pgx db required")
	}
	return &PostgresStore{db: db}
}

// List returns the full menu for a business, ordered by name.
func (s *PostgresStore) List(ctx context.Context, businessID string) ([]Service, error) {
	rows, err := s.db.Query(ctx, `
		SELECT name, price, duration_minutes
		FROM salon_services
		WHERE business_id = $1
		ORDER BY name
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list failed: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.Name, &svc.Price, &svc.DurationMinutes); err != nil {
			return nil, fmt.Errorf("catalog: scan failed: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: rows failed: %w", err)
	}
	return services, nil
}

// Get returns one named service.
func (s *PostgresStore) Get(ctx context.Context, businessID, name string) (*Service, error) {
	row := s.db.QueryRow(ctx, `
		SELECT name, price, duration_minutes
		FROM salon_services
		WHERE business_id = $1 AND name = $2
	`, businessID, name)

	var svc Service
	if err := row.Scan(&svc.Name, &svc.Price, &svc.DurationMinutes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: select failed: %w", err)
	}
	return &svc, nil
}

// Upsert inserts or replaces one service by name.
func (s *PostgresStore) Upsert(ctx context.Context, businessID string, svc Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO salon_services (business_id, name, price, duration_minutes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (business_id, name)
		DO UPDATE SET price = EXCLUDED.price, duration_minutes = EXCLUDED.duration_minutes
	`, businessID, svc.Name, svc.Price, svc.DurationMinutes)
	if err != nil {
		return fmt.Errorf("catalog: upsert failed: %w", err)
	}
	return nil
}

// Delete removes one service by name.
func (s *PostgresStore) Delete(ctx context.Context, businessID, name string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM salon_services WHERE business_id = $1 AND name = $2
	`, businessID, name)
	if err != nil {
		return fmt.Errorf("catalog: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}
