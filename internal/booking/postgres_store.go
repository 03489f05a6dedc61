package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxDB is the subset of pgxpool.Pool this store needs; pgxmock satisfies
// it in tests.
type pgxDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists bookings one row per occupied slot. The
// (business_id, slot_date, slot_time) unique constraint is the final
// arbiter against double booking.
type PostgresStore struct {
	db pgxDB
}

// NewPostgresStore initializes a store backed by pgx.
func NewPostgresStore(db pgxDB) *PostgresStore {
	if db == nil {
		panic("booking: pgx db required")
	}
	return &PostgresStore{db: db}
}

// Create inserts every occupied slot in one transaction.
func (s *PostgresStore) Create(ctx context.Context, b *Booking) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("booking: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, t := range b.Times {
		_, err := tx.Exec(ctx, `
			INSERT INTO bookings (id, business_id, slot_date, slot_time, customer_name, phone, service, price, slot_index, created_at)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10)
		`, b.ID, b.BusinessID, b.Date, t, b.Name, b.Phone, b.Service, b.Price, i, b.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("booking: insert slot %s: %w", t, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("booking: commit: %w", err)
	}
	return nil
}

// Delete removes the booking matching all five identifying fields. A match
// on any occupied slot removes the whole booking, so cancelling by the
// second slot of a long appointment works too.
func (s *PostgresStore) Delete(ctx context.Context, businessID, date, clock, name, phone string) (*Booking, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
		SELECT id FROM bookings
		WHERE business_id = $1 AND slot_date = $2::date AND slot_time = $3
		  AND customer_name = $4 AND phone = $5
	`, businessID, date, clock, name, phone).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("booking: lookup for cancel: %w", err)
	}

	removed, err := s.loadByID(ctx, tx, businessID, id)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM bookings WHERE business_id = $1 AND id = $2`,
		businessID, id,
	); err != nil {
		return nil, fmt.Errorf("booking: delete: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("booking: commit: %w", err)
	}
	return removed, nil
}

// ListByDate returns the day's bookings ordered by start time.
func (s *PostgresStore) ListByDate(ctx context.Context, businessID, date string) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, slot_date::text, slot_time, customer_name, phone, service, price, created_at
		FROM bookings
		WHERE business_id = $1 AND slot_date = $2::date
		ORDER BY slot_time, slot_index
	`, businessID, date)
	if err != nil {
		return nil, fmt.Errorf("booking: list by date: %w", err)
	}
	defer rows.Close()
	return groupRows(rows, businessID)
}

// TimesForRange returns occupied slot times per date within [from, to].
func (s *PostgresStore) TimesForRange(ctx context.Context, businessID, fromDate, toDate string) (map[string][]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT slot_date::text, slot_time
		FROM bookings
		WHERE business_id = $1 AND slot_date BETWEEN $2::date AND $3::date
		ORDER BY slot_date, slot_time
	`, businessID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("booking: times for range: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var date, clock string
		if err := rows.Scan(&date, &clock); err != nil {
			return nil, fmt.Errorf("booking: scan times: %w", err)
		}
		out[date] = append(out[date], clock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: rows: %w", err)
	}
	return out, nil
}

// PruneBefore drops every booking dated before the cutoff.
func (s *PostgresStore) PruneBefore(ctx context.Context, cutoffDate string) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM bookings WHERE slot_date < $1::date`, cutoffDate)
	if err != nil {
		return 0, fmt.Errorf("booking: prune: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) loadByID(ctx context.Context, tx pgx.Tx, businessID, id string) (*Booking, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, slot_date::text, slot_time, customer_name, phone, service, price, created_at
		FROM bookings
		WHERE business_id = $1 AND id = $2
		ORDER BY slot_time, slot_index
	`, businessID, id)
	if err != nil {
		return nil, fmt.Errorf("booking: load by id: %w", err)
	}
	defer rows.Close()

	grouped, err := groupRows(rows, businessID)
	if err != nil {
		return nil, err
	}
	if len(grouped) == 0 {
		return nil, ErrNotFound
	}
	return &grouped[0], nil
}

func groupRows(rows pgx.Rows, businessID string) ([]Booking, error) {
	byID := make(map[string]*Booking)
	var order []string
	for rows.Next() {
		var (
			id, date, clock, name, phone, service string
			price                                 float64
			createdAt                             time.Time
		)
		if err := rows.Scan(&id, &date, &clock, &name, &phone, &service, &price, &createdAt); err != nil {
			return nil, fmt.Errorf("booking: scan row: %w", err)
		}
		b, ok := byID[id]
		if !ok {
			b = &Booking{
				ID:         id,
				BusinessID: businessID,
				Date:       date,
				Name:       name,
				Phone:      phone,
				Service:    service,
				Price:      price,
				CreatedAt:  createdAt,
			}
			byID[id] = b
			order = append(order, id)
		}
		b.Times = append(b.Times, clock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: rows: %w", err)
	}

	out := make([]Booking, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
