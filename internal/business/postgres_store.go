package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxDB is the subset of pgxpool.Pool this store needs; pgxmock satisfies
// it in tests.
type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists businesses in the relational database.
type PostgresStore struct {
	db pgxDB
}

// NewPostgresStore initializes a store backed by pgx.
func NewPostgresStore(db pgxDB) *PostgresStore {
	if db == nil {
		panic("business: pgx db required")
	}
	return &PostgresStore{db: db}
}

// Create inserts a new tenant row.
func (s *PostgresStore) Create(ctx context.Context, b *Business) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Locale == "" {
		b.Locale = "en"
	}
	if b.Timezone == "" {
		b.Timezone = "UTC"
	}

	var createdAt time.Time
	err := s.db.QueryRow(ctx, `
		INSERT INTO businesses (id, slug, name, locale, timezone, notify_email, bot_knowledge, admin_password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, b.ID, b.Slug, b.Name, b.Locale, b.Timezone, b.NotifyEmail, b.BotKnowledge, b.PasswordHash).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlugTaken
		}
		return fmt.Errorf("business: insert failed: %w", err)
	}
	b.CreatedAt = createdAt
	return nil
}

// GetByID fetches one tenant by id.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Business, error) {
	return s.getBy(ctx, `WHERE id = $1`, id)
}

// GetBySlug fetches one tenant by public slug.
func (s *PostgresStore) GetBySlug(ctx context.Context, slug string) (*Business, error) {
	return s.getBy(ctx, `WHERE slug = $1`, slug)
}

func (s *PostgresStore) getBy(ctx context.Context, where string, arg any) (*Business, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, slug, name, locale, timezone, notify_email, bot_knowledge, admin_password_hash, created_at
		FROM businesses `+where, arg)

	var b Business
	if err := row.Scan(
		&b.ID,
		&b.Slug,
		&b.Name,
		&b.Locale,
		&b.Timezone,
		&b.NotifyEmail,
		&b.BotKnowledge,
		&b.PasswordHash,
		&b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("business: select failed: %w", err)
	}
	return &b, nil
}

// Timezone reports the tenant's IANA timezone.
func (s *PostgresStore) Timezone(ctx context.Context, id string) (string, error) {
	var tz string
	err := s.db.QueryRow(ctx,
		`SELECT timezone FROM businesses WHERE id = $1`, id).Scan(&tz)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("business: select timezone: %w", err)
	}
	return tz, nil
}

// UpdateKnowledge replaces the FAQ assistant's knowledge text.
func (s *PostgresStore) UpdateKnowledge(ctx context.Context, id, knowledge string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE businesses SET bot_knowledge = $2 WHERE id = $1`,
		id, knowledge,
	)
	if err != nil {
		return fmt.Errorf("business: update knowledge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a tenant; dependent rows cascade in the schema.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("business: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
