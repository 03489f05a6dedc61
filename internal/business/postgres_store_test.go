package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO businesses`).
		WithArgs(pgxmock.AnyArg(), "glow", "Glow Salon", "en", "UTC", "owner@glow.example", "", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	store := NewPostgresStore(mock)
	b := &Business{Slug: "glow", Name: "Glow Salon", NotifyEmail: "owner@glow.example", PasswordHash: "hash"}
	if err := store.Create(context.Background(), b); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !b.CreatedAt.Equal(now) {
		t.Fatalf("created_at not set: %v", b.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresCreateDuplicateSlug(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO businesses`).
		WithArgs(pgxmock.AnyArg(), "glow", "Glow", "en", "UTC", "", "", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	store := NewPostgresStore(mock)
	err = store.Create(context.Background(), &Business{Slug: "glow", Name: "Glow"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPostgresGetBySlug(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"id", "slug", "name", "locale", "timezone", "notify_email", "bot_knowledge", "admin_password_hash", "created_at",
	}).AddRow("biz-1", "glow", "Glow Salon", "he", "Asia/Jerusalem", "owner@glow.example", "knowledge", "hash", now)

	mock.ExpectQuery(`SELECT id, slug, name`).WithArgs("glow").WillReturnRows(rows)

	store := NewPostgresStore(mock)
	b, err := store.GetBySlug(context.Background(), "glow")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if b.ID != "biz-1" || b.Locale != "he" || b.Timezone != "Asia/Jerusalem" {
		t.Fatalf("unexpected business: %+v", b)
	}
}

func TestPostgresTimezone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT timezone FROM businesses`).
		WithArgs("biz-1").
		WillReturnRows(pgxmock.NewRows([]string{"timezone"}).AddRow("Asia/Jerusalem"))

	store := NewPostgresStore(mock)
	tz, err := store.Timezone(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("timezone: %v", err)
	}
	if tz != "Asia/Jerusalem" {
		t.Fatalf("timezone = %q", tz)
	}
}

func TestPostgresUpdateKnowledgeNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE businesses SET bot_knowledge`).
		WithArgs("missing", "x").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	store := NewPostgresStore(mock)
	if err := store.UpdateKnowledge(context.Background(), "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
