// Package business holds the tenant model. Every store in the application
// is scoped by a business id; nothing ever reads across tenants.
package business

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a business does not exist.
	ErrNotFound = errors.New("business: not found")

	// ErrSlugTaken is returned when onboarding reuses a slug.
	ErrSlugTaken = errors.New("business: slug already taken")

	// ErrInvalidInput is returned for missing required fields.
	ErrInvalidInput = errors.New("business: invalid input")
)

// Business is a tenant: one salon with its own template, overrides,
// bookings and service catalog.
type Business struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Locale       string    `json:"locale"`
	Timezone     string    `json:"timezone"`
	NotifyEmail  string    `json:"notify_email"`
	BotKnowledge string    `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks required onboarding fields.
func (b *Business) Validate() error {
	if b.Slug == "" || b.Name == "" {
		return ErrInvalidInput
	}
	return nil
}

// Store defines tenant persistence.
type Store interface {
	Create(ctx context.Context, b *Business) error
	GetByID(ctx context.Context, id string) (*Business, error)
	GetBySlug(ctx context.Context, slug string) (*Business, error)
	Timezone(ctx context.Context, id string) (string, error)
	UpdateKnowledge(ctx context.Context, id, knowledge string) error
	Delete(ctx context.Context, id string) error
}
