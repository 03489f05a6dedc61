package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxDB is the subset of pgxpool.Pool the schedule stores need. pgxmock
// satisfies it in tests.
type PgxDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresTemplateStore persists weekly templates in the weekly_slots table.
type PostgresTemplateStore struct {
	db PgxDB
}

// NewPostgresTemplateStore initializes a template store backed by pgx.
func NewPostgresTemplateStore(db PgxDB) *PostgresTemplateStore {
	if db == nil {
		panic("schedule: pgx db required")
	}
	return &PostgresTemplateStore{db: db}
}

// Get loads the whole weekly template for a business.
func (s *PostgresTemplateStore) Get(ctx context.Context, businessID string) (WeeklyTemplate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT weekday, slot_time FROM weekly_slots WHERE business_id = $1 ORDER BY weekday, slot_time`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("schedule: load template: %w", err)
	}
	defer rows.Close()

	tpl := make(WeeklyTemplate)
	for rows.Next() {
		var weekday int
		var clock string
		if err := rows.Scan(&weekday, &clock); err != nil {
			return nil, fmt.Errorf("schedule: scan template row: %w", err)
		}
		day := time.Weekday(weekday)
		tpl[day] = append(tpl[day], clock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule: iterate template rows: %w", err)
	}
	return tpl, nil
}

// SetDay replaces the slot list for one weekday.
func (s *PostgresTemplateStore) SetDay(ctx context.Context, businessID string, day time.Weekday, times []string) error {
	for _, t := range times {
		if !ValidClock(t) {
			return ErrInvalidClock
		}
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("schedule: begin set day: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM weekly_slots WHERE business_id = $1 AND weekday = $2`,
		businessID, int(day),
	); err != nil {
		return fmt.Errorf("schedule: clear day: %w", err)
	}
	for _, t := range times {
		if _, err := tx.Exec(ctx,
			`INSERT INTO weekly_slots (business_id, weekday, slot_time) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			businessID, int(day), t,
		); err != nil {
			return fmt.Errorf("schedule: insert day slot: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("schedule: commit set day: %w", err)
	}
	return nil
}

// AddSlot adds a recurring slot; adding an existing slot is a no-op.
func (s *PostgresTemplateStore) AddSlot(ctx context.Context, businessID string, day time.Weekday, clock string) error {
	if !ValidClock(clock) {
		return ErrInvalidClock
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO weekly_slots (business_id, weekday, slot_time) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		businessID, int(day), clock,
	); err != nil {
		return fmt.Errorf("schedule: add template slot: %w", err)
	}
	return nil
}

// RemoveSlot removes a recurring slot.
func (s *PostgresTemplateStore) RemoveSlot(ctx context.Context, businessID string, day time.Weekday, clock string) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM weekly_slots WHERE business_id = $1 AND weekday = $2 AND slot_time = $3`,
		businessID, int(day), clock,
	)
	if err != nil {
		return fmt.Errorf("schedule: remove template slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// EditSlot moves a recurring slot to a new time. A collision with an
// existing slot rejects the edit and keeps the old slot.
func (s *PostgresTemplateStore) EditSlot(ctx context.Context, businessID string, day time.Weekday, oldClock, newClock string) error {
	if !ValidClock(newClock) {
		return ErrInvalidClock
	}
	if oldClock == newClock {
		return nil
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("schedule: begin edit slot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM weekly_slots WHERE business_id = $1 AND weekday = $2 AND slot_time = $3)`,
		businessID, int(day), newClock,
	).Scan(&exists); err != nil {
		return fmt.Errorf("schedule: check edit collision: %w", err)
	}
	if exists {
		return ErrSlotExists
	}

	tag, err := tx.Exec(ctx,
		`UPDATE weekly_slots SET slot_time = $4 WHERE business_id = $1 AND weekday = $2 AND slot_time = $3`,
		businessID, int(day), oldClock, newClock,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotExists
		}
		return fmt.Errorf("schedule: edit template slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("schedule: commit edit slot: %w", err)
	}
	return nil
}

// DisableDay clears every slot on a weekday.
func (s *PostgresTemplateStore) DisableDay(ctx context.Context, businessID string, day time.Weekday) error {
	if _, err := s.db.Exec(ctx,
		`DELETE FROM weekly_slots WHERE business_id = $1 AND weekday = $2`,
		businessID, int(day),
	); err != nil {
		return fmt.Errorf("schedule: disable template day: %w", err)
	}
	return nil
}

// PostgresOverrideStore persists date overrides in the schedule_overrides
// table, one row per (kind, time).
type PostgresOverrideStore struct {
	db PgxDB
}

// NewPostgresOverrideStore initializes an override store backed by pgx.
func NewPostgresOverrideStore(db PgxDB) *PostgresOverrideStore {
	if db == nil {
		panic("schedule: pgx db required")
	}
	return &PostgresOverrideStore{db: db}
}

// Get loads the entry for one date, zero-valued when absent.
func (s *PostgresOverrideStore) Get(ctx context.Context, businessID, date string) (OverrideEntry, error) {
	if !ValidDate(date) {
		return OverrideEntry{}, ErrInvalidDate
	}
	rows, err := s.db.Query(ctx,
		`SELECT kind, slot_time, new_time FROM schedule_overrides WHERE business_id = $1 AND slot_date = $2::date ORDER BY slot_time`,
		businessID, date,
	)
	if err != nil {
		return OverrideEntry{}, fmt.Errorf("schedule: load override: %w", err)
	}
	defer rows.Close()
	return scanOverrideRows(rows)
}

// GetAll loads every entry for a business, keyed by ISO date.
func (s *PostgresOverrideStore) GetAll(ctx context.Context, businessID string) (map[string]OverrideEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT slot_date::text, kind, slot_time, new_time FROM schedule_overrides WHERE business_id = $1 ORDER BY slot_date, slot_time`,
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("schedule: load overrides: %w", err)
	}
	defer rows.Close()

	out := make(map[string]OverrideEntry)
	for rows.Next() {
		var date, kind, clock string
		var newTime *string
		if err := rows.Scan(&date, &kind, &clock, &newTime); err != nil {
			return nil, fmt.Errorf("schedule: scan override row: %w", err)
		}
		entry := out[date]
		applyOverrideRow(&entry, kind, clock, newTime)
		out[date] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule: iterate override rows: %w", err)
	}
	return out, nil
}

// AddSlot introduces a one-time slot.
func (s *PostgresOverrideStore) AddSlot(ctx context.Context, businessID, date, clock string) error {
	return s.mutate(ctx, businessID, date, func(e *OverrideEntry) error { return e.AddSlot(clock) })
}

// RemoveSlot suppresses a slot for the date.
func (s *PostgresOverrideStore) RemoveSlot(ctx context.Context, businessID, date, clock string) error {
	return s.mutate(ctx, businessID, date, func(e *OverrideEntry) error { return e.RemoveSlot(clock) })
}

// EditSlot reschedules a slot for the date.
func (s *PostgresOverrideStore) EditSlot(ctx context.Context, businessID, date, from, to string) error {
	return s.mutate(ctx, businessID, date, func(e *OverrideEntry) error { return e.EditSlot(from, to) })
}

// Revert restores template-only behavior for one slot.
func (s *PostgresOverrideStore) Revert(ctx context.Context, businessID, date, clock string) error {
	return s.mutate(ctx, businessID, date, func(e *OverrideEntry) error {
		e.Revert(clock)
		return nil
	})
}

// Clear drops the whole entry for a date.
func (s *PostgresOverrideStore) Clear(ctx context.Context, businessID, date string) error {
	if !ValidDate(date) {
		return ErrInvalidDate
	}
	if _, err := s.db.Exec(ctx,
		`DELETE FROM schedule_overrides WHERE business_id = $1 AND slot_date = $2::date`,
		businessID, date,
	); err != nil {
		return fmt.Errorf("schedule: clear overrides: %w", err)
	}
	return nil
}

// DisableDate switches a whole date off.
func (s *PostgresOverrideStore) DisableDate(ctx context.Context, businessID, date string) error {
	return s.mutate(ctx, businessID, date, func(e *OverrideEntry) error {
		e.Disable()
		return nil
	})
}

// ToggleDate enables or disables a whole date.
func (s *PostgresOverrideStore) ToggleDate(ctx context.Context, businessID, date string, enabled bool) error {
	return s.mutate(ctx, businessID, date, func(e *OverrideEntry) error {
		e.Toggle(enabled)
		return nil
	})
}

// PruneBefore drops entries dated strictly before the cutoff.
func (s *PostgresOverrideStore) PruneBefore(ctx context.Context, cutoffDate string) (int64, error) {
	if !ValidDate(cutoffDate) {
		return 0, ErrInvalidDate
	}
	tag, err := s.db.Exec(ctx,
		`DELETE FROM schedule_overrides WHERE slot_date < $1::date`,
		cutoffDate,
	)
	if err != nil {
		return 0, fmt.Errorf("schedule: prune overrides: %w", err)
	}
	return tag.RowsAffected(), nil
}

// mutate runs a read-modify-write cycle on one date's entry inside a
// transaction: rows are locked, rebuilt through the entry's own mutation
// rules, then rewritten.
func (s *PostgresOverrideStore) mutate(ctx context.Context, businessID, date string, fn func(*OverrideEntry) error) error {
	if !ValidDate(date) {
		return ErrInvalidDate
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("schedule: begin override mutation: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx,
		`SELECT kind, slot_time, new_time FROM schedule_overrides WHERE business_id = $1 AND slot_date = $2::date FOR UPDATE`,
		businessID, date,
	)
	if err != nil {
		return fmt.Errorf("schedule: lock override rows: %w", err)
	}
	entry, err := scanOverrideRows(rows)
	if err != nil {
		return err
	}

	if err := fn(&entry); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM schedule_overrides WHERE business_id = $1 AND slot_date = $2::date`,
		businessID, date,
	); err != nil {
		return fmt.Errorf("schedule: rewrite overrides: %w", err)
	}
	for _, row := range overrideRows(&entry) {
		if _, err := tx.Exec(ctx,
			`INSERT INTO schedule_overrides (business_id, slot_date, kind, slot_time, new_time) VALUES ($1, $2::date, $3, $4, $5)`,
			businessID, date, row.kind, row.clock, row.newTime,
		); err != nil {
			return fmt.Errorf("schedule: insert override row: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("schedule: commit override mutation: %w", err)
	}
	return nil
}

type overrideRow struct {
	kind    string
	clock   string
	newTime *string
}

func overrideRows(e *OverrideEntry) []overrideRow {
	rows := make([]overrideRow, 0, len(e.Add)+len(e.Remove)+len(e.Edits))
	for _, t := range e.Add {
		rows = append(rows, overrideRow{kind: "add", clock: t})
	}
	for _, t := range e.Remove {
		rows = append(rows, overrideRow{kind: "remove", clock: t})
	}
	for _, p := range e.Edits {
		to := p.To
		rows = append(rows, overrideRow{kind: "edit", clock: p.From, newTime: &to})
	}
	return rows
}

func scanOverrideRows(rows pgx.Rows) (OverrideEntry, error) {
	defer rows.Close()
	var entry OverrideEntry
	for rows.Next() {
		var kind, clock string
		var newTime *string
		if err := rows.Scan(&kind, &clock, &newTime); err != nil {
			return OverrideEntry{}, fmt.Errorf("schedule: scan override row: %w", err)
		}
		applyOverrideRow(&entry, kind, clock, newTime)
	}
	if err := rows.Err(); err != nil {
		return OverrideEntry{}, fmt.Errorf("schedule: iterate override rows: %w", err)
	}
	return entry, nil
}

func applyOverrideRow(entry *OverrideEntry, kind, clock string, newTime *string) {
	switch kind {
	case "add":
		entry.Add = insertSorted(entry.Add, clock)
	case "remove":
		entry.Remove = insertSorted(entry.Remove, clock)
	case "edit":
		if newTime != nil {
			entry.Edits = append(entry.Edits, EditPair{From: clock, To: *newTime})
		}
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
