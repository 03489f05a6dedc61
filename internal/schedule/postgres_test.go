package schedule

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresTemplateStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT weekday, slot_time FROM weekly_slots`).
		WithArgs("biz-1").
		WillReturnRows(pgxmock.NewRows([]string{"weekday", "slot_time"}).
			AddRow(1, "09:00").
			AddRow(1, "09:30").
			AddRow(5, "14:00"))

	store := NewPostgresTemplateStore(mock)
	tpl, err := store.Get(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := tpl.Day(time.Monday); !reflect.DeepEqual(got, []string{"09:00", "09:30"}) {
		t.Errorf("monday = %v", got)
	}
	if got := tpl.Day(time.Friday); !reflect.DeepEqual(got, []string{"14:00"}) {
		t.Errorf("friday = %v", got)
	}
}

func TestPostgresTemplateStoreSetDay(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM weekly_slots WHERE business_id`).
		WithArgs("biz-1", 1).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO weekly_slots`).
		WithArgs("biz-1", 1, "09:00").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO weekly_slots`).
		WithArgs("biz-1", 1, "09:30").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	store := NewPostgresTemplateStore(mock)
	if err := store.SetDay(context.Background(), "biz-1", time.Monday, []string{"09:00", "09:30"}); err != nil {
		t.Fatalf("set day: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresTemplateStoreSetDayRejectsBadClock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewPostgresTemplateStore(mock)
	err = store.SetDay(context.Background(), "biz-1", time.Monday, []string{"9am"})
	if !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("err = %v, want ErrInvalidClock", err)
	}
}

func TestPostgresTemplateStoreRemoveSlotNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM weekly_slots`).
		WithArgs("biz-1", 1, "09:00").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	store := NewPostgresTemplateStore(mock)
	err = store.RemoveSlot(context.Background(), "biz-1", time.Monday, "09:00")
	if !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("err = %v, want ErrSlotNotFound", err)
	}
}

func TestPostgresTemplateStoreEditSlotCollision(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("biz-1", 1, "10:00").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	store := NewPostgresTemplateStore(mock)
	err = store.EditSlot(context.Background(), "biz-1", time.Monday, "09:00", "10:00")
	if !errors.Is(err, ErrSlotExists) {
		t.Fatalf("err = %v, want ErrSlotExists", err)
	}
}

func TestPostgresTemplateStoreEditSlot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("biz-1", 1, "09:15").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`UPDATE weekly_slots SET slot_time`).
		WithArgs("biz-1", 1, "09:00", "09:15").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	store := NewPostgresTemplateStore(mock)
	if err := store.EditSlot(context.Background(), "biz-1", time.Monday, "09:00", "09:15"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresOverrideStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	to := "09:15"
	mock.ExpectQuery(`SELECT kind, slot_time, new_time FROM schedule_overrides`).
		WithArgs("biz-1", "2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"kind", "slot_time", "new_time"}).
			AddRow("add", "12:00", nil).
			AddRow("remove", "10:00", nil).
			AddRow("edit", "09:00", &to))

	store := NewPostgresOverrideStore(mock)
	entry, err := store.Get(context.Background(), "biz-1", "2026-09-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if !reflect.DeepEqual(entry.Add, []string{"12:00"}) {
		t.Errorf("add = %v", entry.Add)
	}
	if !reflect.DeepEqual(entry.Remove, []string{"10:00"}) {
		t.Errorf("remove = %v", entry.Remove)
	}
	if !reflect.DeepEqual(entry.Edits, []EditPair{{From: "09:00", To: "09:15"}}) {
		t.Errorf("edits = %v", entry.Edits)
	}
}

func TestPostgresOverrideStoreGetBadDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewPostgresOverrideStore(mock)
	_, err = store.Get(context.Background(), "biz-1", "01/09/2026")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
}

func TestPostgresOverrideStoreMutateRewritesRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT kind, slot_time, new_time FROM schedule_overrides`).
		WithArgs("biz-1", "2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"kind", "slot_time", "new_time"}).
			AddRow("remove", "12:00", nil))
	mock.ExpectExec(`DELETE FROM schedule_overrides`).
		WithArgs("biz-1", "2026-09-01").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	// AddSlot moves 12:00 from the remove set to the add set, so exactly
	// one add row is written back.
	mock.ExpectExec(`INSERT INTO schedule_overrides`).
		WithArgs("biz-1", "2026-09-01", "add", "12:00", (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	store := NewPostgresOverrideStore(mock)
	if err := store.AddSlot(context.Background(), "biz-1", "2026-09-01", "12:00"); err != nil {
		t.Fatalf("add slot: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresOverrideStoreMutationErrorRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	to := "09:15"
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT kind, slot_time, new_time FROM schedule_overrides`).
		WithArgs("biz-1", "2026-09-01").
		WillReturnRows(pgxmock.NewRows([]string{"kind", "slot_time", "new_time"}).
			AddRow("edit", "09:00", &to))
	mock.ExpectRollback()

	store := NewPostgresOverrideStore(mock)
	err = store.EditSlot(context.Background(), "biz-1", "2026-09-01", "09:00", "09:45")
	if !errors.Is(err, ErrSlotEdited) {
		t.Fatalf("err = %v, want ErrSlotEdited", err)
	}
}

func TestPostgresOverrideStorePruneBefore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM schedule_overrides WHERE slot_date <`).
		WithArgs("2026-09-01").
		WillReturnResult(pgxmock.NewResult("DELETE", 6))

	store := NewPostgresOverrideStore(mock)
	n, err := store.PruneBefore(context.Background(), "2026-09-01")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 6 {
		t.Fatalf("pruned %d, want 6", n)
	}
}
