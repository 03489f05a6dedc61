package schedule

import (
	"reflect"
	"testing"
)

func availableTimes(slots []ResolvedSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			out = append(out, s.Time)
		}
	}
	return out
}

func TestResolveDayTemplateOnly(t *testing.T) {
	in := DayInput{Scheduled: []string{"09:00", "09:30", "10:00"}}
	got := ResolveDay(in, false)

	want := []string{"09:00", "09:30", "10:00"}
	if !reflect.DeepEqual(availableTimes(got), want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, s := range got {
		if s.Source != "" {
			t.Errorf("simple view tagged source %q on %s", s.Source, s.Time)
		}
	}
}

func TestResolveDayAddRemove(t *testing.T) {
	in := DayInput{
		Scheduled: []string{"09:00", "10:00", "11:00"},
		Override: OverrideEntry{
			Add:    []string{"12:30"},
			Remove: []string{"10:00"},
		},
	}
	got := availableTimes(ResolveDay(in, false))
	want := []string{"09:00", "11:00", "12:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayAddDuplicatesScheduled(t *testing.T) {
	// A one-time add of a time already in the template must not double it.
	in := DayInput{
		Scheduled: []string{"09:00", "10:00"},
		Override:  OverrideEntry{Add: []string{"10:00"}},
	}
	got := availableTimes(ResolveDay(in, false))
	want := []string{"09:00", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayEdit(t *testing.T) {
	in := DayInput{
		Scheduled: []string{"09:00", "10:00"},
		Override: OverrideEntry{
			Add:    []string{"09:15"},
			Remove: []string{"09:00"},
			Edits:  []EditPair{{From: "09:00", To: "09:15"}},
		},
	}
	got := availableTimes(ResolveDay(in, false))
	want := []string{"09:15", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayEditDestinationSurvivesRemove(t *testing.T) {
	// The destination emits even when it also sits in the remove set.
	in := DayInput{
		Scheduled: []string{"09:00"},
		Override: OverrideEntry{
			Remove: []string{"09:00", "09:15"},
			Edits:  []EditPair{{From: "09:00", To: "09:15"}},
		},
	}
	got := availableTimes(ResolveDay(in, false))
	want := []string{"09:15"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayEditDestinationSurvivesDayDisable(t *testing.T) {
	in := DayInput{
		Scheduled: []string{"09:00", "10:00"},
		Override: OverrideEntry{
			Remove: []string{AllSlots},
			Edits:  []EditPair{{From: "09:00", To: "09:15"}},
		},
	}
	got := availableTimes(ResolveDay(in, false))
	want := []string{"09:15"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayDisabled(t *testing.T) {
	in := DayInput{
		Scheduled: []string{"09:00", "10:00"},
		Override:  OverrideEntry{Add: []string{"11:00"}, Remove: []string{AllSlots}},
	}
	if got := availableTimes(ResolveDay(in, false)); len(got) != 0 {
		t.Fatalf("disabled day produced available slots %v", got)
	}
}

func TestResolveDayBooked(t *testing.T) {
	in := DayInput{
		Scheduled: []string{"09:00", "09:30", "10:00"},
		Booked:    []string{"09:30"},
	}
	got := availableTimes(ResolveDay(in, false))
	want := []string{"09:00", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayBookedEditDestination(t *testing.T) {
	// A booking on the destination wins: the slot emits but is unavailable.
	in := DayInput{
		Scheduled: []string{"09:00"},
		Override: OverrideEntry{
			Remove: []string{"09:00"},
			Edits:  []EditPair{{From: "09:00", To: "09:15"}},
		},
		Booked: []string{"09:15"},
	}

	if got := availableTimes(ResolveDay(in, false)); len(got) != 0 {
		t.Fatalf("booked edit destination still available: %v", got)
	}

	tagged := ResolveDay(in, true)
	var found bool
	for _, s := range tagged {
		if s.Time == "09:15" {
			found = true
			if s.Available {
				t.Error("booked destination reported available")
			}
			if s.Source != SourceBooked {
				t.Errorf("source = %q, want %q", s.Source, SourceBooked)
			}
		}
	}
	if !found {
		t.Fatal("edit destination missing from provenance view")
	}
}

func TestResolveDaySources(t *testing.T) {
	in := DayInput{
		Scheduled: []string{"09:00", "10:00", "11:00"},
		Override: OverrideEntry{
			Add:    []string{"12:30"},
			Remove: []string{"10:00", "11:15"},
			Edits:  []EditPair{{From: "11:00", To: "11:15"}},
		},
		Booked: []string{"09:00"},
	}
	got := ResolveDay(in, true)

	want := []ResolvedSlot{
		{Time: "09:00", Available: false, Source: SourceBooked},
		{Time: "10:00", Available: false, Source: SourceDisabled},
		{Time: "11:15", Available: true, Source: SourceEdited},
		{Time: "12:30", Available: true, Source: SourceAdded},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveDayBaseSource(t *testing.T) {
	got := ResolveDay(DayInput{Scheduled: []string{"09:00"}}, true)
	want := []ResolvedSlot{{Time: "09:00", Available: true, Source: SourceBase}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestResolveDayEmpty(t *testing.T) {
	if got := ResolveDay(DayInput{}, false); len(got) != 0 {
		t.Fatalf("empty input produced slots %v", got)
	}
}
