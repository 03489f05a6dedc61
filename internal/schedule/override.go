package schedule

// AllSlots is the sentinel in OverrideEntry.Remove that disables every slot
// on the date, regardless of template or additions.
const AllSlots = "__all__"

// EditPair reschedules a slot for one date: From disappears, To appears.
type EditPair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// OverrideEntry is the one-time delta applied to a single date on top of the
// weekly template. The zero value means "no changes".
//
// Bookings are deliberately not mirrored here; the booking store is the
// single source of truth and resolution reads booked times from it directly.
type OverrideEntry struct {
	Add    []string   `json:"add,omitempty"`
	Remove []string   `json:"remove,omitempty"`
	Edits  []EditPair `json:"edits,omitempty"`
}

// IsEmpty reports whether the entry carries no changes and can be dropped.
func (e *OverrideEntry) IsEmpty() bool {
	return len(e.Add) == 0 && len(e.Remove) == 0 && len(e.Edits) == 0
}

// DayDisabled reports whether the whole date is switched off.
func (e *OverrideEntry) DayDisabled() bool {
	return contains(e.Remove, AllSlots)
}

// Clone returns a deep copy.
func (e *OverrideEntry) Clone() OverrideEntry {
	return OverrideEntry{
		Add:    append([]string(nil), e.Add...),
		Remove: append([]string(nil), e.Remove...),
		Edits:  append([]EditPair(nil), e.Edits...),
	}
}

// AddSlot introduces a one-time slot. The time leaves the remove set so the
// sets stay mutually exclusive.
func (e *OverrideEntry) AddSlot(clock string) error {
	if !ValidClock(clock) {
		return ErrInvalidClock
	}
	e.Add = insertSorted(e.Add, clock)
	e.Remove, _ = removeValue(e.Remove, clock)
	return nil
}

// RemoveSlot suppresses a slot for this date. The time leaves the add set
// and any edit referencing it, as source or destination, is cancelled.
func (e *OverrideEntry) RemoveSlot(clock string) error {
	if !ValidClock(clock) {
		return ErrInvalidClock
	}
	e.Remove = insertSorted(e.Remove, clock)
	e.Add, _ = removeValue(e.Add, clock)
	e.dropEditsTouching(clock)
	return nil
}

// EditSlot reschedules from -> to. The source shows as gone (remove set),
// the destination as newly available (add set), and the pair is recorded for
// provenance. A slot can hold at most one pending edit per date.
func (e *OverrideEntry) EditSlot(from, to string) error {
	if !ValidClock(from) || !ValidClock(to) {
		return ErrInvalidClock
	}
	if from == to {
		return nil
	}
	for _, p := range e.Edits {
		if p.From == from {
			return ErrSlotEdited
		}
	}
	e.Add, _ = removeValue(e.Add, from)
	e.Remove, _ = removeValue(e.Remove, from)
	e.Remove = insertSorted(e.Remove, from)
	e.Add = insertSorted(e.Add, to)
	e.Edits = append(e.Edits, EditPair{From: from, To: to})
	return nil
}

// Revert scrubs a time from every set, restoring template-only behavior for
// that slot. Reverting either end of an edit undoes the whole pair, so the
// source slot falls back to its template-derived state.
func (e *OverrideEntry) Revert(clock string) {
	for i := 0; i < len(e.Edits); {
		p := e.Edits[i]
		if p.From == clock || p.To == clock {
			e.Remove, _ = removeValue(e.Remove, p.From)
			e.Add, _ = removeValue(e.Add, p.To)
			e.Edits = append(e.Edits[:i], e.Edits[i+1:]...)
			continue
		}
		i++
	}
	e.Add, _ = removeValue(e.Add, clock)
	e.Remove, _ = removeValue(e.Remove, clock)
}

// Disable switches the whole date off: the sentinel replaces the remove set
// and one-time additions are wiped.
func (e *OverrideEntry) Disable() {
	e.Remove = []string{AllSlots}
	e.Add = nil
}

// Enable lifts a whole-day disable, keeping any per-slot removals.
func (e *OverrideEntry) Enable() {
	e.Remove, _ = removeValue(e.Remove, AllSlots)
}

// Toggle enables or disables the whole date.
func (e *OverrideEntry) Toggle(enabled bool) {
	if enabled {
		e.Enable()
		return
	}
	e.Disable()
}

func (e *OverrideEntry) dropEditsTouching(clock string) {
	for i := 0; i < len(e.Edits); {
		p := e.Edits[i]
		if p.From == clock || p.To == clock {
			e.Edits = append(e.Edits[:i], e.Edits[i+1:]...)
			continue
		}
		i++
	}
}
