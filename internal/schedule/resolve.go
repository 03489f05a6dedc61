package schedule

import "sort"

// Source says why a resolved slot has its availability state. It is only
// populated in the provenance (admin) view.
type Source string

const (
	SourceBase     Source = "base"
	SourceAdded    Source = "added"
	SourceEdited   Source = "edited"
	SourceDisabled Source = "disabled"
	SourceBooked   Source = "booked"
)

// ResolvedSlot is one bookable time on a specific date.
type ResolvedSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Source    Source `json:"source,omitempty"`
}

// ResolvedDay is the slot list for one date.
type ResolvedDay struct {
	Date    string         `json:"date"`
	DayName string         `json:"day_name"`
	Times   []ResolvedSlot `json:"times"`
}

// DayInput carries everything resolution needs for a single date.
type DayInput struct {
	// Scheduled is the weekly template for the date's weekday.
	Scheduled []string
	// Override is the one-time delta for the date.
	Override OverrideEntry
	// Booked are times with a confirmed booking on the date.
	Booked []string
}

// ResolveDay merges the template, the date override and live bookings into
// the slot list for one date.
//
// Precedence, per slot: an edit destination always emits and survives
// per-slot removal and whole-day disable; an edit source never emits; any
// other slot is available unless the day is disabled, the slot is removed,
// or it is booked. A booked slot is never available, edit destination or
// not, so a confirmed booking always wins the availability question.
//
// When withSources is false, unavailable slots are omitted and no source is
// tagged. When true, every surviving candidate emits with its source:
// booked > edited > added > disabled > base.
func ResolveDay(in DayInput, withSources bool) []ResolvedSlot {
	scheduled := toSet(in.Scheduled)
	added := toSet(in.Override.Add)
	removed := toSet(in.Override.Remove)
	booked := toSet(in.Booked)
	dayDisabled := in.Override.DayDisabled()

	editFrom := make(map[string]bool, len(in.Override.Edits))
	editTo := make(map[string]bool, len(in.Override.Edits))
	for _, p := range in.Override.Edits {
		editFrom[p.From] = true
		editTo[p.To] = true
	}

	candidates := make(map[string]bool, len(scheduled)+len(added)+len(editTo))
	for t := range scheduled {
		candidates[t] = true
	}
	for t := range added {
		candidates[t] = true
	}
	for t := range editTo {
		candidates[t] = true
	}

	order := make([]string, 0, len(candidates))
	for t := range candidates {
		order = append(order, t)
	}
	sort.Strings(order)

	slots := make([]ResolvedSlot, 0, len(order))
	for _, t := range order {
		switch {
		case editTo[t]:
			available := !booked[t]
			slot := ResolvedSlot{Time: t, Available: available}
			if withSources {
				if booked[t] {
					slot.Source = SourceBooked
				} else {
					slot.Source = SourceEdited
				}
			}
			if available || withSources {
				slots = append(slots, slot)
			}

		case editFrom[t]:
			// Superseded by its edit destination.

		default:
			available := !(dayDisabled || removed[t] || booked[t])
			if available {
				slot := ResolvedSlot{Time: t, Available: true}
				if withSources {
					slot.Source = sourceFor(t, scheduled, added, removed, dayDisabled, booked[t])
				}
				slots = append(slots, slot)
				continue
			}
			if withSources {
				slots = append(slots, ResolvedSlot{
					Time:      t,
					Available: false,
					Source:    sourceFor(t, scheduled, added, removed, dayDisabled, booked[t]),
				})
			}
		}
	}
	return slots
}

// sourceFor is the ordered provenance match for non-edit-destination slots.
func sourceFor(t string, scheduled, added, removed map[string]bool, dayDisabled, booked bool) Source {
	switch {
	case booked:
		return SourceBooked
	case added[t] && !scheduled[t]:
		return SourceAdded
	case scheduled[t] && (removed[t] || dayDisabled):
		return SourceDisabled
	default:
		return SourceBase
	}
}

func toSet(times []string) map[string]bool {
	set := make(map[string]bool, len(times))
	for _, t := range times {
		set[t] = true
	}
	return set
}
