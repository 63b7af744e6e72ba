package cli

import (
	"fmt"
	"strings"
	"time"
)

// slotSpec is one parsed --slot argument.
type slotSpec struct {
	Start    string // HH:MM
	End      string // HH:MM
	Activity string // title, ID, or ID prefix; empty for unassigned
	Note     string
}

// parseSlotSpec parses a slot argument of the form
//
//	HH:MM-HH:MM[@activity][#note]
//
// such as "09:00-10:30@Deep work#drafting chapter 2". The activity part
// may be an activity title, full ID, or ID prefix. Slots must end after
// they start.
func parseSlotSpec(raw string) (slotSpec, error) {
	var spec slotSpec

	rest := raw
	if i := strings.Index(rest, "#"); i >= 0 {
		spec.Note = strings.TrimSpace(rest[i+1:])
		rest = rest[:i]
	}
	if i := strings.Index(rest, "@"); i >= 0 {
		spec.Activity = strings.TrimSpace(rest[i+1:])
		rest = rest[:i]
	}

	times := strings.SplitN(strings.TrimSpace(rest), "-", 2)
	if len(times) != 2 {
		return spec, fmt.Errorf("slot %q: expected HH:MM-HH:MM", raw)
	}

	start, err := normalizeClock(times[0])
	if err != nil {
		return spec, fmt.Errorf("slot %q: %w", raw, err)
	}
	end, err := normalizeClock(times[1])
	if err != nil {
		return spec, fmt.Errorf("slot %q: %w", raw, err)
	}
	if end <= start {
		return spec, fmt.Errorf("slot %q: end must be after start", raw)
	}

	spec.Start = start
	spec.End = end
	return spec, nil
}

// normalizeClock validates a wall-clock string and returns it in
// zero-padded HH:MM form so "9:00" and "09:00" compare equal.
func normalizeClock(s string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Format("15:04"), nil
}
