package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveActivityID turns user input into an activity ID. Input may be
// the full UUID, a UUID prefix, or an exact title match
// (case-insensitive). Empty input resolves to the empty ID, meaning an
// unassigned slot.
func resolveActivityID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", nil
	}

	activities, err := app.Activities.List(ctx)
	if err != nil {
		return "", err
	}

	for _, a := range activities {
		if strings.EqualFold(a.Title, input) {
			return a.ID, nil
		}
	}

	for _, a := range activities {
		if a.ID == input {
			return a.ID, nil
		}
	}

	var matches []string
	for _, a := range activities {
		if strings.HasPrefix(a.ID, input) {
			matches = append(matches, a.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("activity not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("activity %q is ambiguous (%d matches)", input, len(matches))
	}
}
