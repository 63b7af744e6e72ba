package domain

import "time"

// Activity is a user-defined thing time can be tracked against.
type Activity struct {
	ID          string
	Title       string
	Description string
	EffortLevel int
	CreatedAt   time.Time
}
