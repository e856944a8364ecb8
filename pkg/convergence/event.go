package convergence

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindClass       Kind = "class"
	KindMilestone   Kind = "milestone"
	KindTransaction Kind = "transaction"
	KindMood        Kind = "mood"
	KindCustom      Kind = "custom"
)

type Priority string

const (
	PriorityLow  Priority = "low"
	PriorityHigh Priority = "high"
)

// untimedSortKey orders events without a time of day together with midnight events.
const untimedSortKey = "00:00"

// Event is the source-agnostic entry shown on a calendar day.
type Event struct {
	Id       string
	Title    string
	Subtitle string
	Date     time.Time
	// Time is "HH:MM" or empty for all-day entries.
	Time     string
	Kind     Kind
	Priority Priority
	Color    string
	// Amount is only valid for transactions.
	Amount decimal.NullDecimal
	// MoodGlyph is only set for moods.
	MoodGlyph string
}

func (e Event) SortKey() string {
	if e.Time == "" {
		return untimedSortKey
	}
	return e.Time
}

func (e Event) IsAllDay() bool {
	return e.Time == ""
}
