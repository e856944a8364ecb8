package convergence

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/journal"
)

const (
	// A milestone is urgent from 48h before it until 24h after it.
	urgentBefore = 48 * time.Hour
	urgentAfter  = 24 * time.Hour

	ClassColor     = "#6366f1"
	MilestoneColor = "#f59e0b"
	IncomeColor    = "#10b981"
	ExpenseColor   = "#ef4444"
)

type moodStyle struct {
	label string
	glyph string
	color string
}

var moodStyles = map[journal.Mood]moodStyle{
	journal.Great:    {"Great", "😄", "#22c55e"},
	journal.Good:     {"Good", "🙂", "#84cc16"},
	journal.Neutral:  {"Neutral", "😐", "#a3a3a3"},
	journal.Low:      {"Low", "😔", "#60a5fa"},
	journal.Stressed: {"Stressed", "😫", "#a855f7"},
}

var unknownMood = moodStyle{glyph: "📝", color: "#9ca3af"}

// Engine merges the sources of a day using the injected clock for urgency.
type Engine struct {
	clock utils.Clock
}

func NewEngine(clock utils.Clock) *Engine {
	return &Engine{clock: clock}
}

func (e *Engine) EventsForDate(date time.Time, sources Sources) []Event {
	return EventsForDate(date, sources, e.clock.Now())
}

func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// EventsForDate returns every event of date ordered by time of day. Untimed events
// sort as "00:00"; equal keys keep the source order. Records with unreadable dates
// are left out.
func EventsForDate(date time.Time, sources Sources, now time.Time) []Event {
	date = utils.DateOf(date)
	occurrences := Occurrences(date, sources)
	events := make([]Event, 0, len(occurrences))
	for _, o := range occurrences {
		events = append(events, toEvent(o, now))
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].SortKey() < events[j].SortKey()
	})
	return events
}

func toEvent(o Occurrence, now time.Time) Event {
	switch o := o.(type) {
	case ClassOccurrence:
		return classEvent(o)
	case MilestoneOccurrence:
		return milestoneEvent(o, now)
	case TransactionOccurrence:
		return transactionEvent(o)
	case MoodOccurrence:
		return moodEvent(o)
	case CustomOccurrence:
		return customEvent(o)
	default:
		panic(fmt.Sprintf("convergence: unhandled occurrence %T", o))
	}
}

func classEvent(o ClassOccurrence) Event {
	start := clockTime(o.Class.Schedule.StartTime)
	end := clockTime(o.Class.Schedule.EndTime)
	subtitle := start
	if start != "" && end != "" {
		subtitle = start + " - " + end
	}
	return Event{
		Id:       fmt.Sprintf("class-%s-%d-%s", o.Subject.Id, o.Class.Index, o.Date.Format("20060102")),
		Title:    o.Subject.Name,
		Subtitle: subtitle,
		Date:     o.Date,
		Time:     start,
		Kind:     KindClass,
		Priority: PriorityLow,
		Color:    orDefault(o.Subject.Color, ClassColor),
	}
}

func milestoneEvent(o MilestoneOccurrence, now time.Time) Event {
	priority := PriorityLow
	if at, err := o.Milestone.At(now.Location()); err == nil && IsUrgent(at, now) {
		priority = PriorityHigh
	}
	subtitle := o.Subject.Name
	if o.Milestone.Type != "" {
		subtitle = o.Milestone.Type + " - " + o.Subject.Name
	}
	return Event{
		Id:       "milestone-" + o.Milestone.Id,
		Title:    o.Milestone.Title,
		Subtitle: subtitle,
		Date:     o.Date,
		Time:     clockTime(o.Milestone.Time),
		Kind:     KindMilestone,
		Priority: priority,
		Color:    orDefault(o.Subject.Color, MilestoneColor),
	}
}

// IsUrgent reports whether now lies between 48h before and 24h after at, bounds included.
func IsUrgent(at, now time.Time) bool {
	elapsed := now.Sub(at)
	return elapsed >= -urgentBefore && elapsed <= urgentAfter
}

func transactionEvent(o TransactionOccurrence) Event {
	t := o.Transaction
	color, subtitle := ExpenseColor, "Expense"
	if t.Type.IsIncome() {
		color, subtitle = IncomeColor, "Income"
	}
	if t.Category != "" {
		subtitle += " - " + t.Category
	}
	return Event{
		Id:       "tx-" + t.Id,
		Title:    orDefault(t.Description, t.Category),
		Subtitle: subtitle,
		Date:     o.Date,
		Kind:     KindTransaction,
		Priority: PriorityLow,
		Color:    color,
		Amount:   decimal.NewNullDecimal(t.Amount),
	}
}

func moodEvent(o MoodOccurrence) Event {
	style := unknownMood
	style.label = string(o.Entry.Mood)
	if mood, ok := o.Entry.Mood.Known(); ok {
		style = moodStyles[mood]
	}
	return Event{
		Id:        "mood-" + o.Entry.Id,
		Title:     style.label,
		Subtitle:  "Journal",
		Date:      o.Date,
		Kind:      KindMood,
		Priority:  PriorityLow,
		Color:     style.color,
		MoodGlyph: style.glyph,
	}
}

func customEvent(o CustomOccurrence) Event {
	e := o.Event
	priority := PriorityLow
	if e.Priority.IsHigh() {
		priority = PriorityHigh
	}
	return Event{
		Id:       "custom-" + e.Id,
		Title:    e.Title,
		Subtitle: e.Description,
		Date:     o.Date,
		Time:     clockTime(e.Time),
		Kind:     KindCustom,
		Priority: priority,
		Color:    e.Color,
	}
}

// clockTime normalizes a stored time of day to "HH:MM"; unreadable values become untimed.
func clockTime(value string) string {
	if value == "" {
		return ""
	}
	hour, minute, err := utils.ParseClock(value)
	if err != nil {
		log.Debugf("ignoring time of day: %v", err)
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

