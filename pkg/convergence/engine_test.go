package convergence

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/journal"
	"github.com/studianta/studianta/pkg/subject"
	"github.com/studianta/studianta/pkg/transaction"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func algebra() subject.Subject {
	return subject.Subject{
		Id:        "algebra",
		Name:      "Algebra",
		TermStart: "2024-01-08",
		TermEnd:   "2024-05-20",
		Schedules: []subject.Schedule{{Day: "Monday", StartTime: "10:00", EndTime: "12:00"}},
		Milestones: []subject.Milestone{
			{Id: "midterm", Title: "Midterm", Date: "2024-03-18", Type: "Examen"},
		},
	}
}

func busySources() Sources {
	return Sources{
		Subjects: []subject.Subject{
			algebra(),
			{
				Id:   "history",
				Name: "History",
				Schedules: []subject.Schedule{
					{Day: "lunes", StartTime: "08:00", EndTime: "09:30"},
					{Day: "Miércoles", StartTime: "16:00", EndTime: "18:00"},
				},
				Milestones: []subject.Milestone{{Id: "essay", Title: "Essay", Date: "2024-03-20", Time: "23:59"}},
			},
		},
		Transactions: []transaction.Transaction{
			{Id: "t1", Date: "2024-03-18", Type: transaction.Expense, Category: "Food", Amount: decimal.RequireFromString("12.40"), Description: "Lunch"},
			{Id: "t2", Date: "2024-03-20", Type: transaction.Income, Category: "Job", Amount: decimal.RequireFromString("300")},
			{Id: "t3", Date: "bad", Type: transaction.Income},
		},
		Journal: []journal.Entry{
			{Id: "j1", Date: "2024-03-18", Mood: journal.Good},
			{Id: "j2", Date: "2024-03-19", Mood: "confused"},
		},
		Custom: []custom_event.Event{
			{Id: "c1", Title: "Study group", Date: "2024-03-18", Time: "09:00", Color: "#123456", Priority: custom_event.PriorityHigh},
			{Id: "c2", Title: "Gym", Date: "2024-03-19", Time: "7:30"},
		},
	}
}

func TestEventsForDate_EndToEndAlgebraMidterm(t *testing.T) {
	sources := Sources{Subjects: []subject.Subject{algebra()}}

	events := EventsForDate(day(2024, 3, 18), sources, day(2024, 1, 1))

	require.Len(t, events, 2)
	assert.Equal(t, KindMilestone, events[0].Kind)
	assert.Equal(t, "Midterm", events[0].Title)
	assert.Equal(t, "", events[0].Time)
	assert.Equal(t, "00:00", events[0].SortKey())
	assert.Equal(t, KindClass, events[1].Kind)
	assert.Equal(t, "10:00", events[1].Time)
	assert.Equal(t, "10:00 - 12:00", events[1].Subtitle)
	assert.Equal(t, "class-algebra-0-20240318", events[1].Id)
	assert.Equal(t, "milestone-midterm", events[0].Id)
}

func TestEventsForDate_SortInvariant(t *testing.T) {
	sources := busySources()
	now := day(2024, 3, 17)

	for d := day(2024, 3, 1); d.Before(day(2024, 4, 1)); d = d.AddDate(0, 0, 1) {
		events := EventsForDate(d, sources, now)
		for i := 1; i < len(events); i++ {
			assert.LessOrEqual(t, events[i-1].SortKey(), events[i].SortKey(), d.Format(time.DateOnly))
		}
	}
}

func TestEventsForDate_MergesAllSources(t *testing.T) {
	events := EventsForDate(day(2024, 3, 18), busySources(), day(2024, 3, 17))

	var ids []string
	for _, e := range events {
		ids = append(ids, e.Id)
	}
	// untimed milestone, transaction and mood keep their source order at "00:00"
	assert.Equal(t, []string{
		"milestone-midterm",
		"tx-t1",
		"mood-j1",
		"class-history-0-20240318",
		"custom-c1",
		"class-algebra-0-20240318",
	}, ids)

	tx := events[1]
	assert.Equal(t, "Lunch", tx.Title)
	assert.Equal(t, "Expense - Food", tx.Subtitle)
	assert.Equal(t, ExpenseColor, tx.Color)
	require.True(t, tx.Amount.Valid)
	assert.True(t, decimal.RequireFromString("12.4").Equal(tx.Amount.Decimal))

	mood := events[2]
	assert.Equal(t, "🙂", mood.MoodGlyph)
	assert.Equal(t, "Good", mood.Title)

	custom := events[4]
	assert.Equal(t, PriorityHigh, custom.Priority)
	assert.Equal(t, "#123456", custom.Color)
}

func TestEventsForDate_OtherDays(t *testing.T) {
	sources := busySources()

	t.Run("unknown mood and unpadded time", func(t *testing.T) {
		events := EventsForDate(day(2024, 3, 19), sources, day(2024, 3, 17))
		require.Len(t, events, 2)
		assert.Equal(t, "mood-j2", events[0].Id)
		assert.Equal(t, "confused", events[0].Title)
		assert.Equal(t, "📝", events[0].MoodGlyph)
		assert.Equal(t, "custom-c2", events[1].Id)
		assert.Equal(t, "07:30", events[1].Time)
		assert.Equal(t, PriorityLow, events[1].Priority)
	})

	t.Run("income transaction", func(t *testing.T) {
		events := EventsForDate(day(2024, 3, 20), sources, day(2024, 3, 17))
		require.Len(t, events, 3)
		assert.Equal(t, "tx-t2", events[0].Id)
		assert.Equal(t, IncomeColor, events[0].Color)
		assert.Equal(t, "Job", events[0].Title)
		assert.Equal(t, "class-history-1-20240320", events[1].Id)
		assert.Equal(t, "milestone-essay", events[2].Id)
		assert.Equal(t, "23:59", events[2].Time)
	})

	t.Run("time of day of the query date is ignored", func(t *testing.T) {
		morning := EventsForDate(day(2024, 3, 18), sources, day(2024, 3, 17))
		evening := EventsForDate(day(2024, 3, 18).Add(21*time.Hour), sources, day(2024, 3, 17))
		assert.Equal(t, morning, evening)
	})
}

func TestEventsForDate_TermBoundedRecurrence(t *testing.T) {
	s := algebra()
	s.TermStart, s.TermEnd = "2024-03-01", "2024-07-15"
	s.Milestones = nil
	sources := Sources{Subjects: []subject.Subject{s}}

	for d := day(2024, 1, 1); d.Before(day(2024, 12, 31)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Monday {
			continue
		}
		events := EventsForDate(d, sources, d)
		inTerm := !d.Before(day(2024, 3, 1)) && !d.After(day(2024, 7, 15))
		if inTerm {
			assert.Len(t, events, 1, d.Format(time.DateOnly))
		} else {
			assert.Empty(t, events, d.Format(time.DateOnly))
		}
	}
}

func TestEventsForDate_MilestoneUrgencyBoundaries(t *testing.T) {
	milestoneAt := time.Date(2024, 3, 18, 14, 30, 0, 0, time.UTC)
	s := subject.Subject{
		Id:         "algebra",
		Name:       "Algebra",
		Milestones: []subject.Milestone{{Id: "quiz", Title: "Quiz", Date: "2024-03-18", Time: "14:30"}},
	}
	sources := Sources{Subjects: []subject.Subject{s}}

	tests := []struct {
		name string
		now  time.Time
		want Priority
	}{
		{"exactly 48h before", milestoneAt.Add(-48 * time.Hour), PriorityHigh},
		{"48h01m before", milestoneAt.Add(-48*time.Hour - time.Minute), PriorityLow},
		{"at the milestone", milestoneAt, PriorityHigh},
		{"exactly 24h after", milestoneAt.Add(24 * time.Hour), PriorityHigh},
		{"24h01m after", milestoneAt.Add(24*time.Hour + time.Minute), PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := EventsForDate(day(2024, 3, 18), sources, tt.now)
			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0].Priority)
		})
	}
}

func TestEventsForDate_UntimedMilestoneUsesMidnight(t *testing.T) {
	sources := Sources{Subjects: []subject.Subject{algebra()}}
	midnight := day(2024, 3, 18)

	events := EventsForDate(midnight, sources, midnight.Add(24*time.Hour))
	assert.Equal(t, PriorityHigh, events[0].Priority)

	events = EventsForDate(midnight, sources, midnight.Add(24*time.Hour+time.Second))
	assert.Equal(t, PriorityLow, events[0].Priority)
}

func TestEventsForDate_DoesNotMutateSources(t *testing.T) {
	sources := busySources()
	snapshot := busySources()

	_ = EventsForDate(day(2024, 3, 18), sources, day(2024, 3, 17))

	assert.Equal(t, snapshot, sources)
}

func TestEngine_UsesClock(t *testing.T) {
	clock := utils.NewMockClock(time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC))
	engine := NewEngine(clock)
	sources := Sources{Subjects: []subject.Subject{algebra()}}

	assert.Equal(t, PriorityHigh, engine.EventsForDate(day(2024, 3, 18), sources)[0].Priority)

	clock.SetNow(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, PriorityLow, engine.EventsForDate(day(2024, 3, 18), sources)[0].Priority)
}

type strayOccurrence struct{}

func (strayOccurrence) occurrenceDate() time.Time { return time.Time{} }

func TestToEvent_PanicsOnUnknownOccurrence(t *testing.T) {
	assert.Panics(t, func() { toEvent(strayOccurrence{}, time.Now()) })
}

func TestIsUrgent(t *testing.T) {
	at := day(2024, 3, 18)
	assert.True(t, IsUrgent(at, at.Add(-48*time.Hour)))
	assert.False(t, IsUrgent(at, at.Add(-48*time.Hour-time.Nanosecond)))
	assert.True(t, IsUrgent(at, at.Add(24*time.Hour)))
	assert.False(t, IsUrgent(at, at.Add(24*time.Hour+time.Nanosecond)))
}
