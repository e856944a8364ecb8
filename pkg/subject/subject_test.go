package subject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func algebra() Subject {
	return Subject{
		Id:        "algebra",
		Name:      "Algebra",
		TermStart: "2024-03-01",
		TermEnd:   "2024-07-15",
		Schedules: []Schedule{{Day: "Monday", StartTime: "10:00", EndTime: "12:00"}},
	}
}

func TestSubject_ClassesOn_TermBounded(t *testing.T) {
	s := algebra()

	// every Monday inside the term has exactly one class
	for d := date(2024, 3, 4); !d.After(date(2024, 7, 15)); d = d.AddDate(0, 0, 7) {
		assert.Len(t, s.ClassesOn(d), 1, d.Format(time.DateOnly))
	}
	// Mondays around the term have none
	for _, d := range []time.Time{date(2024, 2, 26), date(2024, 7, 22), date(2023, 3, 4)} {
		assert.Empty(t, s.ClassesOn(d), d.Format(time.DateOnly))
	}
	// other weekdays inside the term have none
	assert.Empty(t, s.ClassesOn(date(2024, 3, 5)))
}

func TestSubject_ClassesOn_InclusiveBoundsWithTimePart(t *testing.T) {
	s := Subject{
		Id:        "physics",
		TermStart: "2024-03-04T09:00:00Z",
		TermEnd:   "2024-03-11 18:00",
		Schedules: []Schedule{{Day: "lunes", StartTime: "08:00"}},
	}

	assert.Len(t, s.ClassesOn(date(2024, 3, 4)), 1)
	assert.Len(t, s.ClassesOn(date(2024, 3, 11)), 1)
	assert.Empty(t, s.ClassesOn(date(2024, 3, 18)))
}

func TestSubject_ClassesOn_UnboundedTerm(t *testing.T) {
	s := Subject{Id: "x", Schedules: []Schedule{{Day: "Friday"}}}

	assert.Len(t, s.ClassesOn(date(1999, 12, 31)), 1)
	assert.Len(t, s.ClassesOn(date(2100, 1, 1)), 1)
}

func TestSubject_ClassesOn_MalformedRecords(t *testing.T) {
	t.Run("malformed term excludes the subject", func(t *testing.T) {
		s := algebra()
		s.TermEnd = "someday"
		assert.Empty(t, s.ClassesOn(date(2024, 3, 4)))
	})

	t.Run("unknown day is skipped but keeps the index of the others", func(t *testing.T) {
		s := Subject{
			Id: "x",
			Schedules: []Schedule{
				{Day: "Funday", StartTime: "09:00"},
				{Day: "Monday", StartTime: "10:00"},
				{Day: "Monday", StartTime: "14:00"},
			},
		}
		classes := s.ClassesOn(date(2024, 3, 4))
		require.Len(t, classes, 2)
		assert.Equal(t, 1, classes[0].Index)
		assert.Equal(t, 2, classes[1].Index)
	})
}

func TestSubject_MilestonesOn(t *testing.T) {
	s := Subject{
		Id: "algebra",
		Milestones: []Milestone{
			{Id: "m1", Title: "Midterm", Date: "2024-03-18"},
			{Id: "m2", Title: "Quiz", Date: "2024-03-18T14:30:00", Time: "14:30"},
			{Id: "m3", Title: "Final", Date: "2024-06-01"},
			{Id: "m4", Title: "Broken", Date: "18/03/2024"},
		},
	}

	got := s.MilestonesOn(date(2024, 3, 18))

	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].Id)
	assert.Equal(t, "m2", got[1].Id)
}

func TestMilestone_At(t *testing.T) {
	at, err := Milestone{Date: "2024-03-18", Time: "14:30"}.At(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 18, 14, 30, 0, 0, time.UTC), at)

	at, err = Milestone{Date: "2024-03-18"}.At(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 18), at)

	at, err = Milestone{Date: "2024-03-18", Time: "later"}.At(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 18), at)

	_, err = Milestone{Date: "nope"}.At(time.UTC)
	assert.Error(t, err)
}

func TestSubject_ClassOccurrences(t *testing.T) {
	s := algebra()
	s.Schedules = append(s.Schedules, Schedule{Day: "Miércoles", StartTime: "08:30", EndTime: "10:00"})

	occurrences, err := s.ClassOccurrences(date(2024, 2, 26), date(2024, 3, 10))

	require.NoError(t, err)
	require.Len(t, occurrences, 2)
	assert.Equal(t, time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), occurrences[0].Start)
	assert.Equal(t, 0, occurrences[0].Index)
	assert.Equal(t, time.Date(2024, 3, 6, 8, 30, 0, 0, time.UTC), occurrences[1].Start)
	assert.Equal(t, 1, occurrences[1].Index)
}

func TestSubject_ClassOccurrences_StopsAtTermEnd(t *testing.T) {
	s := algebra()

	occurrences, err := s.ClassOccurrences(date(2024, 7, 1), date(2024, 8, 1))

	require.NoError(t, err)
	require.Len(t, occurrences, 3)
	assert.Equal(t, date(2024, 7, 15).Add(10*time.Hour), occurrences[2].Start)
}

func TestSubject_ClassOccurrences_MatchesClassesOn(t *testing.T) {
	s := algebra()
	from, to := date(2024, 1, 1), date(2024, 12, 31)

	occurrences, err := s.ClassOccurrences(from, to)
	require.NoError(t, err)

	expected := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		expected += len(s.ClassesOn(d))
	}
	assert.Equal(t, expected, len(occurrences))
}

func TestSchedule_RRule(t *testing.T) {
	term, err := algebra().Term(time.UTC)
	require.NoError(t, err)

	rule, err := Schedule{Day: "Monday", StartTime: "10:00"}.RRule(term, date(2024, 1, 1))
	require.NoError(t, err)

	rruleString := rule.OrigOptions.RRuleString()
	assert.Contains(t, rruleString, "FREQ=WEEKLY")
	assert.Contains(t, rruleString, "BYDAY=MO")
	assert.Contains(t, rruleString, "UNTIL=20240715T235959Z")

	first := rule.After(date(2024, 1, 1), true)
	assert.Equal(t, time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), first)

	_, err = Schedule{Day: "Someday"}.RRule(term, date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrUnknownWeekday)
}
