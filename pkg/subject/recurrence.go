package subject

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/studianta/studianta/internal/utils"
	"github.com/teambition/rrule-go"
)

var ErrUnknownWeekday = errors.New("unknown weekday")

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// RRule builds the weekly rule of the schedule entry, starting at the first class on
// or after from and ending with the term. from carries the location of the result.
func (s Schedule) RRule(term Term, from time.Time) (*rrule.RRule, error) {
	day, ok := ParseWeekday(s.Day)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWeekday, s.Day)
	}
	start := utils.DateOf(from)
	if !term.Start.IsZero() && utils.CompareDates(term.Start, start) > 0 {
		start = utils.DateOf(term.Start.In(from.Location()))
	}
	if s.StartTime != "" {
		hour, minute, err := utils.ParseClock(s.StartTime)
		if err != nil {
			return nil, err
		}
		start = time.Date(start.Year(), start.Month(), start.Day(), hour, minute, 0, 0, start.Location())
	}

	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   start,
		Byweekday: []rrule.Weekday{rruleWeekdays[day]},
	}
	if !term.End.IsZero() {
		end := utils.DateOf(term.End.In(from.Location()))
		opt.Until = end.AddDate(0, 0, 1).Add(-time.Second)
	}
	return rrule.NewRRule(opt)
}

// Occurrence is one concrete class of a subject.
type Occurrence struct {
	Index    int
	Schedule Schedule
	Start    time.Time
}

// ClassOccurrences expands every schedule entry of the subject over [from, to]
// (calendar dates, inclusive) and returns the classes in chronological order.
func (s Subject) ClassOccurrences(from, to time.Time) ([]Occurrence, error) {
	term, err := s.Term(from.Location())
	if err != nil {
		return nil, err
	}
	rangeEnd := utils.DateOf(to).AddDate(0, 0, 1).Add(-time.Second)

	var occurrences []Occurrence
	for i, schedule := range s.Schedules {
		rule, err := schedule.RRule(term, from)
		if err != nil {
			return nil, fmt.Errorf("subject %s schedule %d: %w", s.Id, i, err)
		}
		for _, start := range rule.Between(utils.DateOf(from), rangeEnd, true) {
			occurrences = append(occurrences, Occurrence{Index: i, Schedule: schedule, Start: start})
		}
	}
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Start.Before(occurrences[j].Start)
	})
	return occurrences, nil
}
