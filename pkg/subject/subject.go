package subject

import (
	"fmt"
	"time"

	"github.com/studianta/studianta/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Subject struct {
	Id    string
	Name  string
	Color string
	// TermStart and TermEnd are YYYY-MM-DD strings; an empty value leaves that side unbounded.
	TermStart  string
	TermEnd    string
	Schedules  []Schedule
	Milestones []Milestone
}

type Schedule struct {
	Day       string
	StartTime string
	EndTime   string
}

type Milestone struct {
	Id    string
	Title string
	Date  string
	Time  string
	Type  string
}

// ScheduledClass is one schedule entry of a subject that takes place on a given date.
type ScheduledClass struct {
	Index    int
	Schedule Schedule
}

// Term is the inclusive date window of a subject. Zero bounds are unbounded.
type Term struct {
	Start time.Time
	End   time.Time
}

func (t Term) Contains(date time.Time) bool {
	if !t.Start.IsZero() && utils.CompareDates(date, t.Start) < 0 {
		return false
	}
	if !t.End.IsZero() && utils.CompareDates(date, t.End) > 0 {
		return false
	}
	return true
}

// Term parses the subject's term window in loc.
func (s Subject) Term(loc *time.Location) (Term, error) {
	var term Term
	if s.TermStart != "" {
		start, err := utils.ParseDate(s.TermStart, loc)
		if err != nil {
			return Term{}, fmt.Errorf("subject %s term start: %w", s.Id, err)
		}
		term.Start = start
	}
	if s.TermEnd != "" {
		end, err := utils.ParseDate(s.TermEnd, loc)
		if err != nil {
			return Term{}, fmt.Errorf("subject %s term end: %w", s.Id, err)
		}
		term.End = end
	}
	return term, nil
}

// OccursOn reports whether the schedule entry falls on the weekday of date.
// Unknown day names never match.
func (s Schedule) OccursOn(date time.Time) bool {
	day, ok := ParseWeekday(s.Day)
	return ok && day == date.Weekday()
}

// ClassesOn returns the schedule entries that produce a class on date,
// honouring the term window. A subject with a malformed term has no classes.
func (s Subject) ClassesOn(date time.Time) []ScheduledClass {
	if len(s.Schedules) == 0 {
		return nil
	}
	term, err := s.Term(date.Location())
	if err != nil {
		log.Debugf("skipping classes: %v", err)
		return nil
	}
	if !term.Contains(date) {
		return nil
	}
	var classes []ScheduledClass
	for i, schedule := range s.Schedules {
		if _, ok := ParseWeekday(schedule.Day); !ok {
			log.Debugf("subject %s schedule %d: unknown day %q", s.Id, i, schedule.Day)
			continue
		}
		if schedule.OccursOn(date) {
			classes = append(classes, ScheduledClass{Index: i, Schedule: schedule})
		}
	}
	return classes
}

// MilestonesOn returns the milestones dated on date, ignoring their time of day.
func (s Subject) MilestonesOn(date time.Time) []Milestone {
	var milestones []Milestone
	for _, m := range s.Milestones {
		d, err := utils.ParseDate(m.Date, date.Location())
		if err != nil {
			log.Debugf("subject %s milestone %s: %v", s.Id, m.Id, err)
			continue
		}
		if utils.SameDay(d, date) {
			milestones = append(milestones, m)
		}
	}
	return milestones
}

// At combines the milestone date with its optional time, midnight when the time is
// missing or unreadable.
func (m Milestone) At(loc *time.Location) (time.Time, error) {
	d, err := utils.ParseDate(m.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	if m.Time == "" {
		return d, nil
	}
	hour, minute, err := utils.ParseClock(m.Time)
	if err != nil {
		log.Debugf("milestone %s: %v, using midnight", m.Id, err)
		return d, nil
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// HasTime reports whether the milestone carries a readable time of day.
func (m Milestone) HasTime() bool {
	if m.Time == "" {
		return false
	}
	_, _, err := utils.ParseClock(m.Time)
	return err == nil
}
