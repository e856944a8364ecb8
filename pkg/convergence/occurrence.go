package convergence

import (
	"time"

	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/journal"
	"github.com/studianta/studianta/pkg/subject"
	"github.com/studianta/studianta/pkg/transaction"
)

// Occurrence is one source record taking place on a date. The set of
// implementations is closed; toEvent handles every one of them.
type Occurrence interface {
	occurrenceDate() time.Time
}

type ClassOccurrence struct {
	Date    time.Time
	Subject subject.Subject
	Class   subject.ScheduledClass
}

type MilestoneOccurrence struct {
	Date      time.Time
	Subject   subject.Subject
	Milestone subject.Milestone
}

type TransactionOccurrence struct {
	Date        time.Time
	Transaction transaction.Transaction
}

type MoodOccurrence struct {
	Date  time.Time
	Entry journal.Entry
}

type CustomOccurrence struct {
	Date  time.Time
	Event custom_event.Event
}

func (o ClassOccurrence) occurrenceDate() time.Time       { return o.Date }
func (o MilestoneOccurrence) occurrenceDate() time.Time   { return o.Date }
func (o TransactionOccurrence) occurrenceDate() time.Time { return o.Date }
func (o MoodOccurrence) occurrenceDate() time.Time        { return o.Date }
func (o CustomOccurrence) occurrenceDate() time.Time      { return o.Date }

// Occurrences collects what takes place on date, grouped by source in a fixed order:
// classes, milestones, transactions, moods, custom events.
func Occurrences(date time.Time, sources Sources) []Occurrence {
	var occurrences []Occurrence
	for _, s := range sources.Subjects {
		for _, class := range s.ClassesOn(date) {
			occurrences = append(occurrences, ClassOccurrence{Date: date, Subject: s, Class: class})
		}
	}
	for _, s := range sources.Subjects {
		for _, m := range s.MilestonesOn(date) {
			occurrences = append(occurrences, MilestoneOccurrence{Date: date, Subject: s, Milestone: m})
		}
	}
	for _, t := range transaction.On(sources.Transactions, date) {
		occurrences = append(occurrences, TransactionOccurrence{Date: date, Transaction: t})
	}
	for _, e := range journal.On(sources.Journal, date) {
		occurrences = append(occurrences, MoodOccurrence{Date: date, Entry: e})
	}
	for _, e := range custom_event.On(sources.Custom, date) {
		occurrences = append(occurrences, CustomOccurrence{Date: date, Event: e})
	}
	return occurrences
}
