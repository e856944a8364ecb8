package calendar_view

import (
	"time"

	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/convergence"
)

const (
	GridSize         = 42
	DaysInWeek       = 7
	MaxVisibleEvents = 3
)

// Cell is one day of the month grid. Events holds at most MaxVisibleEvents entries,
// the complete list is available through AllEvents.
type Cell struct {
	Date           time.Time
	Events         []convergence.Event
	Overflow       int
	IsOutsideMonth bool
	IsToday        bool
	all            []convergence.Event
}

func (c Cell) AllEvents() []convergence.Event {
	return c.all
}

type Column struct {
	Date    time.Time
	Events  []convergence.Event
	IsToday bool
}

// BuildMonthGrid lays out the month of anchor as six Monday-first weeks. Days of the
// neighbouring months fill the grid but carry no events.
func BuildMonthGrid(anchor time.Time, sources convergence.Sources, now time.Time) [GridSize]Cell {
	first := MonthStart(anchor)
	gridStart := utils.MondayOf(first)

	var grid [GridSize]Cell
	for i := range grid {
		d := gridStart.AddDate(0, 0, i)
		cell := Cell{
			Date:           d,
			IsOutsideMonth: d.Month() != first.Month() || d.Year() != first.Year(),
			IsToday:        isToday(d, now),
		}
		if !cell.IsOutsideMonth {
			cell.all = convergence.EventsForDate(d, sources, now)
			cell.Events = cell.all
			if len(cell.all) > MaxVisibleEvents {
				cell.Events = cell.all[:MaxVisibleEvents:MaxVisibleEvents]
				cell.Overflow = len(cell.all) - MaxVisibleEvents
			}
		}
		grid[i] = cell
	}
	return grid
}

// BuildWeekColumns returns the Monday-first week containing anchor.
func BuildWeekColumns(anchor time.Time, sources convergence.Sources, now time.Time) [DaysInWeek]Column {
	start := utils.MondayOf(anchor)
	var columns [DaysInWeek]Column
	for i := range columns {
		d := start.AddDate(0, 0, i)
		columns[i] = Column{
			Date:    d,
			Events:  convergence.EventsForDate(d, sources, now),
			IsToday: isToday(d, now),
		}
	}
	return columns
}

func BuildDayFocus(anchor time.Time, sources convergence.Sources, now time.Time) []convergence.Event {
	return convergence.EventsForDate(anchor, sources, now)
}

func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// NextMonth and PreviousMonth return the first day of the neighbouring month.
func NextMonth(anchor time.Time) time.Time {
	return time.Date(anchor.Year(), anchor.Month()+1, 1, 0, 0, 0, 0, anchor.Location())
}

func PreviousMonth(anchor time.Time) time.Time {
	return time.Date(anchor.Year(), anchor.Month()-1, 1, 0, 0, 0, 0, anchor.Location())
}

func NextWeek(anchor time.Time) time.Time {
	return utils.MondayOf(anchor).AddDate(0, 0, DaysInWeek)
}

func PreviousWeek(anchor time.Time) time.Time {
	return utils.MondayOf(anchor).AddDate(0, 0, -DaysInWeek)
}

func NextDay(anchor time.Time) time.Time {
	return utils.DateOf(anchor).AddDate(0, 0, 1)
}

func PreviousDay(anchor time.Time) time.Time {
	return utils.DateOf(anchor).AddDate(0, 0, -1)
}

func isToday(d, now time.Time) bool {
	return utils.SameDay(d, now.In(d.Location()))
}
