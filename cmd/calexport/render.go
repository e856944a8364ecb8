package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/calendar_view"
	"github.com/studianta/studianta/pkg/convergence"
)

func renderMonth(w io.Writer, anchor time.Time, cells [calendar_view.GridSize]calendar_view.Cell) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", calendar_view.MonthStart(anchor).Format("January 2006"))
	for _, cell := range cells {
		if len(cell.AllEvents()) == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s%s\n", dayLabel(cell.Date, cell.IsToday), outsideMark(cell.IsOutsideMonth))
		for _, e := range cell.Events {
			writeEvent(tw, e)
		}
		if cell.Overflow > 0 {
			fmt.Fprintf(tw, "\t+%d more\n", cell.Overflow)
		}
	}
	return tw.Flush()
}

func renderWeek(w io.Writer, columns [calendar_view.DaysInWeek]calendar_view.Column) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, column := range columns {
		fmt.Fprintf(tw, "%s\n", dayLabel(column.Date, column.IsToday))
		for _, e := range column.Events {
			writeEvent(tw, e)
		}
	}
	return tw.Flush()
}

func renderDay(w io.Writer, anchor time.Time, events []convergence.Event) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", anchor.Format("Monday, 2 January 2006"))
	if len(events) == 0 {
		fmt.Fprintln(tw, "\tnothing planned")
	}
	for _, e := range events {
		writeEvent(tw, e)
	}
	return tw.Flush()
}

func writeEvent(w io.Writer, e convergence.Event) {
	when := e.Time
	if e.IsAllDay() {
		when = "all day"
	}
	title := e.Title
	if e.MoodGlyph != "" {
		title = e.MoodGlyph + " " + title
	}
	var details []string
	if e.Subtitle != "" {
		details = append(details, e.Subtitle)
	}
	if e.Amount.Valid {
		details = append(details, e.Amount.Decimal.StringFixed(2))
	}
	if e.Priority == convergence.PriorityHigh {
		details = append(details, "!")
	}
	fmt.Fprintf(w, "\t%s\t%s\t%s\t%s\n", when, e.Kind, title, strings.Join(details, " · "))
}

func dayLabel(date time.Time, today bool) string {
	label := date.Format(utils.DateLayout + " Mon")
	if today {
		label += " (today)"
	}
	return label
}

func outsideMark(outside bool) string {
	if outside {
		return " ·"
	}
	return ""
}
