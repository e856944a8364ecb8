package ics_export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/subject"
)

const (
	AppName   = "studianta"
	UIDDomain = "studianta"
	MimeType  = "text/calendar; charset=utf-8"

	timedEventDuration  = 2 * time.Hour
	localDateTimeFormat = "20060102T150405"
)

// Filename is the suggested download name, e.g. studianta-calendar-2024-03-18.ics.
func Filename(appName string, date time.Time) string {
	return fmt.Sprintf("%s-calendar-%s.ics", appName, date.Format(utils.DateLayout))
}

type entry struct {
	id          string
	summary     string
	description string
	date        string
	time        string
}

// Export renders milestones and custom events as an iCalendar document. Class schedules
// are not exported. Entries with unreadable dates are skipped.
func Export(subjects []subject.Subject, customEvents []custom_event.Event, now time.Time) string {
	cal := ical.NewCalendarFor(AppName)
	cal.SetMethod(ical.MethodPublish)
	cal.CalendarProperties = append(cal.CalendarProperties, ical.CalendarProperty{
		BaseProperty: ical.BaseProperty{IANAToken: "CALSCALE", Value: "GREGORIAN"},
	})

	stamp := now.UTC()
	for _, e := range entries(subjects, customEvents) {
		addEvent(cal, e, stamp)
	}
	return cal.Serialize(ical.WithNewLineWindows)
}

func entries(subjects []subject.Subject, customEvents []custom_event.Event) []entry {
	var result []entry
	for _, s := range subjects {
		for _, m := range s.Milestones {
			description := s.Name
			if m.Type != "" {
				description = m.Type + " - " + s.Name
			}
			result = append(result, entry{id: m.Id, summary: m.Title, description: description, date: m.Date, time: m.Time})
		}
	}
	for _, c := range customEvents {
		result = append(result, entry{id: c.Id, summary: c.Title, description: c.Description, date: c.Date, time: c.Time})
	}
	return result
}

func addEvent(cal *ical.Calendar, e entry, stamp time.Time) {
	date, err := utils.ParseDate(e.date, time.UTC)
	if err != nil {
		log.Debugf("skipping %s in calendar export: %v", e.id, err)
		return
	}

	event := cal.AddEvent(fmt.Sprintf("%s@%s", e.id, UIDDomain))
	event.SetDtStampTime(stamp)

	if start, ok := startTime(date, e.time); ok {
		event.SetProperty(ical.ComponentPropertyDtStart, start.Format(localDateTimeFormat))
		event.SetProperty(ical.ComponentPropertyDtEnd, start.Add(timedEventDuration).Format(localDateTimeFormat))
	} else {
		event.SetAllDayStartAt(date)
		event.SetAllDayEndAt(date.AddDate(0, 0, 1))
	}

	event.SetProperty(ical.ComponentPropertySummary, safeText(e.id, e.summary))
	if e.description != "" {
		event.SetProperty(ical.ComponentPropertyDescription, safeText(e.id, e.description))
	}
}

func startTime(date time.Time, clock string) (time.Time, bool) {
	if clock == "" {
		return time.Time{}, false
	}
	hour, minute, err := utils.ParseClock(clock)
	if err != nil {
		log.Debugf("exporting as all-day: %v", err)
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC), true
}

func safeText(id, s string) string {
	value, err := textValue(s)
	if err != nil {
		log.Warnf("calendar export of %s: %v, writing text unescaped", id, err)
		return fallbackText(s)
	}
	return value
}
