package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/subject"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	timedEventDuration = 2 * time.Hour
	localDateTime      = "2006-01-02T15:04:05"
)

// EventsAPI is the part of the Calendar API the bridge writes through.
type EventsAPI interface {
	Insert(ctx context.Context, calendarId string, event *gcal.Event) (*gcal.Event, error)
	Update(ctx context.Context, calendarId, eventId string, event *gcal.Event) (*gcal.Event, error)
}

type EventsAPIFactory func(ctx context.Context, client *http.Client) (EventsAPI, error)

type calendarEvents struct {
	service *gcal.Service
}

// NewEventsAPI builds the Calendar API client on top of an authorized HTTP client.
func NewEventsAPI(ctx context.Context, client *http.Client) (EventsAPI, error) {
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar client: %w", err)
	}
	return &calendarEvents{service: service}, nil
}

func (c *calendarEvents) Insert(ctx context.Context, calendarId string, event *gcal.Event) (*gcal.Event, error) {
	return c.service.Events.Insert(calendarId, event).Context(ctx).Do()
}

func (c *calendarEvents) Update(ctx context.Context, calendarId, eventId string, event *gcal.Event) (*gcal.Event, error) {
	return c.service.Events.Update(calendarId, eventId, event).Context(ctx).Do()
}

// pushEvent is one local record together with the Google payload that mirrors it.
type pushEvent struct {
	sourceId string
	event    *gcal.Event
}

// pushEvents converts milestones, custom events and class schedules into Google events.
// Records that cannot be represented are skipped.
func pushEvents(subjects []subject.Subject, customEvents []custom_event.Event, timeZone string) []pushEvent {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		log.Warnf("unknown timezone %q, using UTC: %v", timeZone, err)
		loc, timeZone = time.UTC, "UTC"
	}

	var events []pushEvent
	for _, s := range subjects {
		for i, schedule := range s.Schedules {
			event, err := classEvent(s, schedule, loc, timeZone)
			if err != nil {
				log.Debugf("skipping schedule %d of subject %s: %v", i, s.Id, err)
				continue
			}
			events = append(events, pushEvent{sourceId: fmt.Sprintf("class-%s-%d", s.Id, i), event: event})
		}
		for _, m := range s.Milestones {
			description := s.Name
			if m.Type != "" {
				description = m.Type + " - " + s.Name
			}
			event, err := datedEvent(m.Title, description, m.Date, m.Time, timeZone)
			if err != nil {
				log.Debugf("skipping milestone %s: %v", m.Id, err)
				continue
			}
			events = append(events, pushEvent{sourceId: "milestone-" + m.Id, event: event})
		}
	}
	for _, c := range customEvents {
		event, err := datedEvent(c.Title, c.Description, c.Date, c.Time, timeZone)
		if err != nil {
			log.Debugf("skipping custom event %s: %v", c.Id, err)
			continue
		}
		events = append(events, pushEvent{sourceId: "custom-" + c.Id, event: event})
	}
	return events
}

func datedEvent(summary, description, date, clock, timeZone string) (*gcal.Event, error) {
	day, err := utils.ParseDate(date, time.UTC)
	if err != nil {
		return nil, err
	}
	event := &gcal.Event{Summary: summary, Description: description}
	if clock != "" {
		if hour, minute, err := utils.ParseClock(clock); err == nil {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
			event.Start = &gcal.EventDateTime{DateTime: start.Format(localDateTime), TimeZone: timeZone}
			event.End = &gcal.EventDateTime{DateTime: start.Add(timedEventDuration).Format(localDateTime), TimeZone: timeZone}
			return event, nil
		}
	}
	event.Start = &gcal.EventDateTime{Date: day.Format(utils.DateLayout)}
	event.End = &gcal.EventDateTime{Date: day.AddDate(0, 0, 1).Format(utils.DateLayout)}
	return event, nil
}

// classEvent is a weekly recurring event running from the first class of the term to its end.
func classEvent(s subject.Subject, schedule subject.Schedule, loc *time.Location, timeZone string) (*gcal.Event, error) {
	term, err := s.Term(loc)
	if err != nil {
		return nil, err
	}
	if schedule.StartTime == "" {
		return nil, fmt.Errorf("schedule without start time")
	}
	from := term.Start
	if from.IsZero() {
		from = utils.DateOf(time.Now().In(loc))
	}
	rule, err := schedule.RRule(term, from)
	if err != nil {
		return nil, err
	}
	first := rule.After(from, true)
	if first.IsZero() {
		return nil, fmt.Errorf("no class within the term")
	}
	end := first.Add(time.Hour)
	if schedule.EndTime != "" {
		hour, minute, err := utils.ParseClock(schedule.EndTime)
		if err != nil {
			return nil, err
		}
		end = time.Date(first.Year(), first.Month(), first.Day(), hour, minute, 0, 0, loc)
	}

	return &gcal.Event{
		Summary:    s.Name,
		Start:      &gcal.EventDateTime{DateTime: first.Format(localDateTime), TimeZone: timeZone},
		End:        &gcal.EventDateTime{DateTime: end.Format(localDateTime), TimeZone: timeZone},
		Recurrence: []string{"RRULE:" + rule.OrigOptions.RRuleString()},
	}, nil
}
