package custom_event

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/utils"
)

type Priority string

const (
	PriorityLow  Priority = "low"
	PriorityHigh Priority = "high"
)

func (p Priority) IsHigh() bool {
	return strings.EqualFold(strings.TrimSpace(string(p)), string(PriorityHigh))
}

// Event is a free-form calendar entry created by the user.
type Event struct {
	Id          string
	Title       string
	Description string
	Date        string
	Time        string
	Color       string
	Priority    Priority
}

func (e Event) OccursOn(date time.Time) bool {
	d, err := utils.ParseDate(e.Date, date.Location())
	if err != nil {
		log.Debugf("custom event %s: %v", e.Id, err)
		return false
	}
	return utils.SameDay(d, date)
}

// HasTime reports whether the event carries a readable time of day.
func (e Event) HasTime() bool {
	if e.Time == "" {
		return false
	}
	_, _, err := utils.ParseClock(e.Time)
	return err == nil
}

func On(events []Event, date time.Time) []Event {
	var result []Event
	for _, e := range events {
		if e.OccursOn(date) {
			result = append(result, e)
		}
	}
	return result
}
