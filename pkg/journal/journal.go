package journal

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/utils"
)

type Mood string

const (
	Great    Mood = "great"
	Good     Mood = "good"
	Neutral  Mood = "neutral"
	Low      Mood = "low"
	Stressed Mood = "stressed"
)

type Entry struct {
	Id   string
	Date string
	// Mood is stored as free text; values outside the known set are kept as they are.
	Mood Mood
}

// Known returns the canonical mood and whether it is one of the known values.
func (m Mood) Known() (Mood, bool) {
	normalized := Mood(strings.ToLower(strings.TrimSpace(string(m))))
	switch normalized {
	case Great, Good, Neutral, Low, Stressed:
		return normalized, true
	}
	return m, false
}

func (e Entry) OccursOn(date time.Time) bool {
	d, err := utils.ParseDate(e.Date, date.Location())
	if err != nil {
		log.Debugf("journal entry %s: %v", e.Id, err)
		return false
	}
	return utils.SameDay(d, date)
}

func On(entries []Entry, date time.Time) []Entry {
	var result []Entry
	for _, e := range entries {
		if e.OccursOn(date) {
			result = append(result, e)
		}
	}
	return result
}
