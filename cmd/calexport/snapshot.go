package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/pkg/convergence"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/journal"
	"github.com/studianta/studianta/pkg/subject"
	"github.com/studianta/studianta/pkg/transaction"
	"gopkg.in/yaml.v3"
)

// snapshot is the YAML export of one student's data.
type snapshot struct {
	Subjects     []subjectYAML     `yaml:"subjects"`
	Transactions []transactionYAML `yaml:"transactions"`
	Recurring    []recurringYAML   `yaml:"recurring"`
	Journal      []journalYAML     `yaml:"journal"`
	CustomEvents []customEventYAML `yaml:"customEvents"`
}

type subjectYAML struct {
	Id         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	Color      string          `yaml:"color"`
	TermStart  string          `yaml:"termStart"`
	TermEnd    string          `yaml:"termEnd"`
	Schedules  []scheduleYAML  `yaml:"schedules"`
	Milestones []milestoneYAML `yaml:"milestones"`
}

type scheduleYAML struct {
	Day       string `yaml:"day"`
	StartTime string `yaml:"startTime"`
	EndTime   string `yaml:"endTime"`
}

type milestoneYAML struct {
	Id    string `yaml:"id"`
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
	Time  string `yaml:"time"`
	Type  string `yaml:"type"`
}

type transactionYAML struct {
	Id          string `yaml:"id"`
	Date        string `yaml:"date"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"`
	Amount      string `yaml:"amount"`
	Description string `yaml:"description"`
}

type recurringYAML struct {
	Id          string `yaml:"id"`
	StartDate   string `yaml:"startDate"`
	EndDate     string `yaml:"endDate"`
	Frequency   string `yaml:"frequency"`
	Interval    int    `yaml:"interval"`
	Type        string `yaml:"type"`
	Category    string `yaml:"category"`
	Amount      string `yaml:"amount"`
	Description string `yaml:"description"`
}

type journalYAML struct {
	Id   string `yaml:"id"`
	Date string `yaml:"date"`
	Mood string `yaml:"mood"`
}

type customEventYAML struct {
	Id          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Time        string `yaml:"time"`
	Color       string `yaml:"color"`
	Priority    string `yaml:"priority"`
}

func loadSnapshot(path string) (snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var s snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return snapshot{}, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return s, nil
}

// sources converts the snapshot into engine input. Recurring transactions are expanded
// up to now, the same way the server materializes them.
func (s snapshot) sources(now time.Time) (convergence.Sources, error) {
	var sources convergence.Sources
	for _, sub := range s.Subjects {
		converted := subject.Subject{Id: sub.Id, Name: sub.Name, Color: sub.Color, TermStart: sub.TermStart, TermEnd: sub.TermEnd}
		for _, sch := range sub.Schedules {
			converted.Schedules = append(converted.Schedules, subject.Schedule(sch))
		}
		for _, m := range sub.Milestones {
			converted.Milestones = append(converted.Milestones, subject.Milestone(m))
		}
		sources.Subjects = append(sources.Subjects, converted)
	}

	for _, t := range s.Transactions {
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return convergence.Sources{}, fmt.Errorf("transaction %s amount %q: %w", t.Id, t.Amount, err)
		}
		sources.Transactions = append(sources.Transactions, transaction.Transaction{
			Id: t.Id, Date: t.Date, Type: transaction.Type(t.Type), Category: t.Category, Amount: amount, Description: t.Description,
		})
	}
	for _, r := range s.Recurring {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return convergence.Sources{}, fmt.Errorf("recurring transaction %s amount %q: %w", r.Id, r.Amount, err)
		}
		template := transaction.RecurringTransaction{
			Id: r.Id, StartDate: r.StartDate, EndDate: r.EndDate, Frequency: transaction.Frequency(r.Frequency),
			Interval: r.Interval, Type: transaction.Type(r.Type), Category: r.Category, Amount: amount, Description: r.Description,
		}
		due, err := template.Due(now)
		if err != nil {
			log.Warnf("skipping recurring transaction %s: %v", r.Id, err)
			continue
		}
		sources.Transactions = append(sources.Transactions, due...)
	}

	for _, j := range s.Journal {
		sources.Journal = append(sources.Journal, journal.Entry{Id: j.Id, Date: j.Date, Mood: journal.Mood(j.Mood)})
	}
	for _, c := range s.CustomEvents {
		sources.Custom = append(sources.Custom, custom_event.Event{
			Id: c.Id, Title: c.Title, Description: c.Description, Date: c.Date, Time: c.Time,
			Color: c.Color, Priority: custom_event.Priority(c.Priority),
		})
	}
	return sources, nil
}
