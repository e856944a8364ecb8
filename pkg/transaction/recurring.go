package transaction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/studianta/studianta/internal/utils"
	"github.com/teambition/rrule-go"
)

type Frequency string

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

var ErrUnknownFrequency = errors.New("unknown frequency")

// RecurringTransaction is a template repeated every Interval weeks or months from
// StartDate until EndDate (inclusive, empty for open-ended).
type RecurringTransaction struct {
	Id          string
	UserId      int
	StartDate   string
	EndDate     string
	Frequency   Frequency
	Interval    int
	Type        Type
	Category    string
	Amount      decimal.Decimal
	Description string
}

func (r RecurringTransaction) rule(loc *time.Location) (*rrule.RRule, error) {
	start, err := utils.ParseDate(r.StartDate, loc)
	if err != nil {
		return nil, fmt.Errorf("recurring transaction %s start: %w", r.Id, err)
	}
	opt := rrule.ROption{Dtstart: start, Interval: max(r.Interval, 1)}
	switch Frequency(strings.ToLower(string(r.Frequency))) {
	case Weekly:
		opt.Freq = rrule.WEEKLY
	case Monthly:
		opt.Freq = rrule.MONTHLY
	default:
		return nil, fmt.Errorf("recurring transaction %s: %w: %q", r.Id, ErrUnknownFrequency, r.Frequency)
	}
	if r.EndDate != "" {
		end, err := utils.ParseDate(r.EndDate, loc)
		if err != nil {
			return nil, fmt.Errorf("recurring transaction %s end: %w", r.Id, err)
		}
		opt.Until = end
	}
	return rrule.NewRRule(opt)
}

// Due returns the transactions the template produced up to and including the day of now.
// Ids are deterministic ({templateId}-{YYYYMMDD}) so storing them twice is harmless.
func (r RecurringTransaction) Due(now time.Time) ([]Transaction, error) {
	rule, err := r.rule(now.Location())
	if err != nil {
		return nil, err
	}
	var due []Transaction
	for _, occurrence := range rule.Between(time.Time{}, utils.DateOf(now), true) {
		due = append(due, Transaction{
			Id:          fmt.Sprintf("%s-%s", r.Id, occurrence.Format("20060102")),
			Date:        occurrence.Format(utils.DateLayout),
			Type:        r.Type,
			Category:    r.Category,
			Amount:      r.Amount,
			Description: r.Description,
			RecurringId: r.Id,
		})
	}
	return due, nil
}
