package transaction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/utils"
)

type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// IsIncome matches the stored type case-insensitively; anything that is not
// income is treated as an expense.
func (t Type) IsIncome() bool {
	return strings.EqualFold(strings.TrimSpace(string(t)), string(Income))
}

type Transaction struct {
	Id          string
	Date        string
	Type        Type
	Category    string
	Amount      decimal.Decimal
	Description string
	// RecurringId is set on transactions produced from a RecurringTransaction.
	RecurringId string
}

// OccursOn reports whether the transaction is dated on date. Unreadable dates never match.
func (t Transaction) OccursOn(date time.Time) bool {
	d, err := utils.ParseDate(t.Date, date.Location())
	if err != nil {
		log.Debugf("transaction %s: %v", t.Id, err)
		return false
	}
	return utils.SameDay(d, date)
}

// On filters transactions to the ones dated on date, keeping their order.
func On(transactions []Transaction, date time.Time) []Transaction {
	var result []Transaction
	for _, t := range transactions {
		if t.OccursOn(date) {
			result = append(result, t)
		}
	}
	return result
}
