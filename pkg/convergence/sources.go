package convergence

import (
	"context"
	"fmt"

	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/journal"
	"github.com/studianta/studianta/pkg/subject"
	"github.com/studianta/studianta/pkg/transaction"
)

// Sources is a read-only snapshot of every domain feeding the calendar.
type Sources struct {
	Subjects     []subject.Subject
	Transactions []transaction.Transaction
	Journal      []journal.Entry
	Custom       []custom_event.Event
}

type transactionSource interface {
	GetTransactions(ctx context.Context, userId int) ([]transaction.Transaction, error)
}

// Loader reads the snapshot of one user from the source repositories.
type Loader struct {
	subjects     subject.Repository
	transactions transactionSource
	journal      journal.Repository
	custom       custom_event.Repository
}

func NewLoader(
	subjects subject.Repository,
	transactions transactionSource,
	journal journal.Repository,
	custom custom_event.Repository,
) *Loader {
	return &Loader{subjects: subjects, transactions: transactions, journal: journal, custom: custom}
}

func (l *Loader) Load(ctx context.Context, userId int) (Sources, error) {
	var sources Sources
	var err error
	if sources.Subjects, err = l.subjects.GetSubjects(ctx, userId); err != nil {
		return Sources{}, fmt.Errorf("failed to load subjects: %w", err)
	}
	if sources.Transactions, err = l.transactions.GetTransactions(ctx, userId); err != nil {
		return Sources{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	if sources.Journal, err = l.journal.GetEntries(ctx, userId); err != nil {
		return Sources{}, fmt.Errorf("failed to load journal entries: %w", err)
	}
	if sources.Custom, err = l.custom.GetEvents(ctx, userId); err != nil {
		return Sources{}, fmt.Errorf("failed to load custom events: %w", err)
	}
	return sources, nil
}
