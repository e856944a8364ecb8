package transaction

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/event_bus"
)

type MaterializeResult struct {
	Templates int
	Skipped   int
	Inserted  int
}

// Materializer turns due occurrences of recurring templates into stored transactions.
type Materializer struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewMaterializer(repo Repository, bus *event_bus.EventBus) *Materializer {
	return &Materializer{repo: repo, bus: bus}
}

// Materialize stores every occurrence due by now. Running it repeatedly is safe: already
// stored occurrences are skipped by the repository. Users that received new
// transactions are announced on the event bus.
func (m *Materializer) Materialize(ctx context.Context, now time.Time) (MaterializeResult, error) {
	templates, err := m.repo.GetRecurringTransactions(ctx)
	if err != nil {
		return MaterializeResult{}, fmt.Errorf("failed to load recurring transactions: %w", err)
	}

	result := MaterializeResult{Templates: len(templates)}
	due := map[int][]Transaction{}
	for _, template := range templates {
		transactions, err := template.Due(now)
		if err != nil {
			log.Debugf("skipping recurring transaction: %v", err)
			result.Skipped++
			continue
		}
		due[template.UserId] = append(due[template.UserId], transactions...)
	}

	userIds := make([]int, 0, len(due))
	for userId := range due {
		userIds = append(userIds, userId)
	}
	sort.Ints(userIds)

	for _, userId := range userIds {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		inserted, err := m.repo.StoreMaterialized(ctx, userId, due[userId])
		result.Inserted += inserted
		if err != nil {
			return result, fmt.Errorf("failed to store transactions of user %d: %w", userId, err)
		}
		if inserted == 0 {
			continue
		}
		log.Debugf("materialized %d transactions for user %d", inserted, userId)
		event := event_bus.NewEvent(ctx, event_bus.TransactionsMaterializedType,
			event_bus.TransactionsMaterialized{UserId: userId, Inserted: inserted})
		if err := m.bus.Publish(event); err != nil {
			log.Warnf("failed to publish materialization of user %d: %v", userId, err)
		}
	}
	return result, nil
}
