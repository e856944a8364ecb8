package transaction

import (
	"context"
	"sync"
	"time"

	"github.com/studianta/studianta/internal/event_bus"
	"github.com/studianta/studianta/internal/utils"
)

type snapshot struct {
	transactions []Transaction
	loadedAt     time.Time
}

// SnapshotStore reuses the last loaded transaction list per user for at most ttl.
// A materialization for the user drops the list right away. A ttl <= 0 reads the
// repository on every call.
type SnapshotStore struct {
	repo        Repository
	clock       utils.Clock
	ttl         time.Duration
	mu          sync.Mutex
	snapshots   map[int]snapshot
	unsubscribe func()
}

func NewSnapshotStore(repo Repository, bus *event_bus.EventBus, clock utils.Clock, ttl time.Duration) *SnapshotStore {
	s := &SnapshotStore{repo: repo, clock: clock, ttl: ttl, snapshots: map[int]snapshot{}}
	s.unsubscribe = event_bus.SubscribeTyped(bus, event_bus.TransactionsMaterializedType,
		func(e event_bus.EventT[event_bus.TransactionsMaterialized]) error {
			s.Invalidate(e.Data.UserId)
			return nil
		})
	return s
}

func (s *SnapshotStore) GetTransactions(ctx context.Context, userId int) ([]Transaction, error) {
	if s.ttl <= 0 {
		return s.repo.GetTransactions(ctx, userId)
	}

	now := s.clock.Now()
	s.mu.Lock()
	cached, ok := s.snapshots[userId]
	s.mu.Unlock()
	if ok && now.Sub(cached.loadedAt) < s.ttl {
		return cached.transactions, nil
	}

	transactions, err := s.repo.GetTransactions(ctx, userId)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.snapshots[userId] = snapshot{transactions: transactions, loadedAt: now}
	s.mu.Unlock()
	return transactions, nil
}

func (s *SnapshotStore) Invalidate(userId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userId)
}

// Close stops listening for materialization events.
func (s *SnapshotStore) Close() {
	s.unsubscribe()
}
