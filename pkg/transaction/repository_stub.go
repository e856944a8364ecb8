package transaction

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu           sync.Mutex
	transactions map[int][]Transaction
	templates    []RecurringTransaction
	Err          error
	storeCalls   int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{transactions: map[int][]Transaction{}}
}

func (s *RepositoryStub) Add(userId int, transactions ...Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[userId] = append(s.transactions[userId], transactions...)
}

func (s *RepositoryStub) AddRecurring(templates ...RecurringTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = append(s.templates, templates...)
}

func (s *RepositoryStub) GetTransactions(_ context.Context, userId int) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]Transaction(nil), s.transactions[userId]...), nil
}

func (s *RepositoryStub) GetRecurringTransactions(_ context.Context) ([]RecurringTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]RecurringTransaction(nil), s.templates...), nil
}

func (s *RepositoryStub) StoreMaterialized(_ context.Context, userId int, transactions []Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeCalls++
	if s.Err != nil {
		return 0, s.Err
	}
	existing := map[string]bool{}
	for _, t := range s.transactions[userId] {
		existing[t.Id] = true
	}
	inserted := 0
	for _, t := range transactions {
		if existing[t.Id] {
			continue
		}
		existing[t.Id] = true
		s.transactions[userId] = append(s.transactions[userId], t)
		inserted++
	}
	return inserted, nil
}

func (s *RepositoryStub) StoreCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeCalls
}
