package journal

import "context"

type RepositoryStub struct {
	entries map[int][]Entry
	Err     error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{entries: map[int][]Entry{}}
}

func (s *RepositoryStub) Add(userId int, entries ...Entry) {
	s.entries[userId] = append(s.entries[userId], entries...)
}

func (s *RepositoryStub) GetEntries(_ context.Context, userId int) ([]Entry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.entries[userId], nil
}
