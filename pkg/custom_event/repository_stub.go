package custom_event

import "context"

type RepositoryStub struct {
	events map[int][]Event
	Err    error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{events: map[int][]Event{}}
}

func (s *RepositoryStub) Add(userId int, events ...Event) {
	s.events[userId] = append(s.events[userId], events...)
}

func (s *RepositoryStub) GetEvents(_ context.Context, userId int) ([]Event, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.events[userId], nil
}
