package subject

import "context"

type RepositoryStub struct {
	subjects map[int][]Subject
	Err      error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{subjects: map[int][]Subject{}}
}

func (s *RepositoryStub) Add(userId int, subjects ...Subject) {
	s.subjects[userId] = append(s.subjects[userId], subjects...)
}

func (s *RepositoryStub) GetSubjects(_ context.Context, userId int) ([]Subject, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.subjects[userId], nil
}

func (s *RepositoryStub) Cleanup() {
	s.subjects = map[int][]Subject{}
	s.Err = nil
}
