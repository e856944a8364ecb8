package user

import "context"

type StubUserRepository struct {
	data map[int]User
}

func NewStubUserRepository(users ...User) *StubUserRepository {
	data := map[int]User{}
	for _, u := range users {
		data[u.Id] = u
	}
	return &StubUserRepository{data: data}
}

func (s *StubUserRepository) GetUser(_ context.Context, id int) (User, error) {
	u, ok := s.data[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *StubUserRepository) GetUserByUid(_ context.Context, uid string) (User, error) {
	for _, u := range s.data {
		if u.Uid == uid {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}
