package google

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

type StoreStub struct {
	mu     sync.Mutex
	nonces map[string]int
	tokens map[int]*oauth2.Token
	links  map[int]map[string]string
	Err    error
}

func NewStoreStub() *StoreStub {
	return &StoreStub{
		nonces: map[string]int{},
		tokens: map[int]*oauth2.Token{},
		links:  map[int]map[string]string{},
	}
}

func (s *StoreStub) ReplaceNonce(_ context.Context, userId int, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for n, id := range s.nonces {
		if id == userId {
			delete(s.nonces, n)
		}
	}
	delete(s.tokens, userId)
	s.nonces[nonce] = userId
	return nil
}

func (s *StoreStub) SaveTokensByNonce(_ context.Context, nonce string, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	userId, ok := s.nonces[nonce]
	if !ok {
		return ErrUnknownNonce
	}
	delete(s.nonces, nonce)
	s.tokens[userId] = token
	return nil
}

func (s *StoreStub) SaveTokens(_ context.Context, userId int, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.tokens[userId] = token
	return nil
}

func (s *StoreStub) LoadTokens(_ context.Context, userId int) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.tokens[userId], nil
}

func (s *StoreStub) Delete(_ context.Context, userId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.tokens, userId)
	delete(s.links, userId)
	return nil
}

func (s *StoreStub) EventLinks(_ context.Context, userId int) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	links := map[string]string{}
	for k, v := range s.links[userId] {
		links[k] = v
	}
	return links, nil
}

func (s *StoreStub) SaveEventLink(_ context.Context, userId int, sourceId, googleEventId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.links[userId] == nil {
		s.links[userId] = map[string]string{}
	}
	s.links[userId][sourceId] = googleEventId
	return nil
}
