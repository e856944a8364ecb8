package calendar_sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/subject"
	"github.com/studianta/studianta/pkg/user"
)

const DefaultTimeout = 60 * time.Second

type Service interface {
	IsConnected(ctx context.Context) (bool, error)
	AuthURL(ctx context.Context, finalUrl string) (string, error)
	HandleCallback(ctx context.Context, code, state string) (string, error)
	Disconnect(ctx context.Context) error
	Sync(ctx context.Context) (Result, error)
}

type ServiceImpl struct {
	bridge       Bridge
	subjects     subject.Repository
	customEvents custom_event.Repository
	timeout      time.Duration

	mu       sync.Mutex
	inFlight map[int]struct{}
}

func NewService(bridge Bridge, subjects subject.Repository, customEvents custom_event.Repository, timeout time.Duration) *ServiceImpl {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ServiceImpl{
		bridge:       bridge,
		subjects:     subjects,
		customEvents: customEvents,
		timeout:      timeout,
		inFlight:     map[int]struct{}{},
	}
}

func (s *ServiceImpl) IsConnected(ctx context.Context) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.bridge.IsConnected(ctx, userId)
}

func (s *ServiceImpl) AuthURL(ctx context.Context, finalUrl string) (string, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return s.bridge.AuthURL(ctx, userId, finalUrl)
}

func (s *ServiceImpl) HandleCallback(ctx context.Context, code, state string) (string, error) {
	return s.bridge.HandleCallback(ctx, code, state)
}

func (s *ServiceImpl) Disconnect(ctx context.Context) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	return s.bridge.Disconnect(ctx, userId)
}

// Sync pushes the milestones, custom events and class schedules of the current user.
// Only one sync per user runs at a time; a concurrent call fails with ErrSyncInProgress.
func (s *ServiceImpl) Sync(ctx context.Context) (Result, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !s.acquire(userId) {
		return Result{}, ErrSyncInProgress
	}
	defer s.release(userId)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	subjects, err := s.subjects.GetSubjects(ctx, userId)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load subjects: %w", err)
	}
	customEvents, err := s.customEvents.GetEvents(ctx, userId)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load custom events: %w", err)
	}

	started := time.Now()
	result, err := s.bridge.SyncEvents(ctx, userId, subjects, customEvents)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return result, err
	}
	log.Infof("calendar sync for user %d: %d created, %d updated, %d failed in %s",
		userId, result.Created, result.Updated, len(result.Errors), time.Since(started))
	return result, nil
}

func (s *ServiceImpl) acquire(userId int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[userId]; busy {
		return false
	}
	s.inFlight[userId] = struct{}{}
	return true
}

func (s *ServiceImpl) release(userId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userId)
}
