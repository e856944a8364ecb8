package transaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/studianta/studianta/internal/utils"
)

const DefaultSchedule = "@every 60s"

var ErrSchedulerStarted = errors.New("scheduler already started")

type materializer interface {
	Materialize(ctx context.Context, now time.Time) (MaterializeResult, error)
}

// Scheduler runs the materializer on a cron schedule. Cron only produces ticks; a
// single worker goroutine consumes them, so runs never overlap and ticks arriving
// during a run are dropped.
type Scheduler struct {
	materializer materializer
	clock        utils.Clock
	schedule     string

	mu      sync.Mutex
	cron    *cron.Cron
	ticks   chan time.Time
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

func NewScheduler(m materializer, clock utils.Clock, schedule string) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Scheduler{
		materializer: m,
		clock:        clock,
		schedule:     schedule,
		ticks:        make(chan time.Time),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSchedulerStarted
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.Trigger() }); err != nil {
		return fmt.Errorf("invalid materializer schedule %q: %w", s.schedule, err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	s.cron = c
	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true

	go s.work(workerCtx)
	c.Start()
	log.Infof("Recurring transaction materializer scheduled (%s)", s.schedule)
	return nil
}

// Trigger offers a tick to the worker and reports whether it was accepted.
func (s *Scheduler) Trigger() bool {
	select {
	case s.ticks <- s.clock.Now():
		return true
	default:
		log.Debug("materializer busy or stopped, dropping tick")
		return false
	}
}

func (s *Scheduler) work(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-s.ticks:
			result, err := s.materializer.Materialize(ctx, now)
			if err != nil {
				log.Errorf("recurring transaction materialization failed: %v", err)
				continue
			}
			log.Debugf("materialization finished: %d templates, %d skipped, %d inserted",
				result.Templates, result.Skipped, result.Inserted)
		}
	}
}

// Stop removes the cron entry, cancels an in-flight run and waits for the worker.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.cancel()
	<-s.done
	s.started = false
}
