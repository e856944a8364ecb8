package calendar_view

import (
	"context"
	"fmt"
	"time"

	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/convergence"
	"github.com/studianta/studianta/pkg/user"
)

type MonthView struct {
	Month    time.Time
	Previous time.Time
	Next     time.Time
	Cells    [GridSize]Cell
}

type WeekView struct {
	Start    time.Time
	Previous time.Time
	Next     time.Time
	Columns  [DaysInWeek]Column
}

type DayView struct {
	Date     time.Time
	Previous time.Time
	Next     time.Time
	Events   []convergence.Event
}

type Service interface {
	Month(ctx context.Context, anchor time.Time) (MonthView, error)
	Week(ctx context.Context, anchor time.Time) (WeekView, error)
	Day(ctx context.Context, anchor time.Time) (DayView, error)
}

type sourceLoader interface {
	Load(ctx context.Context, userId int) (convergence.Sources, error)
}

type ServiceImpl struct {
	loader sourceLoader
	engine *convergence.Engine
}

func NewService(loader sourceLoader, engine *convergence.Engine) *ServiceImpl {
	return &ServiceImpl{loader: loader, engine: engine}
}

func (s *ServiceImpl) sources(ctx context.Context) (convergence.Sources, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return convergence.Sources{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.loader.Load(ctx, userId)
}

func (s *ServiceImpl) Month(ctx context.Context, anchor time.Time) (MonthView, error) {
	sources, err := s.sources(ctx)
	if err != nil {
		return MonthView{}, err
	}
	return MonthView{
		Month:    MonthStart(anchor),
		Previous: PreviousMonth(anchor),
		Next:     NextMonth(anchor),
		Cells:    BuildMonthGrid(anchor, sources, s.engine.Now()),
	}, nil
}

func (s *ServiceImpl) Week(ctx context.Context, anchor time.Time) (WeekView, error) {
	sources, err := s.sources(ctx)
	if err != nil {
		return WeekView{}, err
	}
	columns := BuildWeekColumns(anchor, sources, s.engine.Now())
	return WeekView{
		Start:    columns[0].Date,
		Previous: PreviousWeek(anchor),
		Next:     NextWeek(anchor),
		Columns:  columns,
	}, nil
}

func (s *ServiceImpl) Day(ctx context.Context, anchor time.Time) (DayView, error) {
	sources, err := s.sources(ctx)
	if err != nil {
		return DayView{}, err
	}
	return DayView{
		Date:     utils.DateOf(anchor),
		Previous: PreviousDay(anchor),
		Next:     NextDay(anchor),
		Events:   s.engine.EventsForDate(anchor, sources),
	}, nil
}
