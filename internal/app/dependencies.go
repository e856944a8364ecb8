package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/studianta/studianta/internal/config"
	"github.com/studianta/studianta/internal/event_bus"
	"github.com/studianta/studianta/internal/utils"
	"github.com/studianta/studianta/pkg/calendar_sync"
	"github.com/studianta/studianta/pkg/calendar_view"
	"github.com/studianta/studianta/pkg/convergence"
	"github.com/studianta/studianta/pkg/custom_event"
	"github.com/studianta/studianta/pkg/google"
	"github.com/studianta/studianta/pkg/ics_export"
	"github.com/studianta/studianta/pkg/journal"
	"github.com/studianta/studianta/pkg/subject"
	"github.com/studianta/studianta/pkg/transaction"
	"github.com/studianta/studianta/pkg/user"
)

// Repositories are the storage backends of the application.
type Repositories struct {
	Users        user.Repo
	Subjects     subject.Repository
	Transactions transaction.Repository
	Journal      journal.Repository
	CustomEvents custom_event.Repository
	GoogleStore  google.Store
}

func PostgresRepositories(db *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        user.NewUserRepo(db),
		Subjects:     subject.NewRepository(db),
		Transactions: transaction.NewRepository(db),
		Journal:      journal.NewRepository(db),
		CustomEvents: custom_event.NewRepository(db),
		GoogleStore:  google.NewPgStore(db),
	}
}

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	TransactionSnapshots *transaction.SnapshotStore
	Materializer         *transaction.Materializer
	Scheduler            *transaction.Scheduler

	Engine              *convergence.Engine
	Loader              *convergence.Loader
	CalendarViewService calendar_view.Service
	CalendarViewHandler *calendar_view.Handler

	IcsHandler *ics_export.Handler

	GoogleBridge *google.Bridge
	SyncService  calendar_sync.Service
	SyncHandler  *calendar_sync.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(repos Repositories, cfg config.Application, clock utils.Clock, eventsAPI google.EventsAPIFactory) *Dependencies {
	deps := &Dependencies{Clock: clock}
	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(repos.Users)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.TransactionSnapshots = transaction.NewSnapshotStore(repos.Transactions, deps.EventBus, clock, cfg.Materializer.SnapshotTTL)
	deps.Materializer = transaction.NewMaterializer(repos.Transactions, deps.EventBus)
	deps.Scheduler = transaction.NewScheduler(deps.Materializer, clock, cfg.Materializer.Schedule)

	deps.Engine = convergence.NewEngine(clock)
	deps.Loader = convergence.NewLoader(repos.Subjects, deps.TransactionSnapshots, repos.Journal, repos.CustomEvents)
	deps.CalendarViewService = calendar_view.NewService(deps.Loader, deps.Engine)
	deps.CalendarViewHandler = calendar_view.NewHandler(deps.CalendarViewService, clock)

	deps.IcsHandler = ics_export.NewHandler(repos.Subjects, repos.CustomEvents, clock)

	deps.GoogleBridge = google.NewBridge(repos.GoogleStore, google.Config{
		ClientId:     cfg.Google.ClientId,
		ClientSecret: cfg.Google.ClientSecret,
		Host:         cfg.Host,
		CalendarId:   cfg.Google.CalendarId,
	}, eventsAPI)
	deps.SyncService = calendar_sync.NewService(deps.GoogleBridge, repos.Subjects, repos.CustomEvents, cfg.Sync.Timeout)
	deps.SyncHandler = calendar_sync.NewHandler(deps.SyncService)

	return deps
}
