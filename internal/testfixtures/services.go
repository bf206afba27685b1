package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// SchedulerServiceDeps captures dependencies for constructing a scheduler
// service.
type SchedulerServiceDeps struct {
	Calendars          application.CalendarGateway
	History            persistence.HistoryRepository
	Preferences        persistence.PreferenceRepository
	IDGenerator        func() string
	Now                func() time.Time
	Location           *time.Location
	DailyTargetMinutes int
	Logger             *slog.Logger
}

// NewSchedulerService builds a scheduler service using the supplied
// dependencies combined with the factory defaults.
func (f *ServiceFactory) NewSchedulerService(deps SchedulerServiceDeps) *application.SchedulerService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewSchedulerService(
		deps.Calendars,
		deps.History,
		deps.Preferences,
		idGen,
		now,
		deps.Location,
		deps.DailyTargetMinutes,
		deps.Logger,
	)
}

// PreferenceServiceDeps captures dependencies for constructing a preference
// service.
type PreferenceServiceDeps struct {
	Preferences persistence.PreferenceRepository
	Now         func() time.Time
}

// NewPreferenceService builds a preference service using the supplied
// dependencies.
func (f *ServiceFactory) NewPreferenceService(deps PreferenceServiceDeps) *application.PreferenceService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewPreferenceService(deps.Preferences, now)
}

// HistoryServiceDeps captures dependencies for constructing a history
// service.
type HistoryServiceDeps struct {
	History     persistence.HistoryRepository
	IDGenerator func() string
	Now         func() time.Time
	Location    *time.Location
}

// NewHistoryService builds a history service using the supplied dependencies.
func (f *ServiceFactory) NewHistoryService(deps HistoryServiceDeps) *application.HistoryService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewHistoryService(deps.History, idGen, now, deps.Location)
}
