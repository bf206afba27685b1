// Package calendar defines the capability surface the scheduling engine uses
// to talk to external calendar providers, and a service that aggregates busy
// data across all registered providers.
package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/example/study-scheduler/internal/interval"
)

var (
	// ErrNoProviders is returned when an operation requires at least one
	// registered provider and none exist.
	ErrNoProviders = errors.New("calendar: no providers registered")
	// ErrUnknownProvider is returned when an event reference names a
	// provider that has not been registered.
	ErrUnknownProvider = errors.New("calendar: unknown provider")
)

// BusyInterval is a time range during which the user is unavailable,
// reported by a single provider. EventID identifies the backing calendar
// event so callers can exclude their own events from conflict checks.
type BusyInterval struct {
	interval.Interval
	EventID  string
	Provider string
}

// EventInput carries the fields required to create a calendar event.
type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// EventPatch carries optional updates for an existing event. Nil fields are
// left unchanged on the provider side.
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
}

// EventRef addresses an event within a specific provider.
type EventRef struct {
	Provider string
	EventID  string
}

// Provider is implemented by each calendar backend (Google, Outlook, ...).
// Implementations live outside this module; the engine only depends on this
// small method set.
type Provider interface {
	Name() string
	BusyIntervals(ctx context.Context, userID string, from, to time.Time) ([]BusyInterval, error)
	CreateEvent(ctx context.Context, userID string, input EventInput) (string, error)
	UpdateEvent(ctx context.Context, userID, eventID string, patch EventPatch) error
	DeleteEvent(ctx context.Context, userID, eventID string) error
}
