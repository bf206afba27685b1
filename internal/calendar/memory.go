package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/study-scheduler/internal/interval"
)

// MemoryProvider is an in-process calendar backend. It serves as the local
// calendar when no external provider is configured, and as a deterministic
// stand-in for Google or Outlook in tests.
type MemoryProvider struct {
	name        string
	idGenerator func() string

	mu     sync.RWMutex
	events map[string]memoryEvent
}

type memoryEvent struct {
	userID      string
	title       string
	description string
	start       time.Time
	end         time.Time
}

// NewMemoryProvider constructs an empty provider registered under name.
// idGenerator supplies event identifiers; a nil generator falls back to a
// sequential counter.
func NewMemoryProvider(name string, idGenerator func() string) *MemoryProvider {
	if name == "" {
		name = "local"
	}
	provider := &MemoryProvider{
		name:   name,
		events: make(map[string]memoryEvent),
	}
	if idGenerator == nil {
		var counter int
		idGenerator = func() string {
			counter++
			return fmt.Sprintf("%s-event-%d", name, counter)
		}
	}
	provider.idGenerator = idGenerator
	return provider
}

// Name identifies the provider within the service registry.
func (p *MemoryProvider) Name() string {
	return p.name
}

// BusyIntervals returns the stored events for userID that overlap [from, to).
func (p *MemoryProvider) BusyIntervals(ctx context.Context, userID string, from, to time.Time) ([]BusyInterval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	query := interval.Interval{Start: from, End: to}
	busy := make([]BusyInterval, 0)
	for id, event := range p.events {
		if event.userID != userID {
			continue
		}
		occupied := interval.Interval{Start: event.start, End: event.end}
		if !interval.Overlaps(query, occupied) {
			continue
		}
		busy = append(busy, BusyInterval{
			Interval: occupied,
			EventID:  id,
			Provider: p.name,
		})
	}

	if len(busy) == 0 {
		return nil, nil
	}
	return busy, nil
}

// CreateEvent stores a new event and returns its identifier.
func (p *MemoryProvider) CreateEvent(ctx context.Context, userID string, input EventInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !input.End.After(input.Start) {
		return "", fmt.Errorf("event end must be after start")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	eventID := p.idGenerator()
	p.events[eventID] = memoryEvent{
		userID:      userID,
		title:       input.Title,
		description: input.Description,
		start:       input.Start,
		end:         input.End,
	}
	return eventID, nil
}

// UpdateEvent applies the non-nil patch fields to an existing event.
func (p *MemoryProvider) UpdateEvent(ctx context.Context, userID, eventID string, patch EventPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	event, ok := p.events[eventID]
	if !ok || event.userID != userID {
		return fmt.Errorf("event %s not found", eventID)
	}

	if patch.Title != nil {
		event.title = *patch.Title
	}
	if patch.Description != nil {
		event.description = *patch.Description
	}
	if patch.Start != nil {
		event.start = *patch.Start
	}
	if patch.End != nil {
		event.end = *patch.End
	}
	if !event.end.After(event.start) {
		return fmt.Errorf("event end must be after start")
	}

	p.events[eventID] = event
	return nil
}

// DeleteEvent removes an event.
func (p *MemoryProvider) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	event, ok := p.events[eventID]
	if !ok || event.userID != userID {
		return fmt.Errorf("event %s not found", eventID)
	}
	delete(p.events, eventID)
	return nil
}

// EventCount reports how many events are stored for a user.
func (p *MemoryProvider) EventCount(userID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	count := 0
	for _, event := range p.events {
		if event.userID == userID {
			count++
		}
	}
	return count
}
