package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/study-scheduler/internal/interval"
)

// Service fans busy-interval queries out to every registered provider and
// routes event mutations to the provider named in the event reference.
type Service struct {
	mu        sync.RWMutex
	order     []string
	providers map[string]Provider
}

// NewService constructs an empty provider registry.
func NewService() *Service {
	return &Service{providers: make(map[string]Provider)}
}

// Register adds a provider under its own name. Registering the same name
// again replaces the earlier provider.
func (s *Service) Register(provider Provider) {
	if provider == nil {
		return
	}
	name := provider.Name()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[name]; !ok {
		s.order = append(s.order, name)
	}
	s.providers[name] = provider
}

// BusyIntervals collects busy data from every provider for the range.
//
// The contract is partial failure: whatever succeeded is returned together
// with one error per failing provider, never all-or-nothing. Providers are
// queried concurrently; each goroutine writes only its own slot of the
// result buffers, and the buffers are combined after all queries finish.
func (s *Service) BusyIntervals(ctx context.Context, userID string, from, to time.Time) ([]BusyInterval, []error) {
	s.mu.RLock()
	names := append([]string(nil), s.order...)
	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		providers = append(providers, s.providers[name])
	}
	s.mu.RUnlock()

	if len(providers) == 0 {
		return nil, nil
	}

	results := make([][]BusyInterval, len(providers))
	failures := make([]error, len(providers))

	var wg sync.WaitGroup
	for i, provider := range providers {
		wg.Add(1)
		go func(i int, provider Provider) {
			defer wg.Done()
			intervals, err := provider.BusyIntervals(ctx, userID, from, to)
			if err != nil {
				failures[i] = fmt.Errorf("calendar: %s: %w", provider.Name(), err)
				return
			}
			results[i] = intervals
		}(i, provider)
	}
	wg.Wait()

	busy := make([]BusyInterval, 0)
	for _, chunk := range results {
		busy = append(busy, chunk...)
	}
	errs := make([]error, 0)
	for _, err := range failures {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(busy) == 0 {
		busy = nil
	}
	if len(errs) == 0 {
		errs = nil
	}
	return busy, errs
}

// MergedIntervals flattens busy intervals into a minimal sorted set of plain
// intervals, coalescing data from different providers.
func MergedIntervals(busy []BusyInterval) []interval.Interval {
	plain := make([]interval.Interval, 0, len(busy))
	for _, b := range busy {
		plain = append(plain, b.Interval)
	}
	return interval.Merge(plain)
}

// CreateEvent creates an event with the named provider. An empty provider
// name selects the first registered provider.
func (s *Service) CreateEvent(ctx context.Context, userID, providerName string, input EventInput) (EventRef, error) {
	provider, err := s.resolve(providerName)
	if err != nil {
		return EventRef{}, err
	}

	eventID, err := provider.CreateEvent(ctx, userID, input)
	if err != nil {
		return EventRef{}, fmt.Errorf("calendar: %s: %w", provider.Name(), err)
	}
	return EventRef{Provider: provider.Name(), EventID: eventID}, nil
}

// UpdateEvent applies a patch to the event addressed by ref.
func (s *Service) UpdateEvent(ctx context.Context, userID string, ref EventRef, patch EventPatch) error {
	provider, err := s.lookup(ref.Provider)
	if err != nil {
		return err
	}
	if err := provider.UpdateEvent(ctx, userID, ref.EventID, patch); err != nil {
		return fmt.Errorf("calendar: %s: %w", ref.Provider, err)
	}
	return nil
}

// DeleteEvent removes the event addressed by ref.
func (s *Service) DeleteEvent(ctx context.Context, userID string, ref EventRef) error {
	provider, err := s.lookup(ref.Provider)
	if err != nil {
		return err
	}
	if err := provider.DeleteEvent(ctx, userID, ref.EventID); err != nil {
		return fmt.Errorf("calendar: %s: %w", ref.Provider, err)
	}
	return nil
}

func (s *Service) resolve(name string) (Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name != "" {
		provider, ok := s.providers[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
		}
		return provider, nil
	}
	if len(s.order) == 0 {
		return nil, ErrNoProviders
	}
	return s.providers[s.order[0]], nil
}

func (s *Service) lookup(name string) (Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	provider, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return provider, nil
}
