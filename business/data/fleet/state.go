package fleet

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// DefaultRefreshInterval is the minimum age of the cache before it is refreshed again
const DefaultRefreshInterval = 60 * time.Second

// Config holds State settings
type Config struct {
	// RefreshInterval defaults to DefaultRefreshInterval
	RefreshInterval time.Duration
	// Location is used to interpret report times, defaults to UTC
	Location *time.Location
	// Now defaults to time.Now
	Now func() time.Time
}

// State is the cache of the latest status of every bus, keyed by route id.
// Refreshing is serialized, concurrent callers wait for a running refresh to finish
type State struct {
	log      *log.Logger
	sources  []Source
	interval time.Duration
	location *time.Location
	now      func() time.Time
	metrics  *Metrics

	mu          sync.Mutex
	lastRefresh time.Time
	buses       map[string][]Bus
}

// NewState creates an empty State. Sources are tried in order on every refresh, metrics may be nil
func NewState(log *log.Logger, cfg Config, metrics *Metrics, sources ...Source) *State {
	s := State{
		log:      log,
		sources:  sources,
		interval: cfg.RefreshInterval,
		location: cfg.Location,
		now:      cfg.Now,
		metrics:  metrics,
		buses:    make(map[string][]Bus),
	}
	if s.interval <= 0 {
		s.interval = DefaultRefreshInterval
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return &s
}

// Refresh reloads the cache unless it was successfully loaded less than the refresh interval ago.
// The first source that delivers a readable document replaces the whole cache. When every source
// fails the previous cache is kept
func (s *State) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.lastRefresh.IsZero() && now.Sub(s.lastRefresh) < s.interval {
		s.metrics.notRefreshed(outcomeCached)
		return
	}

	for _, source := range s.sources {
		content, err := source.Fetch(ctx)
		if err != nil {
			s.log.Printf("bus status from %s unavailable: %v\n", source.Name(), err)
			continue
		}
		reports, err := decodeStatusDocument(content)
		if err != nil {
			s.log.Printf("bus status from %s unreadable: %v\n", source.Name(), err)
			continue
		}
		buses, skipped := s.makeBuses(reports)
		s.buses = buses
		s.lastRefresh = now
		count := countBuses(buses)
		s.metrics.refreshed(source.Name(), count, skipped, now.Unix())
		s.log.Printf("loaded %d buses on %d routes from %s, skipped %d reports\n",
			count, len(buses), source.Name(), skipped)
		return
	}
	s.metrics.notRefreshed(outcomeFailed)
	s.log.Printf("warning: no bus status source available, keeping %d cached buses\n", countBuses(s.buses))
}

func (s *State) makeBuses(reports []vehicleReport) (map[string][]Bus, int) {
	result := make(map[string][]Bus)
	skipped := 0
	for _, report := range reports {
		bus, err := makeBus(report, s.location)
		if err != nil {
			skipped++
			continue
		}
		result[bus.RouteId] = append(result[bus.RouteId], bus)
	}
	return result, skipped
}

func countBuses(buses map[string][]Bus) int {
	count := 0
	for _, onRoute := range buses {
		count += len(onRoute)
	}
	return count
}

// LastRefresh returns the time of the last successful refresh, zero if there was none
func (s *State) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

// BusesOnRoute refreshes if needed and returns the buses currently reported on routeId
func (s *State) BusesOnRoute(ctx context.Context, routeId string) []Bus {
	s.Refresh(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Bus(nil), s.buses[routeId]...)
}

// AllBuses refreshes if needed and returns all cached buses keyed by route id
func (s *State) AllBuses(ctx context.Context) map[string][]Bus {
	s.Refresh(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string][]Bus, len(s.buses))
	for routeId, buses := range s.buses {
		result[routeId] = append([]Bus(nil), buses...)
	}
	return result
}

// Routes returns the sorted ids of routes with at least one cached bus, without refreshing
func (s *State) Routes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]string, 0, len(s.buses))
	for routeId := range s.buses {
		result = append(result, routeId)
	}
	sort.Strings(result)
	return result
}
