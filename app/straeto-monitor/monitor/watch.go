package monitor

import (
	"fmt"
	"strings"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
)

// Watch is a stop on a route whose predicted arrivals are published every loop
type Watch struct {
	RouteId  string
	Area     string
	Number   string
	StopId   string
	StopName string
}

func (w Watch) String() string {
	return fmt.Sprintf("%s at %s (%s)", w.RouteId, w.StopId, w.StopName)
}

// ResolveWatches parses "route:stopId" entries against the schedule. A route is either "<area>.<number>"
// or a number looked up using areaPriority
func ResolveWatches(store *schedule.Store, entries []string, areaPriority []string) ([]Watch, error) {
	var watches []Watch
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("watch %q must be route:stopId", entry)
		}
		number, priority := parts[0], areaPriority
		if strings.Contains(number, ".") {
			area, n, err := schedule.ParseRouteId(number)
			if err != nil {
				return nil, fmt.Errorf("watch %q: %w", entry, err)
			}
			number, priority = n, []string{area}
		}
		route := store.RouteByNumber(number, priority)
		if route == nil {
			return nil, fmt.Errorf("watch %q: unknown route %s", entry, parts[0])
		}
		stop := store.Stop(parts[1])
		if stop == nil {
			return nil, fmt.Errorf("watch %q: %w", entry, schedule.ErrStopNotFound)
		}
		if !stop.IsVisitedBy(route.Id) {
			return nil, fmt.Errorf("watch %q: route %s does not stop at %s", entry, route.Id, stop.Name)
		}
		watches = append(watches, Watch{
			RouteId:  route.Id,
			Area:     route.Area,
			Number:   route.Number,
			StopId:   stop.Id,
			StopName: stop.Name,
		})
	}
	if len(watches) == 0 {
		return nil, fmt.Errorf("no watches configured")
	}
	return watches, nil
}
