package schedule

import (
	"sort"
	"strings"

	"github.com/OpenTransitTools/straeto/foundation/geo"
)

// Stop is a physical stop location
type Stop struct {
	Id           string
	Name         string
	SearchKey    string
	Location     geo.LatLng
	LocationType int

	// route id -> set of directions halting here
	visits map[string]map[string]bool
}

func newStop(record StopRecord) *Stop {
	return &Stop{
		Id:           record.StopId,
		Name:         record.Name,
		SearchKey:    SearchKey(record.Name),
		Location:     geo.LatLng{Lat: record.Lat, Lng: record.Lon},
		LocationType: record.LocationType,
		visits:       make(map[string]map[string]bool),
	}
}

// SearchKey normalizes a stop name for matching: lower case, dashes and slashes
// folded to spaces and runs of spaces collapsed
func SearchKey(name string) string {
	key := strings.ToLower(name)
	key = strings.NewReplacer("-", " ", "/", " ").Replace(key)
	return strings.Join(strings.Fields(key), " ")
}

func (s *Stop) addVisit(routeId string, direction string) {
	directions, ok := s.visits[routeId]
	if !ok {
		directions = make(map[string]bool)
		s.visits[routeId] = directions
	}
	directions[direction] = true
}

// IsVisitedBy returns true if any trip of routeId halts at the stop
func (s *Stop) IsVisitedBy(routeId string) bool {
	return len(s.visits[routeId]) > 0
}

// Directions returns the sorted directions of routeId halting at the stop
func (s *Stop) Directions(routeId string) []string {
	var result []string
	for direction := range s.visits[routeId] {
		result = append(result, direction)
	}
	sort.Strings(result)
	return result
}

// VisitingRoutes returns the sorted ids of routes halting at the stop
func (s *Stop) VisitingRoutes() []string {
	result := make([]string, 0, len(s.visits))
	for routeId := range s.visits {
		result = append(result, routeId)
	}
	sort.Strings(result)
	return result
}
