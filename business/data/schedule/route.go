package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DefaultAreaPriority is the order areas are tried in when a route is looked up by number alone
var DefaultAreaPriority = []string{"ST", "SU", "VL", "SN", "NO", "RY", "AF"}

// Route is a line identified by "<area>.<number>"
type Route struct {
	Id     string
	Area   string
	Number string

	services map[string]*Service
}

// ParseRouteId splits "<area>.<number>" into its parts
func ParseRouteId(id string) (string, string, error) {
	if strings.Count(id, ".") != 1 {
		return "", "", fmt.Errorf("route id %q must contain exactly one '.'", id)
	}
	parts := strings.SplitN(id, ".", 2)
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return "", "", fmt.Errorf("route id %q must have an area and a number", id)
	}
	return parts[0], parts[1], nil
}

// MakeRouteId joins an area and route number
func MakeRouteId(area string, number string) string {
	return area + "." + number
}

func newRoute(id string) (*Route, error) {
	area, number, err := ParseRouteId(id)
	if err != nil {
		return nil, err
	}
	return &Route{
		Id:       id,
		Area:     area,
		Number:   number,
		services: make(map[string]*Service),
	}, nil
}

// Service returns the route's service with serviceId or nil
func (r *Route) Service(serviceId string) *Service {
	return r.services[serviceId]
}

// Services returns all services of the route ordered by id
func (r *Route) Services() []*Service {
	result := make([]*Service, 0, len(r.services))
	for _, s := range r.services {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Id < result[j].Id
	})
	return result
}

// ActiveServices returns the route's services active on date according to calendar
func (r *Route) ActiveServices(calendar *CalendarIndex, date time.Time) []*Service {
	var result []*Service
	for _, s := range r.Services() {
		if s.IsActiveOn(calendar, date) {
			result = append(result, s)
		}
	}
	return result
}
