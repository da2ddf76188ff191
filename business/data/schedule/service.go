package schedule

import (
	"sort"
	"strings"
	"time"
)

const serviceCodePrefix = "vmh_"

// Service is a set of trips of one route that run on the same days
type Service struct {
	Id      string
	RouteId string
	// Key is the raw service code as found in trip records, used for calendar lookups
	Key     string

	validFrom time.Time
	weekdays  [7]bool
	decoded   bool

	trips       map[string]*Trip
	sortedTrips []*Trip
	finalized   bool
}

// MakeServiceId builds "<route_id>/<service key>"
func MakeServiceId(routeId string, key string) string {
	return routeId + "/" + key
}

func newService(routeId string, key string) *Service {
	s := &Service{
		Id:      MakeServiceId(routeId, key),
		RouteId: routeId,
		Key:     key,
		trips:   make(map[string]*Trip),
	}
	s.validFrom, s.weekdays, s.decoded = decodeServiceCode(key)
	return s
}

// decodeServiceCode reads the validity start date and Monday first weekday flags embedded in service codes
// shaped like "yyyymmdd?MTWTFSS", where '-' marks a day the service does not run.
func decodeServiceCode(code string) (time.Time, [7]bool, bool) {
	var weekdays [7]bool
	code = strings.TrimPrefix(code, serviceCodePrefix)
	if len(code) < 16 {
		return time.Time{}, weekdays, false
	}
	validFrom, err := time.Parse("20060102", code[0:8])
	if err != nil {
		return time.Time{}, weekdays, false
	}
	for i, c := range code[9:16] {
		weekdays[i] = c != '-'
	}
	return validFrom, weekdays, true
}

// Decoded returns true if the service code carried a readable date and weekday pattern
func (s *Service) Decoded() bool {
	return s.decoded
}

// ValidFrom returns the decoded validity start date, zero if not decoded
func (s *Service) ValidFrom() time.Time {
	return s.validFrom
}

// Weekdays returns the decoded Monday first weekday flags
func (s *Service) Weekdays() [7]bool {
	return s.weekdays
}

// RunsOnWeekday reports the decoded weekday flag for day. Informational only, see IsActiveOn
func (s *Service) RunsOnWeekday(day time.Weekday) bool {
	return s.weekdays[(int(day)+6)%7]
}

// IsActiveOn returns true if calendar lists the service key on date
func (s *Service) IsActiveOn(calendar *CalendarIndex, date time.Time) bool {
	return calendar.IsActive(s.Key, date)
}

// Trip returns the service's trip with tripId or nil
func (s *Service) Trip(tripId string) *Trip {
	return s.trips[tripId]
}

// Trips returns the service's trips ordered by start time
func (s *Service) Trips() []*Trip {
	if !s.finalized {
		panic("schedule: Service.Trips called on service " + s.Id + " before Finalize")
	}
	return s.sortedTrips
}

func (s *Service) finalize() {
	s.sortedTrips = make([]*Trip, 0, len(s.trips))
	for _, t := range s.trips {
		s.sortedTrips = append(s.sortedTrips, t)
	}
	sort.Slice(s.sortedTrips, func(i, j int) bool {
		a := s.sortedTrips[i]
		b := s.sortedTrips[j]
		if a.startTime != b.startTime {
			return a.startTime.Before(b.startTime)
		}
		return a.Id < b.Id
	})
	s.finalized = true
}
