// Package schedule holds the static timetable model: stops, routes, services, trips and their halts,
// plus the calendar of active services per date.
package schedule

import (
	"fmt"
	"log"
	"sort"
)

// Store holds all static schedule entities. Records are bulk loaded and then Finalize is called,
// after which the store is read only and safe for concurrent readers
type Store struct {
	log     *log.Logger
	aliases *AliasTable

	stops  map[string]*Stop
	routes map[string]*Route
	trips  map[string]*Trip

	stopsByName map[string][]*Stop
	haltCount   int
	finalized   bool
}

// NewStore creates an empty Store using the built-in stop name alias table
func NewStore(log *log.Logger) *Store {
	return &Store{
		log:         log,
		aliases:     DefaultAliasTable(),
		stops:       make(map[string]*Stop),
		routes:      make(map[string]*Route),
		trips:       make(map[string]*Trip),
		stopsByName: make(map[string][]*Stop),
	}
}

// SetAliases replaces the alias table used by fuzzy stop name searches
func (s *Store) SetAliases(aliases *AliasTable) {
	s.aliases = aliases
}

// Aliases returns the alias table used by fuzzy stop name searches
func (s *Store) Aliases() *AliasTable {
	return s.aliases
}

// LoadStops adds stop records (stop_id, name, lat, lon, location_type).
// Malformed records are logged, reported and skipped. Returns ErrNoStops if the store holds no stop afterwards
func (s *Store) LoadStops(records [][]string) (*IngestReport, error) {
	report := &IngestReport{Kind: StopRecordKind}
	if s.finalized {
		return report, ErrFinalized
	}
	for i, fields := range records {
		record, err := ParseStopRecord(fields)
		if err == nil {
			err = s.addStop(record)
		}
		if err != nil {
			s.log.Printf("skipping %v", report.reject(i+1, err))
			continue
		}
		report.Accepted++
	}
	if len(s.stops) == 0 {
		return report, ErrNoStops
	}
	return report, nil
}

func (s *Store) addStop(record StopRecord) error {
	if _, present := s.stops[record.StopId]; present {
		return fmt.Errorf("duplicate stop id %q", record.StopId)
	}
	stop := newStop(record)
	s.stops[stop.Id] = stop
	s.stopsByName[stop.Name] = append(s.stopsByName[stop.Name], stop)
	return nil
}

// LoadTrips adds trip records (route_id, service_code, trip_id, headsign, short_name, direction,
// block_id, shape_id), creating routes and services as they are first referenced.
// Malformed records are logged, reported and skipped. Returns ErrNoTrips if the store holds no trip afterwards
func (s *Store) LoadTrips(records [][]string) (*IngestReport, error) {
	report := &IngestReport{Kind: TripRecordKind}
	if s.finalized {
		return report, ErrFinalized
	}
	for i, fields := range records {
		record, err := ParseTripRecord(fields)
		if err == nil {
			err = s.addTrip(record)
		}
		if err != nil {
			s.log.Printf("skipping %v", report.reject(i+1, err))
			continue
		}
		report.Accepted++
	}
	if len(s.trips) == 0 {
		return report, ErrNoTrips
	}
	return report, nil
}

func (s *Store) addTrip(record TripRecord) error {
	if _, present := s.trips[record.TripId]; present {
		return fmt.Errorf("duplicate trip id %q", record.TripId)
	}
	route, ok := s.routes[record.RouteId]
	if !ok {
		var err error
		route, err = newRoute(record.RouteId)
		if err != nil {
			return err
		}
		s.routes[route.Id] = route
	}
	serviceId := MakeServiceId(route.Id, record.ServiceCode)
	service, ok := route.services[serviceId]
	if !ok {
		service = newService(route.Id, record.ServiceCode)
		route.services[serviceId] = service
	}
	trip := newTrip(record, serviceId)
	service.trips[trip.Id] = trip
	s.trips[trip.Id] = trip
	return nil
}

// LoadHalts adds stop time records (trip_id, arrival, departure, stop_id, stop_sequence,
// stop_headsign, pickup_type). Trips and stops must already be loaded.
// Malformed records are logged, reported and skipped. Returns ErrNoHalts if the store holds no halt afterwards
func (s *Store) LoadHalts(records [][]string) (*IngestReport, error) {
	report := &IngestReport{Kind: HaltRecordKind}
	if s.finalized {
		return report, ErrFinalized
	}
	for i, fields := range records {
		record, err := ParseStopTimeRecord(fields)
		if err == nil {
			err = s.addHalt(record)
		}
		if err != nil {
			s.log.Printf("skipping %v", report.reject(i+1, err))
			continue
		}
		report.Accepted++
	}
	if s.haltCount == 0 {
		return report, ErrNoHalts
	}
	return report, nil
}

func (s *Store) addHalt(record StopTimeRecord) error {
	trip, ok := s.trips[record.TripId]
	if !ok {
		return fmt.Errorf("unknown trip id %q", record.TripId)
	}
	stop, ok := s.stops[record.StopId]
	if !ok {
		return fmt.Errorf("unknown stop id %q", record.StopId)
	}
	halt := &Halt{
		TripId:        trip.Id,
		StopId:        stop.Id,
		Stop:          stop,
		StopSequence:  record.StopSequence,
		ArrivalTime:   record.ArrivalTime,
		DepartureTime: record.DepartureTime,
		StopHeadsign:  record.StopHeadsign,
	}
	if err := trip.addHalt(halt); err != nil {
		return err
	}
	stop.addVisit(trip.RouteId, trip.Direction)
	s.haltCount++
	return nil
}

// Finalize derives ordered halts, consecutive stop pairs, terminal stops and times for every trip
// and orders every service's trips by start time. Calling it again has no effect
func (s *Store) Finalize() {
	if s.finalized {
		return
	}
	for _, trip := range s.trips {
		trip.finalize()
	}
	services := 0
	for _, route := range s.routes {
		for _, service := range route.services {
			service.finalize()
			services++
		}
	}
	s.finalized = true
	s.log.Printf("schedule finalized with %d stops, %d routes, %d services, %d trips and %d halts",
		len(s.stops), len(s.routes), services, len(s.trips), s.haltCount)
}

// Finalized returns true once Finalize has run
func (s *Store) Finalized() bool {
	return s.finalized
}

// Stop returns the stop with stopId or nil
func (s *Store) Stop(stopId string) *Stop {
	return s.stops[stopId]
}

// Stops returns all stops ordered by name
func (s *Store) Stops() []*Stop {
	result := make([]*Stop, 0, len(s.stops))
	for _, stop := range s.stops {
		result = append(result, stop)
	}
	sortStops(result)
	return result
}

// Route returns the route with routeId or nil
func (s *Store) Route(routeId string) *Route {
	return s.routes[routeId]
}

// Routes returns all routes ordered by id
func (s *Store) Routes() []*Route {
	result := make([]*Route, 0, len(s.routes))
	for _, route := range s.routes {
		result = append(result, route)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Id < result[j].Id
	})
	return result
}

// Trip returns the trip with tripId or nil
func (s *Store) Trip(tripId string) *Trip {
	return s.trips[tripId]
}

// RouteByNumber returns the first route "<area>.<number>" found trying areas in areaPriority order.
// DefaultAreaPriority is used when areaPriority is empty
func (s *Store) RouteByNumber(number string, areaPriority []string) *Route {
	if len(areaPriority) == 0 {
		areaPriority = DefaultAreaPriority
	}
	for _, area := range areaPriority {
		if route, ok := s.routes[MakeRouteId(area, number)]; ok {
			return route
		}
	}
	return nil
}

func sortStops(stops []*Stop) {
	sort.Slice(stops, func(i, j int) bool {
		if stops[i].Name != stops[j].Name {
			return stops[i].Name < stops[j].Name
		}
		return stops[i].Id < stops[j].Id
	})
}
