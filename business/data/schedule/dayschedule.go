package schedule

import (
	"sort"
	"time"
)

// DaySchedule lists the halt times of a single service date, keyed by
// route id, then trip terminus name, then stop name
type DaySchedule map[string]map[string]map[string][]HMS

// BuildDaySchedule collects the halt times of all trips active on date. Halts at a trip's own
// terminus are left out
func BuildDaySchedule(store *Store, calendar *CalendarIndex, date time.Time) DaySchedule {
	result := make(DaySchedule)
	for _, route := range store.Routes() {
		for _, service := range route.ActiveServices(calendar, date) {
			for _, trip := range service.Trips() {
				terminus := trip.LastStop()
				if terminus == nil {
					continue
				}
				for _, halt := range trip.Halts() {
					if halt.Stop.Name == terminus.Name {
						continue
					}
					result.add(route.Id, terminus.Name, halt.Stop.Name, halt.ArrivalTime)
				}
			}
		}
	}
	for _, directions := range result {
		for _, stops := range directions {
			for _, times := range stops {
				sort.Slice(times, func(i, j int) bool {
					return times[i].Before(times[j])
				})
			}
		}
	}
	return result
}

func (d DaySchedule) add(routeId string, terminus string, stopName string, at HMS) {
	directions, ok := d[routeId]
	if !ok {
		directions = make(map[string]map[string][]HMS)
		d[routeId] = directions
	}
	stops, ok := directions[terminus]
	if !ok {
		stops = make(map[string][]HMS)
		directions[terminus] = stops
	}
	stops[stopName] = append(stops[stopName], at)
}
