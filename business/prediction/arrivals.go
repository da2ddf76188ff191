package prediction

import (
	"sort"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
)

// ArrivalsQuery selects scheduled arrivals of a route at a stop
type ArrivalsQuery struct {
	RouteNumber string
	StopId      string
	// N is the maximum number of times per direction, DefaultArrivalCount if zero or less
	N int
	// After excludes earlier times, defaults to the current time of day today and to midnight on other dates
	After *schedule.HMS
	// Date is the service date, defaults to today
	Date time.Time
	// AreaPriority disambiguates route numbers, schedule.DefaultAreaPriority if empty
	AreaPriority []string
}

// Arrivals maps a direction, named after the terminus of its trips, to ascending halt times
type Arrivals map[string][]schedule.HMS

// Arrivals returns the next scheduled halt times of the route at the stop for every direction.
// The boolean is true when a trip of the route active on the date visits the stop at all,
// telling "no more buses today" apart from "never stops here"
func (p *Predictor) Arrivals(q ArrivalsQuery) (Arrivals, bool) {
	result := make(Arrivals)
	route := p.store.RouteByNumber(q.RouteNumber, q.AreaPriority)
	if route == nil {
		return result, false
	}

	now := p.Now()
	date := q.Date
	if date.IsZero() {
		date = now
	}
	after := schedule.HMSOf(now)
	if !sameDay(date, now) {
		after = schedule.NewHMS(0, 0, 0)
	}
	if q.After != nil {
		after = *q.After
	}
	n := q.N
	if n <= 0 {
		n = DefaultArrivalCount
	}

	visits := false
	for _, service := range route.ActiveServices(p.calendar, date) {
		for _, trip := range service.Trips() {
			if !trip.StopsAt(q.StopId) {
				continue
			}
			visits = true
			direction := trip.LastStop().Name
			for _, halt := range trip.Halts() {
				if halt.StopId != q.StopId || halt.ArrivalTime.Before(after) {
					continue
				}
				result[direction] = append(result[direction], halt.ArrivalTime)
			}
		}
	}

	for direction, times := range result {
		sort.Slice(times, func(i, j int) bool {
			return times[i].Before(times[j])
		})
		times = uniqueTimes(times)
		if len(times) > n {
			times = times[:n]
		}
		result[direction] = times
	}
	return result, visits
}

func sameDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// uniqueTimes drops repeated entries from sorted times
func uniqueTimes(times []schedule.HMS) []schedule.HMS {
	result := times[:0]
	for _, t := range times {
		if len(result) > 0 && result[len(result)-1] == t {
			continue
		}
		result = append(result, t)
	}
	return result
}
