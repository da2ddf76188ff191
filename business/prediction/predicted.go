package prediction

import (
	"context"
	"math"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/foundation/geo"
)

// minimumSegmentKm is the stop separation below which travel between the stops is taken to be instant
const minimumSegmentKm = 0.001

// Predictions maps a direction, named after the terminus of its trips, to the predicted
// arrival time rounded down to the minute
type Predictions map[string]time.Time

// PredictedArrival estimates when the next bus of the route reaches the stop in each direction.
// Returns false when the route is unknown, no trip is underway or recently finished, or no live
// bus could be matched to such a trip
func (p *Predictor) PredictedArrival(ctx context.Context, routeNumber string, stopId string, areaPriority []string) (Predictions, bool) {
	route := p.store.RouteByNumber(routeNumber, areaPriority)
	if route == nil {
		return nil, false
	}
	now := p.Now()
	candidates := p.candidateTrips(route, stopId, now)
	if len(candidates) == 0 {
		return nil, false
	}

	result := make(map[string]time.Time)
	for _, bus := range p.buses.BusesOnRoute(ctx, route.Id) {
		ratio := p.segmentRatio(bus)
		for _, trip := range candidates {
			estimate, ok := p.estimateArrival(bus, trip, stopId, ratio)
			if !ok || estimate.Before(now) {
				continue
			}
			direction := trip.LastStop().Name
			if previous, present := result[direction]; !present || estimate.Before(previous) {
				result[direction] = estimate
			}
		}
	}
	if len(result) == 0 {
		return nil, false
	}

	// estimates are filtered against now before rounding down, so a result may fall earlier in now's minute
	predictions := make(Predictions, len(result))
	for direction, estimate := range result {
		predictions[direction] = roundDownToMinute(estimate)
	}
	return predictions, true
}

// candidateTrips selects, per direction flag, the trip visiting stopId that is running or finished
// most recently at now. Trips that have not started yet are never candidates
func (p *Predictor) candidateTrips(route *schedule.Route, stopId string, now time.Time) map[string]*schedule.Trip {
	nowSeconds := schedule.HMSOf(now).Seconds()
	closestTrip := make(map[string]*schedule.Trip)
	closestGap := make(map[string]int)
	for _, service := range route.ActiveServices(p.calendar, now) {
		for _, trip := range service.Trips() {
			if !trip.StopsAt(stopId) {
				continue
			}
			g := gap(trip, nowSeconds)
			if g < 0 {
				continue
			}
			if current, present := closestGap[trip.Direction]; !present || g < current {
				closestGap[trip.Direction] = g
				closestTrip[trip.Direction] = trip
			}
		}
	}
	return closestTrip
}

// gap returns -1 for a trip that has not started at nowSeconds, the seconds since a finished
// trip ended, or 0 for a trip underway
func gap(trip *schedule.Trip, nowSeconds int) int {
	if trip.StartTime().Seconds() > nowSeconds {
		return -1
	}
	if end := trip.EndTime().Seconds(); end < nowSeconds {
		return nowSeconds - end
	}
	return 0
}

// segmentRatio approximates the remaining share of the segment between the bus's last stop and
// its next stop from straight line distances, clamped to [0,1]
func (p *Predictor) segmentRatio(bus fleet.Bus) float64 {
	stop := p.store.Stop(bus.StopId)
	next := p.store.Stop(bus.NextStopId)
	segmentKm := 0.0
	if stop != nil && next != nil {
		segmentKm = geo.Distance(stop.Location, next.Location)
	}
	remainingKm := 0.0
	if next != nil {
		remainingKm = geo.Distance(bus.Location, next.Location)
	}
	if segmentKm < minimumSegmentKm {
		return 0
	}
	return math.Min(remainingKm/segmentKm, 1)
}

// estimateArrival matches bus to trip and returns the bus timestamp plus the scheduled time left
// to stopId. ok is false when the bus's stops are not consecutive on the trip or stopId is not ahead
func (p *Predictor) estimateArrival(bus fleet.Bus, trip *schedule.Trip, stopId string, ratio float64) (time.Time, bool) {
	if !trip.HasConsecutiveStops(bus.StopId, bus.NextStopId) {
		return time.Time{}, false
	}
	last, next, target, ok := trip.FollowingHalt(stopId, bus.StopId)
	if !ok {
		return time.Time{}, false
	}
	segmentSeconds := float64(last.TimeTo(next)) * ratio
	journeySeconds := segmentSeconds + float64(next.TimeTo(target))
	estimate := bus.Timestamp.Add(time.Duration(journeySeconds * float64(time.Second)))
	if p.debug {
		p.log.Printf("bus at %s expected to take %.1fs from %s to %s, then %ds to %s, arriving %s\n",
			geo.FormatLocation(bus.Location), segmentSeconds, last.Stop.Name, next.Stop.Name,
			next.TimeTo(target), target.Stop.Name, estimate.Format(time.RFC3339))
	}
	return estimate, true
}

func roundDownToMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}
