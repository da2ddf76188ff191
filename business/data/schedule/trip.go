package schedule

import (
	"fmt"
	"sort"
)

// stopPair is an ordered pair of stop ids halted at one after another
type stopPair struct {
	from string
	to   string
}

// Trip is a single scheduled run of a route
type Trip struct {
	Id        string
	RouteId   string
	ServiceId string
	Headsign  string
	ShortName string
	Direction string
	BlockId   string
	ShapeId   string

	halts      map[HMS][]*Halt
	bySequence map[int]*Halt
	stops      map[string]bool

	// derived by finalize
	finalized   bool
	sortedHalts []*Halt
	consecutive map[stopPair]bool
	firstStop   *Stop
	lastStop    *Stop
	startTime   HMS
	endTime     HMS
}

func newTrip(record TripRecord, serviceId string) *Trip {
	return &Trip{
		Id:         record.TripId,
		RouteId:    record.RouteId,
		ServiceId:  serviceId,
		Headsign:   record.Headsign,
		ShortName:  record.ShortName,
		Direction:  record.Direction,
		BlockId:    record.BlockId,
		ShapeId:    record.ShapeId,
		halts:      make(map[HMS][]*Halt),
		bySequence: make(map[int]*Halt),
		stops:      make(map[string]bool),
	}
}

func (t *Trip) addHalt(h *Halt) error {
	if _, present := t.bySequence[h.StopSequence]; present {
		return fmt.Errorf("trip %s already has a halt with stop sequence %d", t.Id, h.StopSequence)
	}
	t.bySequence[h.StopSequence] = h
	t.halts[h.ArrivalTime] = append(t.halts[h.ArrivalTime], h)
	t.stops[h.StopId] = true
	return nil
}

// finalize orders the trip's halts by stop sequence and derives the consecutive stop pairs,
// terminal stops and start and end times
func (t *Trip) finalize() {
	t.sortedHalts = make([]*Halt, 0, len(t.bySequence))
	for _, h := range t.bySequence {
		t.sortedHalts = append(t.sortedHalts, h)
	}
	sort.Slice(t.sortedHalts, func(i, j int) bool {
		return t.sortedHalts[i].StopSequence < t.sortedHalts[j].StopSequence
	})

	t.consecutive = make(map[stopPair]bool)
	t.firstStop = nil
	t.lastStop = nil
	for i, h := range t.sortedHalts {
		if i == 0 {
			t.startTime = h.ArrivalTime
			t.endTime = h.ArrivalTime
		}
		if h.ArrivalTime.Before(t.startTime) {
			t.startTime = h.ArrivalTime
		}
		// departure times are kept on the halt but never drive matching
		if t.endTime.Before(h.ArrivalTime) {
			t.endTime = h.ArrivalTime
		}
		if i > 0 {
			t.consecutive[stopPair{from: t.sortedHalts[i-1].StopId, to: h.StopId}] = true
		}
	}
	if len(t.sortedHalts) > 0 {
		t.firstStop = t.sortedHalts[0].Stop
		t.lastStop = t.sortedHalts[len(t.sortedHalts)-1].Stop
	}
	t.finalized = true
}

func (t *Trip) mustBeFinalized(method string) {
	if !t.finalized {
		panic(fmt.Sprintf("schedule: Trip.%s called on trip %s before Finalize", method, t.Id))
	}
}

// StopsAt returns true if the trip halts at stopId
func (t *Trip) StopsAt(stopId string) bool {
	return t.stops[stopId]
}

// HaltsAt returns the trip's halts arriving at time of day at
func (t *Trip) HaltsAt(at HMS) []*Halt {
	return t.halts[at]
}

// Halts returns the trip's halts ordered by stop sequence
func (t *Trip) Halts() []*Halt {
	t.mustBeFinalized("Halts")
	return t.sortedHalts
}

// FirstStop returns the stop of the halt with the lowest stop sequence
func (t *Trip) FirstStop() *Stop {
	t.mustBeFinalized("FirstStop")
	return t.firstStop
}

// LastStop returns the stop of the halt with the highest stop sequence, the trip's terminus
func (t *Trip) LastStop() *Stop {
	t.mustBeFinalized("LastStop")
	return t.lastStop
}

// StartTime returns the earliest arrival time of the trip
func (t *Trip) StartTime() HMS {
	t.mustBeFinalized("StartTime")
	return t.startTime
}

// EndTime returns the latest arrival time of the trip
func (t *Trip) EndTime() HMS {
	t.mustBeFinalized("EndTime")
	return t.endTime
}

// HasConsecutiveStops returns true if the trip halts at from and then immediately at to.
// When one of the stop ids is empty only the other one has to be visited
func (t *Trip) HasConsecutiveStops(from string, to string) bool {
	t.mustBeFinalized("HasConsecutiveStops")
	if len(from) == 0 {
		return t.StopsAt(to)
	}
	if len(to) == 0 {
		return t.StopsAt(from)
	}
	return t.consecutive[stopPair{from: from, to: to}]
}

// FollowingHalt locates the first halt at baseStopId, the halt right after it and the first
// halt at stopId after the base halt. ok is false if any of them is missing
func (t *Trip) FollowingHalt(stopId string, baseStopId string) (base *Halt, next *Halt, found *Halt, ok bool) {
	t.mustBeFinalized("FollowingHalt")
	baseIndex := -1
	for i, h := range t.sortedHalts {
		if h.StopId == baseStopId {
			baseIndex = i
			break
		}
	}
	if baseIndex < 0 || baseIndex+1 >= len(t.sortedHalts) {
		return nil, nil, nil, false
	}
	for _, h := range t.sortedHalts[baseIndex+1:] {
		if h.StopId == stopId {
			return t.sortedHalts[baseIndex], t.sortedHalts[baseIndex+1], h, true
		}
	}
	return nil, nil, nil, false
}
