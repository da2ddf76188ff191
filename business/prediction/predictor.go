// Package prediction answers when buses of a route reach a stop, either from the published
// timetable alone or by matching live bus reports against it.
package prediction

import (
	"context"
	"log"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
)

// DefaultArrivalCount is the number of arrivals returned per direction when none is requested
const DefaultArrivalCount = 2

// BusSource provides the latest reported buses on a route
type BusSource interface {
	BusesOnRoute(ctx context.Context, routeId string) []fleet.Bus
}

// Config holds Predictor settings
type Config struct {
	// Location is the time zone of the timetable, defaults to UTC
	Location *time.Location
	// Now defaults to time.Now
	Now func() time.Time
	// Debug logs each estimated journey
	Debug bool
}

// Predictor answers arrival queries against a finalized schedule and the live fleet
type Predictor struct {
	log      *log.Logger
	store    *schedule.Store
	calendar *schedule.CalendarIndex
	buses    BusSource
	location *time.Location
	now      func() time.Time
	debug    bool
}

// NewPredictor creates a Predictor, store must already be finalized
func NewPredictor(log *log.Logger, store *schedule.Store, calendar *schedule.CalendarIndex, buses BusSource, cfg Config) *Predictor {
	p := Predictor{
		log:      log,
		store:    store,
		calendar: calendar,
		buses:    buses,
		location: cfg.Location,
		now:      cfg.Now,
		debug:    cfg.Debug,
	}
	if p.location == nil {
		p.location = time.UTC
	}
	if p.now == nil {
		p.now = time.Now
	}
	return &p
}

// Now returns the current time in the timetable's time zone
func (p *Predictor) Now() time.Time {
	return p.now().In(p.location)
}

// Location returns the timetable's time zone
func (p *Predictor) Location() *time.Location {
	return p.location
}
