// Package fleet keeps a cache of the latest reported state of every bus in service,
// refreshed from a live status feed with a local file fallback.
package fleet

import (
	"fmt"
	"time"

	"github.com/OpenTransitTools/straeto/foundation/geo"
)

// Bus is the last reported state of a single vehicle
type Bus struct {
	RouteId    string     `json:"routeId"`
	StopId     string     `json:"stopId"`
	NextStopId string     `json:"nextStopId"`
	Location   geo.LatLng `json:"location"`
	Heading    float64    `json:"heading"`
	Status     StatusCode `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
}

func (b Bus) String() string {
	return fmt.Sprintf("Bus{route: %s, stop: %s, next: %s, location: %s, status: %s, at: %s}",
		b.RouteId, b.StopId, b.NextStopId, geo.FormatLocation(b.Location), b.Status, b.Timestamp.Format(time.RFC3339))
}

// StatusCode is the reason a vehicle sent its report
type StatusCode int

const (
	Unused     StatusCode = 1
	Stopped    StatusCode = 2
	Departed   StatusCode = 3
	PoweredOff StatusCode = 4
	PoweredOn  StatusCode = 5
	// Running is reported when at least 15 seconds have passed since the previous report
	Running StatusCode = 6
	Arrived StatusCode = 7
)

// String - Stringer interface for StatusCode
func (s StatusCode) String() string {
	switch s {
	case Unused:
		return "UNUSED"
	case Stopped:
		return "STOPPED"
	case Departed:
		return "DEPARTED"
	case PoweredOff:
		return "POWERED_OFF"
	case PoweredOn:
		return "POWERED_ON"
	case Running:
		return "RUNNING"
	case Arrived:
		return "ARRIVED"
	}
	return "UNKNOWN"
}
