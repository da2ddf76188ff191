package schedule

import (
	"fmt"

	"github.com/OpenTransitTools/straeto/foundation/geo"
)

// StopLocator identifies a stop either by a position or by a name
type StopLocator interface {
	isStopLocator()
}

// ByCoordinate locates the stop closest to Location
type ByCoordinate struct {
	Location geo.LatLng
}

// ByName locates a stop by display name, falling back to fuzzy matching
type ByName struct {
	Name string
}

// ById locates a stop by its identifier
type ById struct {
	StopId string
}

func (ByCoordinate) isStopLocator() {}
func (ByName) isStopLocator()       {}
func (ById) isStopLocator()         {}

// Locate resolves locator to a single stop. ErrStopNotFound is wrapped when nothing matches
func (s *Store) Locate(locator StopLocator) (*Stop, error) {
	switch l := locator.(type) {
	case ByCoordinate:
		if !l.Location.Valid() {
			return nil, fmt.Errorf("invalid location %v: %w", l.Location, ErrStopNotFound)
		}
		closest := s.ClosestStop(l.Location, 0)
		if closest == nil {
			return nil, fmt.Errorf("no stop near %v: %w", l.Location, ErrStopNotFound)
		}
		return closest.Stop, nil
	case ByName:
		stops := s.StopsNamed(l.Name, false)
		if len(stops) == 0 {
			stops = s.StopsNamed(l.Name, true)
		}
		if len(stops) == 0 {
			return nil, fmt.Errorf("no stop named %q: %w", l.Name, ErrStopNotFound)
		}
		return stops[0], nil
	case ById:
		stop := s.Stop(l.StopId)
		if stop == nil {
			return nil, fmt.Errorf("no stop with id %q: %w", l.StopId, ErrStopNotFound)
		}
		return stop, nil
	default:
		return nil, fmt.Errorf("unsupported stop locator %T", locator)
	}
}
