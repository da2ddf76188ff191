package webapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/foundation/geo"
)

// errMissingParameter is wrapped by parameter errors caused by an absent value
var errMissingParameter = errors.New("missing parameter")

// routeParameter splits a requested route into a number and the areas to search it in.
// "ST.3" only matches area ST, a bare "3" is looked up using defaultPriority
func routeParameter(value string, defaultPriority []string) (string, []string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil, fmt.Errorf("route: %w", errMissingParameter)
	}
	if !strings.Contains(value, ".") {
		return value, defaultPriority, nil
	}
	area, number, err := schedule.ParseRouteId(value)
	if err != nil {
		return "", nil, err
	}
	return number, []string{area}, nil
}

// stopLocatorParameter builds a schedule.StopLocator from the stop, name or lat and lon parameters,
// tried in that order
func stopLocatorParameter(r *http.Request) (schedule.StopLocator, error) {
	if stopId := strings.TrimSpace(r.FormValue("stop")); stopId != "" {
		return schedule.ById{StopId: stopId}, nil
	}
	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		return schedule.ByName{Name: name}, nil
	}
	if r.FormValue("lat") != "" || r.FormValue("lon") != "" {
		location, err := locationParameter(r)
		if err != nil {
			return nil, err
		}
		return schedule.ByCoordinate{Location: location}, nil
	}
	return nil, fmt.Errorf("one of stop, name or lat and lon: %w", errMissingParameter)
}

// locationParameter reads a valid coordinate from the lat and lon parameters
func locationParameter(r *http.Request) (geo.LatLng, error) {
	lat, err := floatParameter(r, "lat")
	if err != nil {
		return geo.LatLng{}, err
	}
	lon, err := floatParameter(r, "lon")
	if err != nil {
		return geo.LatLng{}, err
	}
	location := geo.LatLng{Lat: lat, Lng: lon}
	if !location.Valid() {
		return geo.LatLng{}, fmt.Errorf("location %s out of range", location)
	}
	return location, nil
}

func floatParameter(r *http.Request, name string) (float64, error) {
	value := r.FormValue(name)
	if value == "" {
		return 0, fmt.Errorf("%s: %w", name, errMissingParameter)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return f, nil
}

// optionalIntParameter returns defaultValue when the parameter is absent
func optionalIntParameter(r *http.Request, name string, defaultValue int) (int, error) {
	value := r.FormValue(name)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return i, nil
}

// optionalFloatParameter returns defaultValue when the parameter is absent
func optionalFloatParameter(r *http.Request, name string, defaultValue float64) (float64, error) {
	if r.FormValue(name) == "" {
		return defaultValue, nil
	}
	return floatParameter(r, name)
}

// optionalDateParameter parses a yyyymmdd date, returning the zero time when absent
func optionalDateParameter(r *http.Request, name string) (time.Time, error) {
	value := r.FormValue(name)
	if value == "" {
		return time.Time{}, nil
	}
	return schedule.ParseServiceDate(value)
}

// optionalHMSParameter parses an hh:mm:ss time of day, returning nil when absent
func optionalHMSParameter(r *http.Request, name string) (*schedule.HMS, error) {
	value := r.FormValue(name)
	if value == "" {
		return nil, nil
	}
	hms, err := schedule.ParseHMS(value)
	if err != nil {
		return nil, err
	}
	return &hms, nil
}
