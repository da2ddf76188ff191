package webapi

import (
	"log"
	"net/http"
	"strings"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
)

// defaultClosestStops is the number of stops returned by /stops/closest when n is not given
const defaultClosestStops = 5

// stopSearchHandler lists stops by name, or every stop when no name is given
type stopSearchHandler struct {
	log   *log.Logger
	store *schedule.Store
}

// ServeHTTP implements stopSearchHandler's http.Handler interface
func (s *stopSearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	fuzzy := strings.ToLower(r.FormValue("fuzzy")) == "true"

	var stops []*schedule.Stop
	if name == "" {
		stops = s.store.Stops()
	} else {
		stops = s.store.StopsNamed(name, fuzzy)
	}
	result := make([]stopResponse, 0, len(stops))
	for _, stop := range stops {
		result = append(result, makeStopResponse(stop))
	}
	writeJSON(s.log, w, http.StatusOK, result)
}

// closestStopResponse is a stop and its distance from the requested location
type closestStopResponse struct {
	Stop       stopResponse `json:"stop"`
	DistanceKm float64      `json:"distanceKm"`
}

// closestStopsHandler lists the stops nearest to a location
type closestStopsHandler struct {
	log   *log.Logger
	store *schedule.Store
}

// ServeHTTP implements closestStopsHandler's http.Handler interface
func (c *closestStopsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	location, err := locationParameter(r)
	if err != nil {
		writeError(c.log, w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := optionalIntParameter(r, "n", defaultClosestStops)
	if err != nil {
		writeError(c.log, w, http.StatusBadRequest, err.Error())
		return
	}
	radius, err := optionalFloatParameter(r, "radius", 0)
	if err != nil {
		writeError(c.log, w, http.StatusBadRequest, err.Error())
		return
	}

	closest := c.store.ClosestStops(location, n, radius)
	result := make([]closestStopResponse, 0, len(closest))
	for _, sd := range closest {
		result = append(result, closestStopResponse{
			Stop:       makeStopResponse(sd.Stop),
			DistanceKm: sd.DistanceKm,
		})
	}
	writeJSON(c.log, w, http.StatusOK, result)
}
