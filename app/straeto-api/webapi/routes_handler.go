package webapi

import (
	"log"
	"net/http"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/gorilla/mux"
)

// resolveRoute finds the route named by the routeId path variable, writing an error response
// and returning nil when there is none
func resolveRoute(log *log.Logger, backend *Backend, w http.ResponseWriter, r *http.Request) *schedule.Route {
	requested := mux.Vars(r)["routeId"]
	number, areaPriority, err := routeParameter(requested, backend.AreaPriority)
	if err != nil {
		writeError(log, w, http.StatusBadRequest, err.Error())
		return nil
	}
	route := backend.Store.RouteByNumber(number, areaPriority)
	if route == nil {
		writeError(log, w, http.StatusNotFound, "unknown route "+requested)
	}
	return route
}

// routeScheduleResponse is the timetable of one route on one date,
// halt times keyed by terminus name then stop name
type routeScheduleResponse struct {
	RouteId    string                                `json:"routeId"`
	Date       string                                `json:"date"`
	Holiday    string                                `json:"holiday,omitempty"`
	Directions map[string]map[string][]schedule.HMS `json:"directions"`
}

// routeScheduleHandler answers the timetable of a route for a date, today by default
type routeScheduleHandler struct {
	log     *log.Logger
	backend *Backend
}

func makeRouteScheduleHandler(log *log.Logger, backend *Backend) *routeScheduleHandler {
	return &routeScheduleHandler{
		log:     log,
		backend: backend,
	}
}

// ServeHTTP implements routeScheduleHandler's http.Handler interface
func (h *routeScheduleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := resolveRoute(h.log, h.backend, w, r)
	if route == nil {
		return
	}
	date, err := optionalDateParameter(r, "date")
	if err != nil {
		writeError(h.log, w, http.StatusBadRequest, err.Error())
		return
	}
	if date.IsZero() {
		date = h.backend.Predictor.Now()
	}

	daySchedule := schedule.BuildDaySchedule(h.backend.Store, h.backend.Calendar, date)
	directions := daySchedule[route.Id]
	if directions == nil {
		directions = make(map[string]map[string][]schedule.HMS)
	}
	holiday, _ := h.backend.Calendar.Holiday(date)
	writeJSON(h.log, w, http.StatusOK, routeScheduleResponse{
		RouteId:    route.Id,
		Date:       formatDate(date),
		Holiday:    holiday,
		Directions: directions,
	})
}

// routeBusesResponse lists the buses last reported on a route
type routeBusesResponse struct {
	RouteId     string      `json:"routeId"`
	LastRefresh *time.Time  `json:"lastRefresh,omitempty"`
	Buses       []fleet.Bus `json:"buses"`
}

// routeBusesHandler answers the live buses of a route
type routeBusesHandler struct {
	log     *log.Logger
	backend *Backend
}

// ServeHTTP implements routeBusesHandler's http.Handler interface
func (h *routeBusesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := resolveRoute(h.log, h.backend, w, r)
	if route == nil {
		return
	}
	buses := h.backend.Fleet.BusesOnRoute(r.Context(), route.Id)
	if buses == nil {
		buses = []fleet.Bus{}
	}
	response := routeBusesResponse{
		RouteId: route.Id,
		Buses:   buses,
	}
	if lastRefresh := h.backend.Fleet.LastRefresh(); !lastRefresh.IsZero() {
		response.LastRefresh = &lastRefresh
	}
	writeJSON(h.log, w, http.StatusOK, response)
}

// calendarResponse lists the service keys active on a date
type calendarResponse struct {
	Date     string   `json:"date"`
	Services []string `json:"services"`
	Holiday  string   `json:"holiday,omitempty"`
}

// calendarHandler answers which services run on a date
type calendarHandler struct {
	log      *log.Logger
	calendar *schedule.CalendarIndex
}

// ServeHTTP implements calendarHandler's http.Handler interface
func (h *calendarHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	date, err := schedule.ParseServiceDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(h.log, w, http.StatusBadRequest, err.Error())
		return
	}
	services := h.calendar.ActiveServiceKeys(date)
	if services == nil {
		services = []string{}
	}
	holiday, _ := h.calendar.Holiday(date)
	writeJSON(h.log, w, http.StatusOK, calendarResponse{
		Date:     formatDate(date),
		Services: services,
		Holiday:  holiday,
	})
}
