package webapi

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/business/prediction"
	"github.com/OpenTransitTools/straeto/foundation/geo"
)

// stopResponse is the json presentation of a schedule.Stop
type stopResponse struct {
	Id       string     `json:"id"`
	Name     string     `json:"name"`
	Location geo.LatLng `json:"location"`
	Routes   []string   `json:"routes"`
}

func makeStopResponse(stop *schedule.Stop) stopResponse {
	return stopResponse{
		Id:       stop.Id,
		Name:     stop.Name,
		Location: stop.Location,
		Routes:   stop.VisitingRoutes(),
	}
}

// resolveRouteAndStop finds the requested route and stop, writing an error response and
// returning false when either can't be found
func resolveRouteAndStop(log *log.Logger,
	backend *Backend,
	w http.ResponseWriter,
	r *http.Request) (*schedule.Route, *schedule.Stop, bool) {
	number, areaPriority, err := routeParameter(r.FormValue("route"), backend.AreaPriority)
	if err != nil {
		writeError(log, w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	route := backend.Store.RouteByNumber(number, areaPriority)
	if route == nil {
		writeError(log, w, http.StatusNotFound, "unknown route "+r.FormValue("route"))
		return nil, nil, false
	}
	locator, err := stopLocatorParameter(r)
	if err != nil {
		writeError(log, w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	stop, err := backend.Store.Locate(locator)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, schedule.ErrStopNotFound) {
			status = http.StatusNotFound
		}
		writeError(log, w, status, err.Error())
		return nil, nil, false
	}
	return route, stop, true
}

// arrivalsResponse lists scheduled arrival times per direction
type arrivalsResponse struct {
	RouteId string              `json:"routeId"`
	Stop    stopResponse        `json:"stop"`
	Date    string              `json:"date"`
	Visits  bool                `json:"visits"`
	Times   prediction.Arrivals `json:"arrivals"`
}

// arrivalsHandler answers scheduled arrival queries
type arrivalsHandler struct {
	log     *log.Logger
	backend *Backend
}

func makeArrivalsHandler(log *log.Logger, backend *Backend) *arrivalsHandler {
	return &arrivalsHandler{
		log:     log,
		backend: backend,
	}
}

// ServeHTTP implements arrivalsHandler's http.Handler interface
func (a *arrivalsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, stop, ok := resolveRouteAndStop(a.log, a.backend, w, r)
	if !ok {
		return
	}
	n, err := optionalIntParameter(r, "n", prediction.DefaultArrivalCount)
	if err != nil {
		writeError(a.log, w, http.StatusBadRequest, err.Error())
		return
	}
	after, err := optionalHMSParameter(r, "after")
	if err != nil {
		writeError(a.log, w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := optionalDateParameter(r, "date")
	if err != nil {
		writeError(a.log, w, http.StatusBadRequest, err.Error())
		return
	}
	if date.IsZero() {
		date = a.backend.Predictor.Now()
	}

	arrivals, visits := a.backend.Predictor.Arrivals(prediction.ArrivalsQuery{
		RouteNumber:  route.Number,
		StopId:       stop.Id,
		N:            n,
		After:        after,
		Date:         date,
		AreaPriority: []string{route.Area},
	})
	writeJSON(a.log, w, http.StatusOK, arrivalsResponse{
		RouteId: route.Id,
		Stop:    makeStopResponse(stop),
		Date:    formatDate(date),
		Visits:  visits,
		Times:   arrivals,
	})
}

// predictionsResponse lists live arrival estimates per direction
type predictionsResponse struct {
	RouteId     string                 `json:"routeId"`
	Stop        stopResponse           `json:"stop"`
	Timestamp   int64                  `json:"timestamp"`
	Available   bool                   `json:"available"`
	Predictions prediction.Predictions `json:"predictions"`
}

// predictionsHandler answers live arrival estimate queries as json or gtfs-rt
type predictionsHandler struct {
	log     *log.Logger
	backend *Backend
}

func makePredictionsHandler(log *log.Logger, backend *Backend) *predictionsHandler {
	return &predictionsHandler{
		log:     log,
		backend: backend,
	}
}

// ServeHTTP implements predictionsHandler's http.Handler interface
func (p *predictionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.FormValue("format"))
	if format != "" && format != "json" && format != "gtfsrt" && format != "text" {
		writeError(p.log, w, http.StatusBadRequest, "format must be one of json, gtfsrt or text")
		return
	}
	route, stop, ok := resolveRouteAndStop(p.log, p.backend, w, r)
	if !ok {
		return
	}

	now := p.backend.Predictor.Now()
	predictions, available := p.backend.Predictor.PredictedArrival(r.Context(), route.Number, stop.Id,
		[]string{route.Area})
	if predictions == nil {
		predictions = make(prediction.Predictions)
	}

	switch format {
	case "gtfsrt":
		writeProtocolBuffer(p.log, buildFeedMessage(now, route, stop, predictions), w)
	case "text":
		writeProtocolBufferAsText(p.log, buildFeedMessage(now, route, stop, predictions), w)
	default:
		writeJSON(p.log, w, http.StatusOK, predictionsResponse{
			RouteId:     route.Id,
			Stop:        makeStopResponse(stop),
			Timestamp:   now.Unix(),
			Available:   available,
			Predictions: predictions,
		})
	}
}

// formatDate renders a service date the way it is requested
func formatDate(date time.Time) string {
	return date.Format("20060102")
}
