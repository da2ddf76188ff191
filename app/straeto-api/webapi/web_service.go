package webapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

// ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

// errorResponse is the json body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON marshals value to w with status, logging the size of the response
func writeJSON(log *log.Logger, w http.ResponseWriter, status int, value interface{}) {
	jsonData, err := json.Marshal(value)
	if err != nil {
		log.Printf("Error marshaling %T to json: error:%v\n", value, err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	byteCount, err := w.Write(jsonData)
	if err != nil {
		log.Printf("Error writing json response: %s", err)
		return
	}
	log.Printf("wrote %d bytes in json response.", byteCount)
}

// writeError sends message as a json errorResponse
func writeError(log *log.Logger, w http.ResponseWriter, status int, message string) {
	writeJSON(log, w, status, errorResponse{Error: message})
}

// createRouter registers every endpoint on a new router
func createRouter(log *log.Logger, backend *Backend) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	if backend.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(backend.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Handle("/arrivals", makeArrivalsHandler(log, backend)).Methods(http.MethodGet)
	r.Handle("/predictions", makePredictionsHandler(log, backend)).Methods(http.MethodGet)
	r.Handle("/stops", &stopSearchHandler{log: log, store: backend.Store}).Methods(http.MethodGet)
	r.Handle("/stops/closest", &closestStopsHandler{log: log, store: backend.Store}).Methods(http.MethodGet)
	r.Handle("/routes/{routeId}/schedule", makeRouteScheduleHandler(log, backend)).Methods(http.MethodGet)
	r.Handle("/routes/{routeId}/buses", &routeBusesHandler{log: log, backend: backend}).Methods(http.MethodGet)
	r.Handle("/calendar/{date}", &calendarHandler{log: log, calendar: backend.Calendar}).Methods(http.MethodGet)
	return r
}

// createServer creates configured http.Server for the api
func createServer(log *log.Logger, backend *Backend, httpPort int) *http.Server {
	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      createRouter(log, backend),
	}
	return srv
}

// runWebService starts up the web service, and terminates on shutdown signal
func runWebService(log *log.Logger,
	wg *sync.WaitGroup,
	backend *Backend,
	httpPort int,
	shutdownSignal chan bool,
) {
	defer wg.Done()
	srv := createServer(log, backend, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()

	<-shutdownSignal
	log.Printf("ending webservice on shutdown signal")
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
