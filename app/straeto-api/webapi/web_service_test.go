package webapi

import (
	"net/http"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestDefaultHttpHandler(t *testing.T) {
	is := is.New(t)
	logWriter := makeTestLogWriter()
	backend := buildTestBackend(t, logWriter, at(8, 45, 0), &stubFleet{})

	rec := serve(t, logWriter, backend, "/")

	is.Equal(rec.Code, http.StatusOK)
	is.Equal(rec.Header().Get("Application-Status"), "OK")
}

func TestMetricsEndpoint(t *testing.T) {
	is := is.New(t)
	logWriter := makeTestLogWriter()
	backend := buildTestBackend(t, logWriter, at(8, 45, 0), &stubFleet{})

	rec := serve(t, logWriter, backend, "/metrics")

	is.Equal(rec.Code, http.StatusOK)
	is.True(strings.Contains(rec.Body.String(), "straeto_fleet_buses"))

	backend.Gatherer = nil
	rec = serve(t, logWriter, backend, "/metrics")
	is.Equal(rec.Code, http.StatusNotFound)
}

func Test_writeError(t *testing.T) {
	is := is.New(t)
	logWriter := makeTestLogWriter()
	backend := buildTestBackend(t, logWriter, at(8, 45, 0), &stubFleet{})

	rec := serve(t, logWriter, backend, "/arrivals?stop=A")

	is.Equal(rec.Code, http.StatusBadRequest)
	is.Equal(rec.Header().Get("Content-Type"), "application/json")
	var body errorResponse
	decodeBody(t, rec, &body)
	is.Equal(body.Error, "route: missing parameter")
}

func Test_runFleetRefreshLoop(t *testing.T) {
	is := is.New(t)
	logWriter := makeTestLogWriter()
	cache := &stubFleet{}
	wg := sync.WaitGroup{}
	shutdown := make(chan bool, 1)

	wg.Add(1)
	go runFleetRefreshLoop(logWriter.log, &wg, cache, 10*time.Millisecond, shutdown)

	deadline := time.Now().Add(5 * time.Second)
	for cache.refreshCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	shutdown <- true
	wg.Wait()

	is.True(cache.refreshCount() >= 2)
}

func Test_runFleetRefreshLoopStopsWithoutLeftoverGoroutines(t *testing.T) {
	is := is.New(t)
	cache := &stubFleet{}
	wg := sync.WaitGroup{}
	shutdown := make(chan bool, 1)
	before := runtime.NumGoroutine()

	wg.Add(1)
	go runFleetRefreshLoop(makeTestLogWriter().log, &wg, cache, time.Hour, shutdown)

	deadline := time.Now().Add(5 * time.Second)
	for cache.refreshCount() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	shutdown <- true
	wg.Wait()

	deadline = time.Now().Add(5 * time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	is.True(cache.refreshCount() == 1)
	is.True(runtime.NumGoroutine() <= before)
}
