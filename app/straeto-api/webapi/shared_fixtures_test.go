package webapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/business/prediction"
	"github.com/OpenTransitTools/straeto/foundation/geo"
	"github.com/prometheus/client_golang/prometheus"
)

type testLogWriter struct {
	mu       sync.Mutex
	logLines []string
	log      *log.Logger
}

func makeTestLogWriter() *testLogWriter {
	logWriter := testLogWriter{
		logLines: make([]string, 0),
	}
	logWriter.log = log.New(&logWriter, "STRAETO_API_TEST : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return &logWriter
}

func (t *testLogWriter) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logLines = append(t.logLines, string(p))
	return len(p), nil
}

const weekdayService = "20230101-MTWTF--"

var (
	stopA = geo.LatLng{Lat: 64.143, Lng: -21.915}
	stopB = geo.LatLng{Lat: 64.1466, Lng: -21.937}
	stopC = geo.LatLng{Lat: 64.122, Lng: -21.819}
)

// at returns the time of day on Tuesday 2023-03-07
func at(hour, minute, second int) time.Time {
	return time.Date(2023, 3, 7, hour, minute, second, 0, time.UTC)
}

// buildTestStore loads route ST.3 running A -> B -> C ("Ártún") twice and C -> B -> A ("Hlemmur") once,
// plus AF.3 from D to A
func buildTestStore(t *testing.T, log *log.Logger) (*schedule.Store, *schedule.CalendarIndex) {
	store := schedule.NewStore(log)
	_, err := store.LoadStops([][]string{
		{"A", "Hlemmur", "64.143", "-21.915", "0"},
		{"B", "Lækjartorg", "64.1466", "-21.937", "0"},
		{"C", "Ártún", "64.122", "-21.819", "0"},
		{"D", "BSÍ", "64.137", "-21.933", "0"},
	})
	if err != nil {
		t.Fatalf("unable to load test stops: %v", err)
	}
	_, err = store.LoadTrips([][]string{
		{"ST.3", weekdayService, "T1", "Ártún", "", "0", "", ""},
		{"ST.3", weekdayService, "T2", "Ártún", "", "0", "", ""},
		{"ST.3", weekdayService, "T3", "Hlemmur", "", "1", "", ""},
		{"AF.3", "AFSVC", "T5", "Hlemmur", "", "0", "", ""},
	})
	if err != nil {
		t.Fatalf("unable to load test trips: %v", err)
	}
	_, err = store.LoadHalts([][]string{
		{"T1", "08:00:00", "08:00:00", "A", "1", "", "0"},
		{"T1", "08:10:00", "08:10:00", "B", "2", "", "0"},
		{"T1", "08:20:00", "08:20:00", "C", "3", "", "0"},
		{"T2", "09:00:00", "09:00:00", "A", "1", "", "0"},
		{"T2", "09:10:00", "09:10:00", "B", "2", "", "0"},
		{"T2", "09:20:00", "09:20:00", "C", "3", "", "0"},
		{"T3", "08:30:00", "08:30:00", "C", "1", "", "0"},
		{"T3", "08:40:00", "08:40:00", "B", "2", "", "0"},
		{"T3", "08:50:00", "08:50:00", "A", "3", "", "0"},
		{"T5", "10:00:00", "10:00:00", "D", "1", "", "0"},
		{"T5", "10:15:00", "10:15:00", "A", "2", "", "0"},
	})
	if err != nil {
		t.Fatalf("unable to load test halts: %v", err)
	}
	store.Finalize()
	calendar := schedule.NewCalendarIndex(log)
	calendar.Load([][]string{
		{weekdayService, "20230307", "1"},
		{"AFSVC", "20230307", "1"},
	})
	return store, calendar
}

// stubFleet serves fixed buses per route id and counts refreshes
type stubFleet struct {
	mu          sync.Mutex
	buses       map[string][]fleet.Bus
	lastRefresh time.Time
	refreshes   int
}

func (s *stubFleet) Refresh(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
}

func (s *stubFleet) refreshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes
}

func (s *stubFleet) BusesOnRoute(_ context.Context, routeId string) []fleet.Bus {
	return s.buses[routeId]
}

func (s *stubFleet) LastRefresh() time.Time {
	return s.lastRefresh
}

func busOn3(stopId, nextStopId string, location geo.LatLng, timestamp time.Time) fleet.Bus {
	return fleet.Bus{
		RouteId:    "ST.3",
		StopId:     stopId,
		NextStopId: nextStopId,
		Location:   location,
		Status:     fleet.Running,
		Timestamp:  timestamp,
	}
}

func buildTestBackend(t *testing.T, logWriter *testLogWriter, now time.Time, cache *stubFleet) *Backend {
	store, calendar := buildTestStore(t, logWriter.log)
	registry := prometheus.NewRegistry()
	fleet.NewMetrics(registry)
	return &Backend{
		Store:    store,
		Calendar: calendar,
		Fleet:    cache,
		Predictor: prediction.NewPredictor(logWriter.log, store, calendar, cache, prediction.Config{
			Location: time.UTC,
			Now:      func() time.Time { return now },
		}),
		Gatherer: registry,
	}
}

// serve runs target through the api router
func serve(t *testing.T, logWriter *testLogWriter, backend *Backend, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	createRouter(logWriter.log, backend).ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("unable to decode response %q: %v", rec.Body.String(), err)
	}
}
