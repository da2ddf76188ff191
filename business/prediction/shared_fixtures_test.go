package prediction

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/foundation/geo"
)

type testLogWriter struct {
	logLines []string
	log      *log.Logger
}

func makeTestLogWriter() *testLogWriter {
	logWriter := testLogWriter{
		logLines: make([]string, 0),
	}
	logger := log.New(&logWriter, "STRAETO_TEST : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logWriter.log = logger
	return &logWriter
}

func (t *testLogWriter) Write(p []byte) (n int, err error) {
	t.logLines = append(t.logLines, string(p))
	return len(p), nil
}

const weekdayService = "20230101-MTWTF--"

var (
	stopA = geo.LatLng{Lat: 64.143, Lng: -21.915}
	stopB = geo.LatLng{Lat: 64.1466, Lng: -21.937}
	stopC = geo.LatLng{Lat: 64.122, Lng: -21.819}
	stopD = geo.LatLng{Lat: 64.137, Lng: -21.933}
)

// at returns the time of day on Tuesday 2023-03-07, a day weekdayService runs
func at(hour, minute, second int) time.Time {
	return time.Date(2023, 3, 7, hour, minute, second, 0, time.UTC)
}

func testStopRecords() [][]string {
	return [][]string{
		{"A", "Hlemmur", "64.143", "-21.915", "0"},
		{"B", "Lækjartorg", "64.1466", "-21.937", "0"},
		{"C", "Ártún", "64.122", "-21.819", "0"},
		{"D", "BSÍ", "64.137", "-21.933", "0"},
	}
}

func testTripRecords() [][]string {
	return [][]string{
		{"ST.3", weekdayService, "T1", "Ártún", "", "0", "", ""},
		{"ST.3", weekdayService, "T2", "Ártún", "", "0", "", ""},
		{"ST.3", weekdayService, "T3", "Hlemmur", "", "1", "", ""},
		{"AF.3", "AFSVC", "T5", "Hlemmur", "", "0", "", ""},
	}
}

func testHaltRecords() [][]string {
	return [][]string{
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
	}
}

func testCalendarRecords() [][]string {
	return [][]string{
		{weekdayService, "20230307", "1"},
		{weekdayService, "20230308", "1"},
		{"AFSVC", "20230307", "1"},
	}
}

// stubBuses serves fixed buses per route id
type stubBuses map[string][]fleet.Bus

func (s stubBuses) BusesOnRoute(_ context.Context, routeId string) []fleet.Bus {
	return s[routeId]
}

func buildTestPredictor(t *testing.T, logWriter *testLogWriter, now time.Time, buses stubBuses, debug bool) *Predictor {
	store := schedule.NewStore(logWriter.log)
	if _, err := store.LoadStops(testStopRecords()); err != nil {
		t.Fatalf("unable to load test stops: %v", err)
	}
	if _, err := store.LoadTrips(testTripRecords()); err != nil {
		t.Fatalf("unable to load test trips: %v", err)
	}
	if _, err := store.LoadHalts(testHaltRecords()); err != nil {
		t.Fatalf("unable to load test halts: %v", err)
	}
	store.Finalize()
	calendar := schedule.NewCalendarIndex(logWriter.log)
	calendar.Load(testCalendarRecords())
	return NewPredictor(logWriter.log, store, calendar, buses, Config{
		Location: time.UTC,
		Now:      func() time.Time { return now },
		Debug:    debug,
	})
}
