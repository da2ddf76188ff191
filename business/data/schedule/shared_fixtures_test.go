package schedule

import (
	"log"
	"testing"
	"time"
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

// testServiceDate is a Tuesday on which weekdayService runs
var testServiceDate = time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC)

func testStopRecords() [][]string {
	return [][]string{
		{"A", "Hlemmur", "64.143000", "-21.915000", "0"},
		{"B", "Lækjartorg", "64.146600", "-21.937000", "0"},
		{"C", "Ártún", "64.122000", "-21.819000", "0"},
		{"D", "BSÍ", "64.137000", "-21.933000", "0"},
		{"E", "Hlemmur", "64.143200", "-21.915500", "0"},
		{"F", "Mjódd - suður", "64.111000", "-21.843000", "0"},
	}
}

func testTripRecords() [][]string {
	return [][]string{
		{"ST.3", weekdayService, "T1", "Ártún", "", "0", "b1", ""},
		{"ST.3", weekdayService, "T2", "Ártún", "", "0", "b1", ""},
		{"ST.3", weekdayService, "T3", "Lækjartorg", "", "1", "b1", ""},
		{"AF.3", "AFSVC", "T5", "Hlemmur", "", "0", "", ""},
		{"ST.14", "SUNDAYS", "T6", "Mjódd", "", "0", "", ""},
	}
}

func testHaltRecords() [][]string {
	return [][]string{
		{"T1", "08:00:00", "08:00:00", "A", "1", "", "0"},
		{"T1", "08:10:00", "08:10:00", "B", "2", "", "0"},
		{"T1", "08:20:00", "08:20:00", "C", "3", "", "0"},
		{"T2", "09:00:00", "09:00:00", "A", "1", "", "0"},
		{"T2", "09:10:00", "09:10:00", "B", "2", "", "0"},
		{"T2", "09:20:00", "", "C", "3", "", "0"},
		{"T3", "08:30:00", "08:30:00", "C", "1", "", "0"},
		{"T3", "08:40:00", "08:40:00", "B", "2", "", "0"},
		{"T3", "08:50:00", "08:50:00", "A", "3", "", "0"},
		{"T5", "10:00:00", "10:00:00", "D", "1", "", "0"},
		{"T5", "10:15:00", "10:15:00", "A", "2", "", "0"},
		{"T6", "11:00:00", "11:00:00", "E", "1", "", "0"},
		{"T6", "11:30:00", "11:30:00", "F", "2", "", "0"},
	}
}

func testCalendarRecords() [][]string {
	return [][]string{
		{weekdayService, "20230307", "1"},
		{"AFSVC", "20230307", "1"},
		{"SUNDAYS", "20230305", "1"},
	}
}

func reversed(records [][]string) [][]string {
	result := make([][]string, len(records))
	for i, r := range records {
		result[len(records)-1-i] = r
	}
	return result
}

// buildTestStore loads the fixture network, failing the test on fatal load errors
func buildTestStore(t *testing.T, halts [][]string) *Store {
	logWriter := makeTestLogWriter()
	store := NewStore(logWriter.log)
	if _, err := store.LoadStops(testStopRecords()); err != nil {
		t.Fatalf("unable to load test stops: %v", err)
	}
	if _, err := store.LoadTrips(testTripRecords()); err != nil {
		t.Fatalf("unable to load test trips: %v", err)
	}
	if _, err := store.LoadHalts(halts); err != nil {
		t.Fatalf("unable to load test halts: %v", err)
	}
	store.Finalize()
	return store
}

func buildTestCalendar() *CalendarIndex {
	calendar := NewCalendarIndex(makeTestLogWriter().log)
	calendar.Load(testCalendarRecords())
	return calendar
}
