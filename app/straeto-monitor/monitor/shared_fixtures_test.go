package monitor

import (
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/business/prediction"
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
	logWriter.log = log.New(&logWriter, "STRAETO_MONITOR_TEST : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return &logWriter
}

func (t *testLogWriter) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logLines = append(t.logLines, string(p))
	return len(p), nil
}

func testNow() time.Time {
	return time.Date(2023, 3, 7, 8, 6, 0, 0, time.UTC)
}

// stubPredictor answers fixed predictions keyed by "<area>.<number>:<stopId>"
type stubPredictor struct {
	predictions map[string]prediction.Predictions
}

func (s *stubPredictor) Now() time.Time {
	return testNow()
}

func (s *stubPredictor) PredictedArrival(_ context.Context, routeNumber string, stopId string, areaPriority []string) (prediction.Predictions, bool) {
	p, ok := s.predictions[schedule.MakeRouteId(areaPriority[0], routeNumber)+":"+stopId]
	return p, ok
}

// collectingDestination records published messages, failing after failAfter messages when positive
type collectingDestination struct {
	mu        sync.Mutex
	messages  []*PredictionMessage
	failAfter int
}

func (c *collectingDestination) Publish(message *PredictionMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAfter > 0 && len(c.messages) >= c.failAfter {
		return errors.New("destination unavailable")
	}
	c.messages = append(c.messages, message)
	return nil
}

func (c *collectingDestination) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// buildTestStore loads ST.3 from A to B and AF.3 from C to A
func buildTestStore(t *testing.T, log *log.Logger) *schedule.Store {
	store := schedule.NewStore(log)
	if _, err := store.LoadStops([][]string{
		{"A", "Hlemmur", "64.143", "-21.915", "0"},
		{"B", "Lækjartorg", "64.1466", "-21.937", "0"},
		{"C", "BSÍ", "64.137", "-21.933", "0"},
	}); err != nil {
		t.Fatalf("unable to load test stops: %v", err)
	}
	if _, err := store.LoadTrips([][]string{
		{"ST.3", "20230101-MTWTF--", "T1", "Lækjartorg", "", "0", "", ""},
		{"AF.3", "AFSVC", "T2", "Hlemmur", "", "0", "", ""},
	}); err != nil {
		t.Fatalf("unable to load test trips: %v", err)
	}
	if _, err := store.LoadHalts([][]string{
		{"T1", "08:00:00", "08:00:00", "A", "1", "", "0"},
		{"T1", "08:10:00", "08:10:00", "B", "2", "", "0"},
		{"T2", "10:00:00", "10:00:00", "C", "1", "", "0"},
		{"T2", "10:15:00", "10:15:00", "A", "2", "", "0"},
	}); err != nil {
		t.Fatalf("unable to load test halts: %v", err)
	}
	store.Finalize()
	return store
}
