package fleet

import (
	"context"
	"log"
	"sync"
	"time"
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
	logger := log.New(&logWriter, "STRAETO_TEST : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logWriter.log = logger
	return &logWriter
}

func (t *testLogWriter) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logLines = append(t.logLines, string(p))
	return len(p), nil
}

// stubSource returns a fixed document or error and counts calls
type stubSource struct {
	mu      sync.Mutex
	name    string
	content []byte
	err     error
	calls   int
}

func (s *stubSource) Name() string {
	return s.name
}

func (s *stubSource) Fetch(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.content, s.err
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// testClock is a settable clock
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const networkDocument = `<?xml version="1.0" encoding="UTF-8"?>
<buses>
  <bus time="230307081000" lat="64.144800" lon="-21.926000" head="270" route="3" stop="A" next="B" code="6"/>
  <bus time="230307081005" lat="64.130000" lon="-21.880000" head="90" route="3" stop="B" next="C" code="7"/>
  <bus time="230307081010" lat="63.990000" lon="-22.600000" head="0" route="A57" stop="K1" next="K2" code="3"/>
  <bus time="2303070810" lat="64.1" lon="-21.9" route="3" stop="A" next="B" code="6"/>
  <bus time="230307081010" lat="64.1" lon="-21.9" stop="A" next="B" code="6"/>
  <bus time="230307081010" lat="64.1" lon="-21.9" route="3" next="B" code="6"/>
</buses>`

const fileDocument = `<buses>
  <bus time="230307075900" lat="64.143000" lon="-21.915000" head="0" route="R12" stop="X" next="Y" code="2"/>
</buses>`
