package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStops is returned when a stop load leaves the store without any stop
	ErrNoStops = errors.New("no valid stop records found")
	// ErrNoTrips is returned when a trip load leaves the store without any trip
	ErrNoTrips = errors.New("no valid trip records found")
	// ErrNoHalts is returned when a halt load leaves the store without any halt
	ErrNoHalts = errors.New("no valid stop time records found")
	// ErrFinalized is returned when records are loaded after Finalize
	ErrFinalized = errors.New("schedule store has already been finalized")
	// ErrStopNotFound is returned when a StopLocator matches no stop
	ErrStopNotFound = errors.New("stop not found")
)

// RecordKind names the kind of input record an IngestError refers to
type RecordKind string

const (
	StopRecordKind     RecordKind = "stop"
	TripRecordKind     RecordKind = "trip"
	HaltRecordKind     RecordKind = "stop time"
	CalendarRecordKind RecordKind = "calendar date"
)

// IngestError describes an input record that was rejected during loading
type IngestError struct {
	Kind RecordKind
	Line int
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("in %v record, line %v: %v", e.Kind, e.Line, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// IngestReport summarizes a load operation
type IngestReport struct {
	Kind     RecordKind
	Accepted int
	Errors   []*IngestError
}

// Rejected returns the number of records skipped because of errors
func (r *IngestReport) Rejected() int {
	return len(r.Errors)
}

func (r *IngestReport) reject(line int, err error) *IngestError {
	ingestErr := &IngestError{Kind: r.Kind, Line: line, Err: err}
	r.Errors = append(r.Errors, ingestErr)
	return ingestErr
}

func (r *IngestReport) String() string {
	return fmt.Sprintf("%v records: %d accepted, %d rejected", r.Kind, r.Accepted, r.Rejected())
}
