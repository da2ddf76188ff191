package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	stopRecordFields     = 5
	tripRecordFields     = 8
	haltRecordFields     = 7
	calendarRecordFields = 3
)

var validate = validator.New()

// StopRecord is a parsed row of stop data: stop_id, name, lat, lon, location_type
type StopRecord struct {
	StopId       string  `validate:"required"`
	Name         string  `validate:"required"`
	Lat          float64 `validate:"gte=-90,lte=90"`
	Lon          float64 `validate:"gte=-180,lte=180"`
	LocationType int     `validate:"gte=0"`
}

// TripRecord is a parsed row of trip data:
// route_id, service_code, trip_id, headsign, short_name, direction, block_id, shape_id
type TripRecord struct {
	RouteId     string `validate:"required"`
	ServiceCode string `validate:"required"`
	TripId      string `validate:"required"`
	Headsign    string
	ShortName   string
	Direction   string `validate:"oneof=0 1"`
	BlockId     string
	ShapeId     string
}

// StopTimeRecord is a parsed row of halt data:
// trip_id, arrival, departure, stop_id, stop_sequence, stop_headsign, pickup_type
type StopTimeRecord struct {
	TripId        string `validate:"required"`
	ArrivalTime   HMS
	DepartureTime HMS
	StopId        string `validate:"required"`
	StopSequence  int    `validate:"gte=1"`
	StopHeadsign  string
	PickupType    string
}

// CalendarRecord is a parsed row of calendar data: service_code, date (yyyymmdd), exception_type
type CalendarRecord struct {
	ServiceCode   string `validate:"required"`
	Date          time.Time
	ExceptionType string
}

func checkFieldCount(fields []string, expected int) error {
	if len(fields) != expected {
		return fmt.Errorf("expected %d fields, found %d", expected, len(fields))
	}
	return nil
}

func trimFields(fields []string) []string {
	result := make([]string, len(fields))
	for i, f := range fields {
		result[i] = strings.TrimSpace(f)
	}
	return result
}

func validateRecord(record interface{}) error {
	if err := validate.Struct(record); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}

// ParseStopRecord builds a validated StopRecord from raw fields
func ParseStopRecord(fields []string) (StopRecord, error) {
	if err := checkFieldCount(fields, stopRecordFields); err != nil {
		return StopRecord{}, err
	}
	f := trimFields(fields)
	lat, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return StopRecord{}, fmt.Errorf("unable to parse latitude %q: %w", f[2], err)
	}
	lon, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return StopRecord{}, fmt.Errorf("unable to parse longitude %q: %w", f[3], err)
	}
	locationType := 0
	if len(f[4]) > 0 {
		locationType, err = strconv.Atoi(f[4])
		if err != nil {
			return StopRecord{}, fmt.Errorf("unable to parse location type %q: %w", f[4], err)
		}
	}
	record := StopRecord{
		StopId:       f[0],
		Name:         f[1],
		Lat:          lat,
		Lon:          lon,
		LocationType: locationType,
	}
	return record, validateRecord(record)
}

// ParseTripRecord builds a validated TripRecord from raw fields
func ParseTripRecord(fields []string) (TripRecord, error) {
	if err := checkFieldCount(fields, tripRecordFields); err != nil {
		return TripRecord{}, err
	}
	f := trimFields(fields)
	record := TripRecord{
		RouteId:     f[0],
		ServiceCode: f[1],
		TripId:      f[2],
		Headsign:    f[3],
		ShortName:   f[4],
		Direction:   f[5],
		BlockId:     f[6],
		ShapeId:     f[7],
	}
	if err := validateRecord(record); err != nil {
		return TripRecord{}, err
	}
	if _, _, err := ParseRouteId(record.RouteId); err != nil {
		return TripRecord{}, err
	}
	return record, nil
}

// ParseStopTimeRecord builds a validated StopTimeRecord from raw fields.
// An empty departure time is taken to be the arrival time
func ParseStopTimeRecord(fields []string) (StopTimeRecord, error) {
	if err := checkFieldCount(fields, haltRecordFields); err != nil {
		return StopTimeRecord{}, err
	}
	f := trimFields(fields)
	arrival, err := ParseHMS(f[1])
	if err != nil {
		return StopTimeRecord{}, fmt.Errorf("arrival time: %w", err)
	}
	departure := arrival
	if len(f[2]) > 0 {
		departure, err = ParseHMS(f[2])
		if err != nil {
			return StopTimeRecord{}, fmt.Errorf("departure time: %w", err)
		}
	}
	sequence, err := strconv.Atoi(f[4])
	if err != nil {
		return StopTimeRecord{}, fmt.Errorf("unable to parse stop sequence %q: %w", f[4], err)
	}
	record := StopTimeRecord{
		TripId:        f[0],
		ArrivalTime:   arrival,
		DepartureTime: departure,
		StopId:        f[3],
		StopSequence:  sequence,
		StopHeadsign:  f[5],
		PickupType:    f[6],
	}
	return record, validateRecord(record)
}

// ParseCalendarRecord builds a validated CalendarRecord from raw fields.
// Dates must fall in years 2000 to 2100
func ParseCalendarRecord(fields []string) (CalendarRecord, error) {
	if err := checkFieldCount(fields, calendarRecordFields); err != nil {
		return CalendarRecord{}, err
	}
	f := trimFields(fields)
	date, err := ParseServiceDate(f[1])
	if err != nil {
		return CalendarRecord{}, err
	}
	record := CalendarRecord{
		ServiceCode:   f[0],
		Date:          date,
		ExceptionType: f[2],
	}
	return record, validateRecord(record)
}

// ParseServiceDate parses a yyyymmdd date in UTC
func ParseServiceDate(s string) (time.Time, error) {
	if len(s) != 8 {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyymmdd", s)
	}
	date, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if date.Year() < 2000 || date.Year() > 2100 {
		return time.Time{}, fmt.Errorf("date %q outside of years 2000 to 2100", s)
	}
	return date, nil
}
