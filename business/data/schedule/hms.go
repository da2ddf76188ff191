package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// HMS is a time of day on a service date. Hour may be 24 or larger for halts after midnight
// that belong to the previous service date.
type HMS struct {
	Hour   int
	Minute int
	Second int
}

// NewHMS builds HMS from its components
func NewHMS(hour, minute, second int) HMS {
	return HMS{Hour: hour, Minute: minute, Second: second}
}

// HMSFromSeconds converts seconds after midnight into HMS
func HMSFromSeconds(seconds int) HMS {
	return HMS{
		Hour:   seconds / 3600,
		Minute: (seconds % 3600) / 60,
		Second: seconds % 60,
	}
}

// HMSOf returns the wall clock time of day of t in t's location
func HMSOf(t time.Time) HMS {
	return HMS{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// ParseHMS parses "hh:mm:ss", hours past 23 are accepted
func ParseHMS(s string) (HMS, error) {
	if len(s) != 8 || s[2] != ':' || s[5] != ':' {
		return HMS{}, fmt.Errorf("invalid time of day %q, expected hh:mm:ss", s)
	}
	hour, err := strconv.Atoi(s[0:2])
	if err != nil {
		return HMS{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(s[3:5])
	if err != nil {
		return HMS{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	second, err := strconv.Atoi(s[6:8])
	if err != nil {
		return HMS{}, fmt.Errorf("invalid second in %q: %w", s, err)
	}
	if hour < 0 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return HMS{}, fmt.Errorf("time of day %q out of range", s)
	}
	return HMS{Hour: hour, Minute: minute, Second: second}, nil
}

// Seconds returns the number of seconds after midnight
func (t HMS) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Before reports whether t is earlier than other
func (t HMS) Before(other HMS) bool {
	return t.Seconds() < other.Seconds()
}

func (t HMS) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// MarshalText renders HMS as "hh:mm:ss"
func (t HMS) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses "hh:mm:ss"
func (t *HMS) UnmarshalText(text []byte) error {
	parsed, err := ParseHMS(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// On returns the instant of t on serviceDate, adjusting for daylight saving transitions
func (t HMS) On(serviceDate time.Time) time.Time {
	return MakeScheduleTime(Get12AmTime(serviceDate), t.Seconds())
}

// getDLSTransitionSeconds provides the number of seconds offset for a 12am date later in the day after day light saving time is done
func getDLSTransitionSeconds(timeAt12 time.Time) int {
	before := time.Date(timeAt12.Year(), timeAt12.Month(), timeAt12.Day(), 0, 0, 0, 0, timeAt12.Location())
	after := time.Date(timeAt12.Year(), timeAt12.Month(), timeAt12.Day(), 5, 0, 0, 0, timeAt12.Location())
	_, beforeOffset := before.Zone()
	_, afterOffset := after.Zone()
	return afterOffset - beforeOffset
}

// MakeScheduleTime produces a time by adding seconds to a 12am date. Takes into account day light saving time
func MakeScheduleTime(timeAt12 time.Time, scheduleSeconds int) time.Time {
	offset := getDLSTransitionSeconds(timeAt12)
	scheduleSeconds = scheduleSeconds - offset
	return timeAt12.Add(time.Duration(scheduleSeconds) * time.Second)
}

// Get12AmTime returns midnight at the start of date's day in date's location
func Get12AmTime(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
