package schedule

import (
	"log"
	"sort"
	"time"
)

const dateKeyLayout = "20060102"

// CalendarIndex records which raw service keys are active on which dates
type CalendarIndex struct {
	log      *log.Logger
	dates    map[string]map[string]bool
	holidays *holidayCalendar
}

// NewCalendarIndex creates an empty CalendarIndex
func NewCalendarIndex(log *log.Logger) *CalendarIndex {
	return &CalendarIndex{
		log:      log,
		dates:    make(map[string]map[string]bool),
		holidays: makeIcelandicHolidayCalendar(),
	}
}

func dateKey(date time.Time) string {
	return date.Format(dateKeyLayout)
}

// Load adds calendar records (service_code, yyyymmdd, exception_type) to the index.
// Presence of a record marks the service active on the date, exception_type is not interpreted.
// Malformed records are logged, reported and skipped
func (c *CalendarIndex) Load(records [][]string) *IngestReport {
	report := &IngestReport{Kind: CalendarRecordKind}
	for i, fields := range records {
		record, err := ParseCalendarRecord(fields)
		if err != nil {
			c.log.Printf("skipping %v", report.reject(i+1, err))
			continue
		}
		c.Add(record.ServiceCode, record.Date)
		report.Accepted++
	}
	if len(c.dates) == 0 {
		c.log.Printf("warning: calendar has no dates, no service will be active")
	}
	return report
}

// Add marks serviceKey active on date
func (c *CalendarIndex) Add(serviceKey string, date time.Time) {
	key := dateKey(date)
	services, ok := c.dates[key]
	if !ok {
		services = make(map[string]bool)
		c.dates[key] = services
	}
	services[serviceKey] = true
}

// IsActive returns true if serviceKey is listed on date
func (c *CalendarIndex) IsActive(serviceKey string, date time.Time) bool {
	return c.dates[dateKey(date)][serviceKey]
}

// ActiveServices returns the set of service keys listed on date
func (c *CalendarIndex) ActiveServices(date time.Time) map[string]bool {
	result := make(map[string]bool)
	for key := range c.dates[dateKey(date)] {
		result[key] = true
	}
	return result
}

// ActiveServiceKeys returns the sorted service keys listed on date
func (c *CalendarIndex) ActiveServiceKeys(date time.Time) []string {
	var result []string
	for key := range c.dates[dateKey(date)] {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}

// DateCount returns the number of dates with at least one active service
func (c *CalendarIndex) DateCount() int {
	return len(c.dates)
}

// Holiday returns the name of the public holiday on date, if any. It does not affect service activity
func (c *CalendarIndex) Holiday(date time.Time) (string, bool) {
	return c.holidays.holiday(date)
}
