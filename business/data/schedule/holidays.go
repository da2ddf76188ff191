package schedule

import (
	"time"

	"github.com/rickar/cal/v2"
)

// icelandicHolidays are the public holidays of Iceland
var icelandicHolidays = []*cal.Holiday{
	{Name: "Nýársdagur", Type: cal.ObservancePublic, Month: time.January, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Skírdagur", Type: cal.ObservancePublic, Offset: -3, Func: cal.CalcEasterOffset},
	{Name: "Föstudagurinn langi", Type: cal.ObservancePublic, Offset: -2, Func: cal.CalcEasterOffset},
	{Name: "Páskadagur", Type: cal.ObservancePublic, Offset: 0, Func: cal.CalcEasterOffset},
	{Name: "Annar í páskum", Type: cal.ObservancePublic, Offset: 1, Func: cal.CalcEasterOffset},
	// first Thursday after April 18
	{Name: "Sumardagurinn fyrsti", Type: cal.ObservancePublic, Month: time.April, Day: 19, Weekday: time.Thursday, Offset: 1, Func: cal.CalcWeekdayFrom},
	{Name: "Verkalýðsdagurinn", Type: cal.ObservancePublic, Month: time.May, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Uppstigningardagur", Type: cal.ObservancePublic, Offset: 39, Func: cal.CalcEasterOffset},
	{Name: "Hvítasunnudagur", Type: cal.ObservancePublic, Offset: 49, Func: cal.CalcEasterOffset},
	{Name: "Annar í hvítasunnu", Type: cal.ObservancePublic, Offset: 50, Func: cal.CalcEasterOffset},
	{Name: "Þjóðhátíðardagurinn", Type: cal.ObservancePublic, Month: time.June, Day: 17, Func: cal.CalcDayOfMonth},
	// first Monday of August
	{Name: "Frídagur verslunarmanna", Type: cal.ObservancePublic, Month: time.August, Weekday: time.Monday, Offset: 1, Func: cal.CalcWeekdayOffset},
	{Name: "Aðfangadagur", Type: cal.ObservancePublic, Month: time.December, Day: 24, Func: cal.CalcDayOfMonth},
	{Name: "Jóladagur", Type: cal.ObservancePublic, Month: time.December, Day: 25, Func: cal.CalcDayOfMonth},
	{Name: "Annar í jólum", Type: cal.ObservancePublic, Month: time.December, Day: 26, Func: cal.CalcDayOfMonth},
	{Name: "Gamlársdagur", Type: cal.ObservancePublic, Month: time.December, Day: 31, Func: cal.CalcDayOfMonth},
}

// holidayCalendar holds the public holidays of Iceland, used to annotate service dates
type holidayCalendar struct {
	calendar *cal.BusinessCalendar
}

func makeIcelandicHolidayCalendar() *holidayCalendar {
	calendar := cal.NewBusinessCalendar()
	calendar.AddHoliday(icelandicHolidays...)
	return &holidayCalendar{calendar: calendar}
}

// holiday returns the holiday's name if date is a public holiday
func (h *holidayCalendar) holiday(date time.Time) (string, bool) {
	actual, observed, holiday := h.calendar.IsHoliday(date)
	if (!actual && !observed) || holiday == nil {
		return "", false
	}
	return holiday.Name, true
}
