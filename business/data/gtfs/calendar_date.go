package gtfs

import (
	"time"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/jmoiron/sqlx"
)

// CalendarDate contains data from a record in a calendar_dates.txt file
type CalendarDate struct {
	DataSetId     int64     `db:"data_set_id"`
	ServiceId     string    `db:"service_id"`
	Date          time.Time `db:"date"`
	ExceptionType string    `db:"exception_type"`
}

// CalendarDateFromRecord converts a parsed calendar row
func CalendarDateFromRecord(r schedule.CalendarRecord) *CalendarDate {
	return &CalendarDate{
		ServiceId:     r.ServiceCode,
		Date:          r.Date,
		ExceptionType: r.ExceptionType,
	}
}

// Fields returns the calendar date in the positional layout read by schedule.CalendarIndex.Load
func (cd *CalendarDate) Fields() []string {
	return []string{cd.ServiceId, cd.Date.Format("20060102"), cd.ExceptionType}
}

// RecordCalendarDates saves calendarDates to database in batch
func RecordCalendarDates(calendarDates []*CalendarDate, dsTx *DataSetTransaction) error {
	for _, calendarDate := range calendarDates {
		calendarDate.DataSetId = dsTx.DS.Id
	}
	statementString := "insert into calendar_date ( " +
		"data_set_id, " +
		"service_id, " +
		"date, " +
		"exception_type) " +
		"values (" +
		":data_set_id, " +
		":service_id, " +
		":date, " +
		":exception_type)"
	return recordInBatches(dsTx, statementString, calendarDates)
}

// GetCalendarDates retrieves all calendar dates of the data set ordered by date
func GetCalendarDates(db *sqlx.DB, dataSetId int64) ([]*CalendarDate, error) {
	var results []*CalendarDate
	err := db.Select(&results,
		db.Rebind("select * from calendar_date where data_set_id = ? order by date, service_id"), dataSetId)
	return results, err
}
