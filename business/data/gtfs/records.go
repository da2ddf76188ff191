package gtfs

import (
	"fmt"
	"log"
	"strconv"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/jmoiron/sqlx"
)

// ScheduleRecords holds the rows of a schedule in the positional layouts read by schedule.Store
// and schedule.CalendarIndex
type ScheduleRecords struct {
	Stops         [][]string
	Trips         [][]string
	StopTimes     [][]string
	CalendarDates [][]string
}

func (r *ScheduleRecords) String() string {
	return fmt.Sprintf("%d stops, %d trips, %d stop times, %d calendar dates",
		len(r.Stops), len(r.Trips), len(r.StopTimes), len(r.CalendarDates))
}

// Load builds and finalizes a schedule.Store and schedule.CalendarIndex from the records.
// A nil aliases keeps the default alias table. Malformed rows are logged and skipped, an error is returned only if no stops, trips or stop times could be loaded
func (r *ScheduleRecords) Load(log *log.Logger, aliases *schedule.AliasTable) (*schedule.Store, *schedule.CalendarIndex, error) {
	store := schedule.NewStore(log)
	if aliases != nil {
		store.SetAliases(aliases)
	}
	loads := []func([][]string) (*schedule.IngestReport, error){
		store.LoadStops,
		store.LoadTrips,
		store.LoadHalts,
	}
	for i, records := range [][][]string{r.Stops, r.Trips, r.StopTimes} {
		report, err := loads[i](records)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("%v", report)
	}
	store.Finalize()

	calendar := schedule.NewCalendarIndex(log)
	log.Printf("%v", calendar.Load(r.CalendarDates))
	return store, calendar, nil
}

// GetScheduleRecords reads every record of the data set, stop times ordered by trip and stop sequence
func GetScheduleRecords(db *sqlx.DB, dataSetId int64) (*ScheduleRecords, error) {
	stops, err := GetStops(db, dataSetId)
	if err != nil {
		return nil, fmt.Errorf("unable to read stops of data set %d: %w", dataSetId, err)
	}
	trips, err := GetTrips(db, dataSetId)
	if err != nil {
		return nil, fmt.Errorf("unable to read trips of data set %d: %w", dataSetId, err)
	}
	stopTimes, err := GetStopTimes(db, dataSetId)
	if err != nil {
		return nil, fmt.Errorf("unable to read stop times of data set %d: %w", dataSetId, err)
	}
	calendarDates, err := GetCalendarDates(db, dataSetId)
	if err != nil {
		return nil, fmt.Errorf("unable to read calendar dates of data set %d: %w", dataSetId, err)
	}

	records := ScheduleRecords{
		Stops:         make([][]string, 0, len(stops)),
		Trips:         make([][]string, 0, len(trips)),
		StopTimes:     make([][]string, 0, len(stopTimes)),
		CalendarDates: make([][]string, 0, len(calendarDates)),
	}
	for _, s := range stops {
		records.Stops = append(records.Stops, s.Fields())
	}
	for _, t := range trips {
		records.Trips = append(records.Trips, t.Fields())
	}
	for _, st := range stopTimes {
		records.StopTimes = append(records.StopTimes, st.Fields())
	}
	for _, cd := range calendarDates {
		records.CalendarDates = append(records.CalendarDates, cd.Fields())
	}
	return &records, nil
}

// RecordSchedule parses every row of records and saves the valid ones under dsTx.
// Rows that fail to parse are returned as errors and not recorded
func RecordSchedule(records *ScheduleRecords, dsTx *DataSetTransaction) ([]error, error) {
	var rejected []error
	reject := func(kind schedule.RecordKind, line int, err error) {
		rejected = append(rejected, &schedule.IngestError{Kind: kind, Line: line, Err: err})
	}

	stops := make([]*Stop, 0, len(records.Stops))
	for i, fields := range records.Stops {
		record, err := schedule.ParseStopRecord(fields)
		if err != nil {
			reject(schedule.StopRecordKind, i+1, err)
			continue
		}
		stops = append(stops, StopFromRecord(record))
	}
	trips := make([]*Trip, 0, len(records.Trips))
	for i, fields := range records.Trips {
		record, err := schedule.ParseTripRecord(fields)
		if err != nil {
			reject(schedule.TripRecordKind, i+1, err)
			continue
		}
		trips = append(trips, TripFromRecord(record))
	}
	stopTimes := make([]*StopTime, 0, len(records.StopTimes))
	for i, fields := range records.StopTimes {
		record, err := schedule.ParseStopTimeRecord(fields)
		if err != nil {
			reject(schedule.HaltRecordKind, i+1, err)
			continue
		}
		stopTimes = append(stopTimes, StopTimeFromRecord(record))
	}
	calendarDates := make([]*CalendarDate, 0, len(records.CalendarDates))
	for i, fields := range records.CalendarDates {
		record, err := schedule.ParseCalendarRecord(fields)
		if err != nil {
			reject(schedule.CalendarRecordKind, i+1, err)
			continue
		}
		calendarDates = append(calendarDates, CalendarDateFromRecord(record))
	}

	if err := RecordStops(stops, dsTx); err != nil {
		return rejected, fmt.Errorf("unable to record stops: %w", err)
	}
	if err := RecordTrips(trips, dsTx); err != nil {
		return rejected, fmt.Errorf("unable to record trips: %w", err)
	}
	if err := RecordStopTimes(stopTimes, dsTx); err != nil {
		return rejected, fmt.Errorf("unable to record stop times: %w", err)
	}
	if err := RecordCalendarDates(calendarDates, dsTx); err != nil {
		return rejected, fmt.Errorf("unable to record calendar dates: %w", err)
	}
	return rejected, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
