package gtfs

import (
	"strconv"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/foundation/database"
	"github.com/jmoiron/sqlx"
)

// StopTime contains a record from a stop_times.txt file
// represents a scheduled arrival and departure at a stop, times in seconds after midnight of the service day.
type StopTime struct {
	DataSetId     int64  `db:"data_set_id" json:"data_set_id"`
	TripId        string `db:"trip_id" json:"trip_id"`
	StopSequence  int    `db:"stop_sequence" json:"stop_sequence"`
	StopId        string `db:"stop_id" json:"stop_id"`
	ArrivalTime   int    `db:"arrival_time" json:"arrival_time"`
	DepartureTime int    `db:"departure_time" json:"departure_time"`
	StopHeadsign  string `db:"stop_headsign" json:"stop_headsign"`
	PickupType    string `db:"pickup_type" json:"pickup_type"`
}

// StopTimeFromRecord converts a parsed stop time row
func StopTimeFromRecord(r schedule.StopTimeRecord) *StopTime {
	return &StopTime{
		TripId:        r.TripId,
		StopSequence:  r.StopSequence,
		StopId:        r.StopId,
		ArrivalTime:   r.ArrivalTime.Seconds(),
		DepartureTime: r.DepartureTime.Seconds(),
		StopHeadsign:  r.StopHeadsign,
		PickupType:    r.PickupType,
	}
}

// Fields returns the stop time in the positional layout read by schedule.Store.LoadHalts
func (st *StopTime) Fields() []string {
	return []string{
		st.TripId,
		schedule.HMSFromSeconds(st.ArrivalTime).String(),
		schedule.HMSFromSeconds(st.DepartureTime).String(),
		st.StopId,
		strconv.Itoa(st.StopSequence),
		st.StopHeadsign,
		st.PickupType,
	}
}

// RecordStopTimes saves stopTimes to database in batch
func RecordStopTimes(stopTimes []*StopTime, dsTx *DataSetTransaction) error {
	for _, stopTime := range stopTimes {
		stopTime.DataSetId = dsTx.DS.Id
	}

	statementString := "insert into stop_time ( " +
		"data_set_id, " +
		"trip_id, " +
		"stop_sequence, " +
		"stop_id, " +
		"arrival_time, " +
		"departure_time, " +
		"stop_headsign, " +
		"pickup_type) " +
		"values (" +
		":data_set_id, " +
		":trip_id, " +
		":stop_sequence, " +
		":stop_id, " +
		":arrival_time, " +
		":departure_time, " +
		":stop_headsign, " +
		":pickup_type)"
	return recordInBatches(dsTx, statementString, stopTimes)
}

// GetStopTimes retrieves all stop times of the data set ordered by trip and stop sequence
func GetStopTimes(db *sqlx.DB, dataSetId int64) ([]*StopTime, error) {
	var results []*StopTime
	err := db.Select(&results,
		db.Rebind("select * from stop_time where data_set_id = ? order by trip_id, stop_sequence"), dataSetId)
	return results, err
}

// GetTripStopTimes retrieves stop times of tripIds in the data set ordered by trip and stop sequence
func GetTripStopTimes(db *sqlx.DB, dataSetId int64, tripIds []string) ([]*StopTime, error) {
	statementString := "select * from stop_time where data_set_id = :data_set_id and trip_id in (:trip_ids) " +
		"order by trip_id, stop_sequence"
	rows, err := database.PrepareNamedQueryRowsFromMap(statementString, db, map[string]interface{}{
		"data_set_id": dataSetId,
		"trip_ids":    tripIds,
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	results := make([]*StopTime, 0)
	for rows.Next() {
		st := StopTime{}
		if err = rows.StructScan(&st); err != nil {
			return nil, err
		}
		results = append(results, &st)
	}
	return results, rows.Err()
}
