package gtfs

import (
	"strconv"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/jmoiron/sqlx"
)

// Stop contains a record from a stops.txt file
type Stop struct {
	DataSetId    int64   `db:"data_set_id" json:"data_set_id"`
	StopId       string  `db:"stop_id" json:"stop_id"`
	StopName     string  `db:"stop_name" json:"stop_name"`
	StopLat      float64 `db:"stop_lat" json:"stop_lat"`
	StopLon      float64 `db:"stop_lon" json:"stop_lon"`
	LocationType int     `db:"location_type" json:"location_type"`
}

// StopFromRecord converts a parsed stop row
func StopFromRecord(r schedule.StopRecord) *Stop {
	return &Stop{
		StopId:       r.StopId,
		StopName:     r.Name,
		StopLat:      r.Lat,
		StopLon:      r.Lon,
		LocationType: r.LocationType,
	}
}

// Fields returns the stop in the positional layout read by schedule.Store.LoadStops
func (s *Stop) Fields() []string {
	return []string{s.StopId, s.StopName, formatFloat(s.StopLat), formatFloat(s.StopLon), strconv.Itoa(s.LocationType)}
}

// RecordStops saves stops to database in batch
func RecordStops(stops []*Stop, dsTx *DataSetTransaction) error {
	for _, stop := range stops {
		stop.DataSetId = dsTx.DS.Id
	}
	statementString := "insert into stop ( " +
		"data_set_id, " +
		"stop_id, " +
		"stop_name, " +
		"stop_lat, " +
		"stop_lon, " +
		"location_type) " +
		"values (" +
		":data_set_id, " +
		":stop_id, " +
		":stop_name, " +
		":stop_lat, " +
		":stop_lon, " +
		":location_type)"
	return recordInBatches(dsTx, statementString, stops)
}

// GetStops retrieves all stops of the data set
func GetStops(db *sqlx.DB, dataSetId int64) ([]*Stop, error) {
	var results []*Stop
	err := db.Select(&results, db.Rebind("select * from stop where data_set_id = ? order by stop_id"), dataSetId)
	return results, err
}
