package gtfs

import (
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/jmoiron/sqlx"
)

// Trip contains data from a trip definition in a trips.txt file.
// ServiceId is the raw service code used as the calendar key
type Trip struct {
	DataSetId     int64  `db:"data_set_id" json:"data_set_id"`
	TripId        string `db:"trip_id" json:"trip_id"`
	RouteId       string `db:"route_id" json:"route_id"`
	ServiceId     string `db:"service_id" json:"service_id"`
	TripHeadsign  string `db:"trip_headsign" json:"trip_headsign"`
	TripShortName string `db:"trip_short_name" json:"trip_short_name"`
	DirectionId   string `db:"direction_id" json:"direction_id"`
	BlockId       string `db:"block_id" json:"block_id"`
	ShapeId       string `db:"shape_id" json:"shape_id"`
}

// TripFromRecord converts a parsed trip row
func TripFromRecord(r schedule.TripRecord) *Trip {
	return &Trip{
		TripId:        r.TripId,
		RouteId:       r.RouteId,
		ServiceId:     r.ServiceCode,
		TripHeadsign:  r.Headsign,
		TripShortName: r.ShortName,
		DirectionId:   r.Direction,
		BlockId:       r.BlockId,
		ShapeId:       r.ShapeId,
	}
}

// Fields returns the trip in the positional layout read by schedule.Store.LoadTrips
func (t *Trip) Fields() []string {
	return []string{t.RouteId, t.ServiceId, t.TripId, t.TripHeadsign, t.TripShortName, t.DirectionId, t.BlockId, t.ShapeId}
}

// RecordTrips saves trips to database in batch
func RecordTrips(trips []*Trip, dsTx *DataSetTransaction) error {
	for _, trip := range trips {
		trip.DataSetId = dsTx.DS.Id
	}
	statementString := "insert into trip ( " +
		"data_set_id, " +
		"trip_id, " +
		"route_id, " +
		"service_id, " +
		"trip_headsign, " +
		"trip_short_name, " +
		"direction_id, " +
		"block_id, " +
		"shape_id) " +
		"values (" +
		":data_set_id, " +
		":trip_id, " +
		":route_id, " +
		":service_id, " +
		":trip_headsign, " +
		":trip_short_name, " +
		":direction_id, " +
		":block_id, " +
		":shape_id)"
	return recordInBatches(dsTx, statementString, trips)
}

// GetTrips retrieves all trips of the data set
func GetTrips(db *sqlx.DB, dataSetId int64) ([]*Trip, error) {
	var results []*Trip
	err := db.Select(&results, db.Rebind("select * from trip where data_set_id = ? order by trip_id"), dataSetId)
	return results, err
}
