// Package gtfs provides CRUD functionality for schedule data sets recorded in postgres
package gtfs

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// CreateSchema creates the schedule tables if they are not present
func CreateSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("unable to create schedule schema: %w", err)
	}
	return nil
}

// DataSetTransaction contains required data for recording new schedule records owned by a DataSet
type DataSetTransaction struct {
	DS DataSet
	Tx *sqlx.Tx
}

// DataSet encompasses a schedule loaded from a source at a point in time.
// Each recorded row shares the DataSet.Id value as part of the primary key.
type DataSet struct {
	Id int64
	// Source is the directory, zip file or url the schedule was read from
	Source   string    `db:"source"`
	LoadedAt time.Time `db:"loaded_at"`
	// SavedAt is set once every record of the data set has been recorded
	SavedAt *time.Time `db:"saved_at"`
}

func (d DataSet) String() string {
	return fmt.Sprintf("DataSet Id:%d, source:%s, loaded:%s savedAt:%s",
		d.Id, d.Source, formatTime(&d.LoadedAt), formatTime(d.SavedAt))
}

func formatTime(time *time.Time) string {
	if time == nil {
		return ""
	}
	return time.Format("2006-01-02T15:04:05")
}

/*
SaveDataSet saves new or updates existing DataSets. Existing records are determined by a non-zero DataSet.ID
*/
func SaveDataSet(tx *sqlx.Tx, ds *DataSet) error {
	if ds.Id != 0 {
		statementString := "update data_set set " +
			"source = :source, " +
			"loaded_at = :loaded_at, " +
			"saved_at = :saved_at " +
			" where id = :id"
		_, err := tx.NamedExec(statementString, ds)
		return err
	}
	statementString := "insert into data_set ( " +
		"source, " +
		"loaded_at, " +
		"saved_at) " +
		"values (" +
		":source, " +
		":loaded_at, " +
		":saved_at) returning id"
	rows, err := tx.NamedQuery(statementString, ds)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		return fmt.Errorf("no id returned for new data set")
	}
	return rows.Scan(&ds.Id)
}

// GetDataSet retrieves DataSet with dataSetId
func GetDataSet(db *sqlx.DB, dataSetId int64) (*DataSet, error) {
	query := "select * from data_set where id = $1"
	ds := DataSet{}
	err := db.Get(&ds, db.Rebind(query), dataSetId)
	return &ds, err
}

// GetLatestSavedDataSet retrieves the latest DataSet with a saved_at date
func GetLatestSavedDataSet(db *sqlx.DB) (*DataSet, error) {
	query := "select * from data_set where saved_at is not null order by saved_at desc, loaded_at desc limit 1"
	ds := DataSet{}
	err := db.Get(&ds, query)
	return &ds, err
}

// GetAllDataSets retrieves all DataSets currently loaded
func GetAllDataSets(db *sqlx.DB) ([]DataSet, error) {
	query := "select * from data_set order by id"
	var results []DataSet
	err := db.Select(&results, query)
	return results, err
}

// DeleteDataSet removes the DataSet and every record it owns, returning the number of rows removed per table
func DeleteDataSet(tx *sqlx.Tx, dataSetId int64) (map[string]int64, error) {
	deleteStatements := []struct {
		query string
		name  string
	}{
		{name: "stop_time", query: "delete from stop_time where data_set_id = ?"},
		{name: "trip", query: "delete from trip where data_set_id = ?"},
		{name: "stop", query: "delete from stop where data_set_id = ?"},
		{name: "calendar_date", query: "delete from calendar_date where data_set_id = ?"},
		{name: "data_set", query: "delete from data_set where id = ?"},
	}
	deleted := make(map[string]int64, len(deleteStatements))
	for _, deleteStatement := range deleteStatements {
		result, err := tx.Exec(tx.Rebind(deleteStatement.query), dataSetId)
		if err != nil {
			return deleted, fmt.Errorf("error running '%s' error:%w", deleteStatement.query, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return deleted, fmt.Errorf("error retrieving rows affected after '%s' error:%w", deleteStatement.query, err)
		}
		deleted[deleteStatement.name] = rows
	}
	return deleted, nil
}
