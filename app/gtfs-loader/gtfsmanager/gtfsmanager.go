// Package gtfsmanager provides support for reading, saving, listing and deleting schedules in a database
package gtfsmanager

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/gtfs"
	"github.com/OpenTransitTools/straeto/foundation/httpclient"
	"github.com/jmoiron/sqlx"
)

// SaveSchedule reads the schedule directory or zip file at path and records it as a new gtfs.DataSet
func SaveSchedule(log *log.Logger, db *sqlx.DB, path string) (*gtfs.DataSet, error) {
	records, err := ReadSchedulePath(log, path)
	if err != nil {
		return nil, err
	}
	return saveScheduleRecords(log, db, path, records)
}

// DownloadSchedule retrieves a zipped schedule from url into downloadDirectory and records it as a new gtfs.DataSet
func DownloadSchedule(ctx context.Context,
	log *log.Logger,
	db *sqlx.DB,
	client *httpclient.Client,
	downloadDirectory string,
	url string) (*gtfs.DataSet, error) {

	err := makeDirectoryIfNotPresent(downloadDirectory)
	if err != nil {
		return nil, err
	}
	localZipFile := filepath.Join(downloadDirectory, "gtfs.zip")
	log.Printf("Downloading file from %s to %s\n", url, localZipFile)
	start := time.Now()
	content, err := client.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	if err = os.WriteFile(localZipFile, content, 0644); err != nil {
		return nil, err
	}
	// remove downloaded file after we are done
	defer func() {
		if err := os.Remove(localZipFile); err != nil {
			log.Printf("Unable to remove downloaded file. error:%v", err)
		}
	}()
	log.Printf("Downloaded %v bytes in %s\n", len(content), time.Since(start))

	records, err := ReadScheduleZip(log, localZipFile)
	if err != nil {
		return nil, err
	}
	return saveScheduleRecords(log, db, url, records)
}

// saveScheduleRecords records a new gtfs.DataSet inside a single transaction, marking it saved on success
func saveScheduleRecords(log *log.Logger, db *sqlx.DB, source string, records *gtfs.ScheduleRecords) (*gtfs.DataSet, error) {
	ds := gtfs.DataSet{
		Source:   source,
		LoadedAt: time.Now(),
	}
	err := transact(log, db, func(tx *sqlx.Tx) error {
		err := gtfs.SaveDataSet(tx, &ds)
		if err != nil {
			return err
		}
		dsTx := gtfs.DataSetTransaction{
			DS: ds,
			Tx: tx,
		}
		rejected, err := gtfs.RecordSchedule(records, &dsTx)
		for _, rejectErr := range rejected {
			log.Printf("skipping %v", rejectErr)
		}
		if err != nil {
			return err
		}
		savedAt := time.Now()
		ds.SavedAt = &savedAt
		return gtfs.SaveDataSet(tx, &ds)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Saved %v with %v", ds, records)
	return &ds, nil
}

// DeleteSchedule deletes all records associated with gtfs.DataSet with dataSetId
func DeleteSchedule(log *log.Logger, db *sqlx.DB, dataSetId int64) error {
	dataSet, err := gtfs.GetDataSet(db, dataSetId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no DataSet found with id %d", dataSetId)
		}
		return err
	}
	log.Printf("Removing dataSet %v", dataSet)
	return transact(log, db, func(tx *sqlx.Tx) error {
		deleted, err := gtfs.DeleteDataSet(tx, dataSet.Id)
		for table, rows := range deleted {
			log.Printf("Deleted %d lines from %s\n", rows, table)
		}
		return err
	})
}

// ListSchedules writes a line for every gtfs.DataSet to w
func ListSchedules(db *sqlx.DB, w io.Writer) error {
	dataSets, err := gtfs.GetAllDataSets(db)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintln(w, "Loaded DataSets:"); err != nil {
		return err
	}
	for _, ds := range dataSets {
		if _, err = fmt.Fprintln(w, ds); err != nil {
			return err
		}
	}
	return nil
}

// ExportTripToJson writes the stop times of tripId in the data set to destinationFile in json format
func ExportTripToJson(log *log.Logger,
	db *sqlx.DB,
	dataSetId int64,
	tripId string,
	destinationFile string) error {

	stopTimes, err := gtfs.GetTripStopTimes(db, dataSetId, []string{tripId})
	if err != nil {
		return err
	}
	if len(stopTimes) == 0 {
		return fmt.Errorf("unable to find trip %s in data set %d", tripId, dataSetId)
	}
	file, err := json.MarshalIndent(stopTimes, "", " ")
	if err != nil {
		return err
	}
	log.Printf("saving trip to %s", destinationFile)
	return os.WriteFile(destinationFile, file, 0644)
}

func makeDirectoryIfNotPresent(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err = os.MkdirAll(directory, os.ModePerm)
		if err != nil {
			return err
		}
	}
	return nil
}

/*
transact starts a Transaction on sqlx.DB, calls txFunc and commits or rolls back the transaction depending on the
return code of the txFunc result
*/
func transact(log *log.Logger, db *sqlx.DB, txFunc func(*sqlx.Tx) error) (err error) {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback() // err is non-nil; don't change it
			if rollbackErr != nil {
				log.Printf("Received error while attempting to rollback transaction. error:%v", rollbackErr)
			}
			return
		}
		err = tx.Commit() // err is nil; if Commit returns error update err
	}()
	err = txFunc(tx)
	return err
}
