package gtfsmanager

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/gtfs"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
)

// scheduleFile binds a gtfs file name to the reader of its rows
type scheduleFile struct {
	name     string
	optional bool
	reader   gtfsRowReader
}

// ReadSchedulePath reads a schedule from a directory or a zip file at path
func ReadSchedulePath(log *log.Logger, path string) (*gtfs.ScheduleRecords, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ReadScheduleDirectory(log, path)
	}
	return ReadScheduleZip(log, path)
}

// ReadScheduleDirectory reads stops.txt, trips.txt, stop_times.txt and calendar_dates.txt from directory
func ReadScheduleDirectory(log *log.Logger, directory string) (*gtfs.ScheduleRecords, error) {
	return ReadSchedule(log, os.DirFS(directory))
}

// ReadScheduleZip reads the schedule files from the zip file at path
func ReadScheduleZip(log *log.Logger, path string) (*gtfs.ScheduleRecords, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.Close(); err != nil {
			log.Printf("unable to close zip file %s, error: %v", path, err)
		}
	}()
	return ReadSchedule(log, r)
}

// ReadSchedule reads the schedule files from fsys into positional records.
// Lines that can't be read are logged and skipped. calendar_dates.txt may be absent
func ReadSchedule(log *log.Logger, fsys fs.FS) (*gtfs.ScheduleRecords, error) {
	stops := &stopRowReader{}
	trips := &tripRowReader{}
	stopTimes := &stopTimeRowReader{}
	calendarDates := &calendarDateRowReader{}
	files := []scheduleFile{
		{name: "stops.txt", reader: stops},
		{name: "trips.txt", reader: trips},
		{name: "stop_times.txt", reader: stopTimes},
		{name: "calendar_dates.txt", reader: calendarDates, optional: true},
	}
	if missing := getMissingFiles(fsys, files); len(missing) > 0 {
		return nil, fmt.Errorf("schedule is missing the following file(s) %s", strings.Join(missing, ","))
	}
	for _, file := range files {
		if err := readScheduleFile(log, fsys, file); err != nil {
			return nil, err
		}
	}
	return &gtfs.ScheduleRecords{
		Stops:         stops.records(),
		Trips:         trips.records(),
		StopTimes:     stopTimes.records(),
		CalendarDates: calendarDates.records(),
	}, nil
}

// getMissingFiles returns the names of required files not present in fsys
func getMissingFiles(fsys fs.FS, files []scheduleFile) []string {
	missingFileNames := make([]string, 0)
	for _, file := range files {
		if file.optional {
			continue
		}
		if _, err := fs.Stat(fsys, file.name); err != nil {
			missingFileNames = append(missingFileNames, file.name)
		}
	}
	return missingFileNames
}

func readScheduleFile(log *log.Logger, fsys fs.FS, file scheduleFile) error {
	start := time.Now()
	f, err := fsys.Open(file.name)
	if err != nil {
		if file.optional && errors.Is(err, fs.ErrNotExist) {
			log.Printf("%s not present, no calendar dates loaded\n", file.name)
			return nil
		}
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("unable to close %s, error: %v", file.name, err)
		}
	}()

	parser, err := makeGTFSFileParser(f, file.name)
	if err != nil {
		return err
	}
	log.Printf("Loading %s\n", file.name)
	skipped, err := loadGTFSRows(parser, file.reader)
	if err != nil {
		return err
	}
	for _, skipErr := range skipped {
		log.Printf("skipping %v", skipErr)
	}
	log.Printf("Loaded %d rows, skipped %d in file %s in %s\n", len(file.reader.records()), len(skipped),
		file.name, time.Since(start))
	return nil
}

// LoadSchedule builds a finalized schedule.Store and schedule.CalendarIndex from records
func LoadSchedule(log *log.Logger, records *gtfs.ScheduleRecords, aliases *schedule.AliasTable) (*schedule.Store, *schedule.CalendarIndex, error) {
	store, calendar, err := records.Load(log, aliases)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to build schedule from %v: %w", records, err)
	}
	return store, calendar, nil
}
