package main

import (
	"context"
	"fmt"
	logger "log"
	"os"
	"time"

	"github.com/OpenTransitTools/straeto/app/gtfs-loader/gtfsmanager"
	"github.com/OpenTransitTools/straeto/business/data/gtfs"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/foundation/database"
	"github.com/OpenTransitTools/straeto/foundation/httpclient"
	"github.com/ardanlabs/conf"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "GTFS_LOADER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("main: no .env file loaded: %v", err)
	}

	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User           string        `conf:"default:postgres"`
			Password       string        `conf:"default:postgres,noprint"`
			Host           string        `conf:"default:0.0.0.0"`
			Name           string        `conf:"default:postgres"`
			DisableTLS     bool          `conf:"default:true"`
			MaxConnectWait time.Duration `conf:"default:30s"`
		}
		GTFS struct {
			Url             string        `conf:"default:http://opendata.straeto.is/data/gtfs/gtfs.zip"`
			TempDir         string        `conf:"default:gtfs_tmp"`
			DownloadTimeout time.Duration `conf:"default:2m"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Maintain schedule data sets in database"
	if err := conf.Parse(os.Args[1:], "GTFS_LOADER", &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("GTFS_LOADER", &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString("GTFS_LOADER", &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// check reads a schedule without touching the database
	if cfg.Args.Num(0) == "check" {
		return checkSchedule(log, cfg.Args.Num(1))
	}

	// =========================================================================
	// Start Database

	log.Println("main: Initializing database support")

	ctx := context.Background()
	db, err := database.OpenWithRetry(ctx, log, database.Config{
		User:           cfg.DB.User,
		Password:       cfg.DB.Password,
		Host:           cfg.DB.Host,
		Name:           cfg.DB.Name,
		DisableTLS:     cfg.DB.DisableTLS,
		MaxConnectWait: cfg.DB.MaxConnectWait,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Printf("main: Database Stopping : %s", cfg.DB.Host)
		err = db.Close()
		if err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()

	switch cfg.Args.Num(0) {
	case "migrate":
		return gtfs.CreateSchema(db)
	case "load":
		path := cfg.Args.Num(1)
		if len(path) < 1 {
			return fmt.Errorf("expected schedule directory or zip file with command load")
		}
		if _, err = gtfsmanager.SaveSchedule(log, db, path); err != nil {
			return err
		}
		return gtfsmanager.ListSchedules(db, os.Stdout)
	case "download":
		client := httpclient.New(log, cfg.GTFS.DownloadTimeout)
		if _, err = gtfsmanager.DownloadSchedule(ctx, log, db, client, cfg.GTFS.TempDir, cfg.GTFS.Url); err != nil {
			return err
		}
		return gtfsmanager.ListSchedules(db, os.Stdout)
	case "delete":
		dataSetId, err := parseDataSetIdArg(1, cfg.Args)
		if err != nil {
			return err
		}
		return gtfsmanager.DeleteSchedule(log, db, dataSetId)
	case "list":
		return gtfsmanager.ListSchedules(db, os.Stdout)
	case "exportTrip":
		cmd, err := parseTripExportCmd(cfg.Args)
		if err != nil {
			return err
		}
		return gtfsmanager.ExportTripToJson(log, db, cmd.dataSetId, cmd.tripId, cmd.destinationFile)
	case "verify":
		return verifyLatestSchedule(log, db)
	default:
		fmt.Println("migrate: create schedule tables")
		fmt.Println("load <path>: record a schedule directory or zip file as a new data set")
		fmt.Println("download: download the schedule zip file and record it as a new data set")
		fmt.Println("check <path>: read and build a schedule without saving it")
		fmt.Println("verify: build the schedule from the latest saved data set")
		fmt.Println("delete <id>: remove a data set from the database")
		fmt.Println("list: list all data sets in the database")
		fmt.Println("exportTrip <id> <tripId> <file>: write stop times of a trip to a json file")
		usage, err := conf.Usage("GTFS_LOADER", &cfg)
		if err != nil {
			return fmt.Errorf("generating config usage: %w", err)
		}
		fmt.Println(usage)
	}
	return nil
}

// checkSchedule reads and builds the schedule at path, logging what was found
func checkSchedule(log *logger.Logger, path string) error {
	if len(path) < 1 {
		return fmt.Errorf("expected schedule directory or zip file with command check")
	}
	records, err := gtfsmanager.ReadSchedulePath(log, path)
	if err != nil {
		return err
	}
	_, calendar, err := gtfsmanager.LoadSchedule(log, records, schedule.DefaultAliasTable())
	if err != nil {
		return err
	}
	log.Printf("main: schedule at %s has calendar entries for %d dates", path, calendar.DateCount())
	return nil
}

// verifyLatestSchedule builds the schedule from the latest saved data set
func verifyLatestSchedule(log *logger.Logger, db *sqlx.DB) error {
	ds, err := gtfs.GetLatestSavedDataSet(db)
	if err != nil {
		return fmt.Errorf("unable to find a saved data set: %w", err)
	}
	records, err := gtfs.GetScheduleRecords(db, ds.Id)
	if err != nil {
		return err
	}
	_, _, err = gtfsmanager.LoadSchedule(log, records, schedule.DefaultAliasTable())
	if err != nil {
		return err
	}
	log.Printf("main: %v builds with %v", ds, records)
	return nil
}
