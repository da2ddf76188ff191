package main

import (
	"context"
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OpenTransitTools/straeto/app/straeto-api/webapi"
	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/OpenTransitTools/straeto/business/data/gtfs"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/business/prediction"
	"github.com/OpenTransitTools/straeto/foundation/database"
	"github.com/OpenTransitTools/straeto/foundation/httpclient"
	"github.com/ardanlabs/conf"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "STRAETO_API : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
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
		DB struct {
			User           string        `conf:"default:postgres"`
			Password       string        `conf:"default:postgres,noprint"`
			Host           string        `conf:"default:0.0.0.0"`
			Name           string        `conf:"default:postgres"`
			DisableTLS     bool          `conf:"default:true"`
			MaxConnectWait time.Duration `conf:"default:30s"`
		}
		Web struct {
			Port int `conf:"default:8080"`
		}
		Fleet struct {
			StatusUrl       string        `conf:"noprint"`
			StatusFile      string        `conf:"default:resources/status.xml"`
			FetchTimeout    time.Duration `conf:"default:10s"`
			RefreshInterval time.Duration `conf:"default:60s"`
		}
		Schedule struct {
			TimeZone     string   `conf:"default:Atlantic/Reykjavik"`
			AliasFile    string   `conf:"help:optional yaml file of stop name aliases"`
			AreaPriority []string `conf:"default:ST;SU;VL;SN;NO;RY;AF"`
		}
		Prediction struct {
			Debug bool `conf:"default:false"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Scheduled and predicted bus arrivals"
	const prefix = "STRAETO_API"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
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

	location, err := time.LoadLocation(cfg.Schedule.TimeZone)
	if err != nil {
		return fmt.Errorf("loading time zone %s: %w", cfg.Schedule.TimeZone, err)
	}
	aliases := schedule.DefaultAliasTable()
	if cfg.Schedule.AliasFile != "" {
		aliases, err = schedule.LoadAliasFile(cfg.Schedule.AliasFile)
		if err != nil {
			return err
		}
		log.Printf("main: loaded %d stop name aliases from %s", aliases.Len(), cfg.Schedule.AliasFile)
	}

	// =========================================================================
	// Start Database

	log.Println("main: Initializing database support")

	db, err := database.OpenWithRetry(context.Background(), log, database.Config{
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

	store, calendar, err := loadLatestSchedule(log, db, aliases)
	if err != nil {
		return err
	}

	// =========================================================================
	// Start Fleet

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var sources []fleet.Source
	if cfg.Fleet.StatusUrl != "" {
		client := httpclient.New(log, cfg.Fleet.FetchTimeout)
		sources = append(sources, fleet.NewHTTPSource(client, cfg.Fleet.StatusUrl))
	} else {
		log.Printf("main: no bus status url configured, reading bus status from %s only", cfg.Fleet.StatusFile)
	}
	sources = append(sources, fleet.NewFileSource(cfg.Fleet.StatusFile))
	fleetState := fleet.NewState(log, fleet.Config{
		RefreshInterval: cfg.Fleet.RefreshInterval,
		Location:        location,
	}, fleet.NewMetrics(registry), sources...)

	predictor := prediction.NewPredictor(log, store, calendar, fleetState, prediction.Config{
		Location: location,
		Debug:    cfg.Prediction.Debug,
	})

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	webapi.StartServices(log, &webapi.Backend{
		Store:        store,
		Calendar:     calendar,
		Fleet:        fleetState,
		Predictor:    predictor,
		Gatherer:     registry,
		AreaPriority: cfg.Schedule.AreaPriority,
	}, cfg.Web.Port, cfg.Fleet.RefreshInterval, shutdown)
	return nil
}

// loadLatestSchedule builds the schedule from the most recently saved data set
func loadLatestSchedule(log *logger.Logger,
	db *sqlx.DB,
	aliases *schedule.AliasTable) (*schedule.Store, *schedule.CalendarIndex, error) {
	ds, err := gtfs.GetLatestSavedDataSet(db)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to find a saved schedule, run gtfs-loader first: %w", err)
	}
	records, err := gtfs.GetScheduleRecords(db, ds.Id)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("main: loading %v with %v", ds, records)
	return records.Load(log, aliases)
}
