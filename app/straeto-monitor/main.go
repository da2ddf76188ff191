package main

import (
	"context"
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OpenTransitTools/straeto/app/straeto-monitor/monitor"
	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/OpenTransitTools/straeto/business/data/gtfs"
	"github.com/OpenTransitTools/straeto/business/prediction"
	"github.com/OpenTransitTools/straeto/foundation/database"
	"github.com/OpenTransitTools/straeto/foundation/httpclient"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "STRAETO_MONITOR : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
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
		NATS struct {
			Url               string `conf:"default:nats://localhost:4222"`
			PredictionSubject string `conf:"default:straeto-predictions"`
		}
		Fleet struct {
			StatusUrl       string        `conf:"noprint"`
			StatusFile      string        `conf:"default:resources/status.xml"`
			FetchTimeout    time.Duration `conf:"default:10s"`
			RefreshInterval time.Duration `conf:"default:60s"`
		}
		Monitor struct {
			Watches      []string      `conf:"help:watched stops given as route and stop id joined by a colon"`
			LoopEvery    time.Duration `conf:"default:30s"`
			TimeZone     string        `conf:"default:Atlantic/Reykjavik"`
			AreaPriority []string      `conf:"default:ST;SU;VL;SN;NO;RY;AF"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Publish predicted bus arrivals at watched stops"
	const prefix = "STRAETO_MONITOR"
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

	location, err := time.LoadLocation(cfg.Monitor.TimeZone)
	if err != nil {
		return fmt.Errorf("loading time zone %s: %w", cfg.Monitor.TimeZone, err)
	}

	// =========================================================================
	// Load schedule

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
	ds, err := gtfs.GetLatestSavedDataSet(db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("unable to find a saved schedule, run gtfs-loader first: %w", err)
	}
	records, err := gtfs.GetScheduleRecords(db, ds.Id)
	// the schedule is held in memory from here on
	if closeErr := db.Close(); closeErr != nil {
		log.Printf("main: error closing database: %v", closeErr)
	}
	if err != nil {
		return err
	}
	store, calendar, err := records.Load(log, nil)
	if err != nil {
		return err
	}
	log.Printf("main: loaded %v with %v", ds, records)

	watches, err := monitor.ResolveWatches(store, cfg.Monitor.Watches, cfg.Monitor.AreaPriority)
	if err != nil {
		return err
	}
	for _, watch := range watches {
		log.Printf("main: watching %v", watch)
	}

	// =========================================================================
	// Start NATS

	natsConn, err := nats.Connect(cfg.NATS.Url,
		nats.Name("straeto-monitor"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to nats at %s: %w", cfg.NATS.Url, err)
	}
	defer func() {
		log.Printf("main: NATS Stopping : %s", cfg.NATS.Url)
		if err := natsConn.Drain(); err != nil {
			log.Printf("main: error draining nats connection: %v", err)
		}
	}()

	var sources []fleet.Source
	if cfg.Fleet.StatusUrl != "" {
		sources = append(sources, fleet.NewHTTPSource(httpclient.New(log, cfg.Fleet.FetchTimeout), cfg.Fleet.StatusUrl))
	}
	sources = append(sources, fleet.NewFileSource(cfg.Fleet.StatusFile))
	fleetState := fleet.NewState(log, fleet.Config{
		RefreshInterval: cfg.Fleet.RefreshInterval,
		Location:        location,
	}, nil, sources...)

	predictor := prediction.NewPredictor(log, store, calendar, fleetState, prediction.Config{
		Location: location,
	})

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	return monitor.RunPredictionMonitorLoop(log, predictor, watches,
		monitor.MakeNatsPredictionDestination(natsConn, cfg.NATS.PredictionSubject),
		cfg.Monitor.LoopEvery, shutdown)
}
