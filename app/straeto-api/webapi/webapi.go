// Package webapi serves scheduled and predicted bus arrivals, stop search and live fleet state over http
package webapi

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/business/prediction"
	"github.com/prometheus/client_golang/prometheus"
)

// FleetCache is the live bus state the web service reads from
type FleetCache interface {
	Refresh(ctx context.Context)
	BusesOnRoute(ctx context.Context, routeId string) []fleet.Bus
	LastRefresh() time.Time
}

// Backend holds everything requests are answered from
type Backend struct {
	Store     *schedule.Store
	Calendar  *schedule.CalendarIndex
	Fleet     FleetCache
	Predictor *prediction.Predictor
	// Gatherer is exposed on /metrics, nothing is exposed when nil
	Gatherer prometheus.Gatherer
	// AreaPriority is used to look up route numbers without an area, schedule.DefaultAreaPriority if empty
	AreaPriority []string
}

// StartServices brings up the fleet refresh loop and the web service. Returns on shutdown signal
func StartServices(log *log.Logger,
	backend *Backend,
	httpPort int,
	refreshEvery time.Duration,
	shutdownSignal chan os.Signal) {

	wg := sync.WaitGroup{}

	refreshLoopShutdown := make(chan bool, 1)
	webServiceShutdown := make(chan bool, 1)

	wg.Add(2)
	go runFleetRefreshLoop(log, &wg, backend.Fleet, refreshEvery, refreshLoopShutdown)
	go runWebService(log, &wg, backend, httpPort, webServiceShutdown)

	<-shutdownSignal
	log.Printf("Exiting on shutdown signal, shutting down subroutines")
	refreshLoopShutdown <- true
	webServiceShutdown <- true
	wg.Wait()
	log.Printf("Subroutines shut down, exiting straeto api")
}

// runFleetRefreshLoop keeps the fleet cache warm so requests rarely wait on the status feed
func runFleetRefreshLoop(log *log.Logger,
	wg *sync.WaitGroup,
	cache FleetCache,
	loopDuration time.Duration,
	shutdownSignal chan bool) {
	defer wg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-shutdownSignal:
			log.Printf("Exiting fleet refresh loop on shutdown signal")
			return
		case <-timer.C:
		}

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), loopDuration)
		cache.Refresh(ctx)
		cancel()

		workTook := time.Since(start)
		if workTook >= loopDuration {
			timer.Reset(0)
		} else {
			timer.Reset(loopDuration - workTook)
		}
	}
}
