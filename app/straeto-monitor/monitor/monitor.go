// Package monitor periodically predicts bus arrivals at watched stops and publishes them over nats
package monitor

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/OpenTransitTools/straeto/business/prediction"
)

// ArrivalPredictor estimates arrivals from live bus reports
type ArrivalPredictor interface {
	Now() time.Time
	PredictedArrival(ctx context.Context, routeNumber string, stopId string, areaPriority []string) (prediction.Predictions, bool)
}

// RunPredictionMonitorLoop predicts arrivals for every watch each loopDuration and publishes the results
// to destination until a shutdown signal arrives
func RunPredictionMonitorLoop(log *log.Logger,
	predictor ArrivalPredictor,
	watches []Watch,
	destination PredictionDestination,
	loopDuration time.Duration,
	shutdownSignal chan os.Signal) error {

	publisher := makePredictionPublisher(log, destination)

	// fires immediately the first time
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {

		select {
		case <-shutdownSignal:
			log.Printf("Exiting on shutdown signal")
			return nil
		case <-timer.C:
		}

		// mark the time we start working
		start := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), loopDuration)
		messages := predictWatches(ctx, predictor, watches)
		cancel()
		sent := publisher.publish(messages)

		// attempt to run the loop every loopDuration by subtracting the time it took to perform the work
		workTook := time.Since(start)

		log.Printf("published %d of %d predictions, work took %s\n", sent, len(messages), fmtDuration(workTook))

		// if the work took longer than loopDuration don't sleep at all on the next loop
		if workTook >= loopDuration {
			timer.Reset(0)
		} else {
			timer.Reset(loopDuration - workTook)
		}
	}
}

// predictWatches builds a PredictionMessage for each watch
func predictWatches(ctx context.Context, predictor ArrivalPredictor, watches []Watch) []*PredictionMessage {
	now := predictor.Now()
	messages := make([]*PredictionMessage, 0, len(watches))
	for _, watch := range watches {
		predictions, ok := predictor.PredictedArrival(ctx, watch.Number, watch.StopId, []string{watch.Area})
		if predictions == nil {
			predictions = make(prediction.Predictions)
		}
		messages = append(messages, &PredictionMessage{
			RouteId:     watch.RouteId,
			StopId:      watch.StopId,
			StopName:    watch.StopName,
			Timestamp:   now,
			Available:   ok,
			Predictions: predictions,
		})
	}
	return messages
}

// fmtDuration returns a string presentation of time.Duration for logging
func fmtDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	mill := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d.%d", h, m, mill)
}
