package monitor

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/OpenTransitTools/straeto/business/prediction"
	"github.com/nats-io/nats.go"
)

// PredictionMessage is published for every watch on every loop, Available is false when no live bus
// could be matched to the route
type PredictionMessage struct {
	RouteId     string                 `json:"routeId"`
	StopId      string                 `json:"stopId"`
	StopName    string                 `json:"stopName"`
	Timestamp   time.Time              `json:"timestamp"`
	Available   bool                   `json:"available"`
	Predictions prediction.Predictions `json:"predictions"`
}

// PredictionDestination is where prediction messages are sent
type PredictionDestination interface {
	Publish(message *PredictionMessage) error
}

// natsPredictionDestination sends prediction messages over nats as json
type natsPredictionDestination struct {
	natsConn          *nats.Conn
	predictionSubject string
}

// MakeNatsPredictionDestination creates a PredictionDestination publishing on predictionSubject
func MakeNatsPredictionDestination(natsConn *nats.Conn, predictionSubject string) PredictionDestination {
	return &natsPredictionDestination{
		natsConn:          natsConn,
		predictionSubject: predictionSubject,
	}
}

func (n *natsPredictionDestination) Publish(message *PredictionMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshaling PredictionMessage to json: %w", err)
	}
	return n.natsConn.Publish(n.predictionSubject, jsonData)
}

// predictionPublisher sends prediction messages to their destination, logging failures
type predictionPublisher struct {
	log         *log.Logger
	destination PredictionDestination
}

func makePredictionPublisher(log *log.Logger, destination PredictionDestination) *predictionPublisher {
	return &predictionPublisher{
		log:         log,
		destination: destination,
	}
}

// publish sends messages in order and returns how many were sent. Stops at the first failure
func (p *predictionPublisher) publish(messages []*PredictionMessage) int {
	for i, message := range messages {
		if err := p.destination.Publish(message); err != nil {
			p.log.Printf("Error publishing prediction for %s at %s: error:%v\n", message.RouteId, message.StopId, err)
			return i
		}
	}
	return len(messages)
}
