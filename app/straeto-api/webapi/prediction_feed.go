package webapi

import (
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/OpenTransitTools/straeto/business/data/schedule"
	"github.com/OpenTransitTools/straeto/business/prediction"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
)

// buildFeedMessage creates a gtfs-rt FeedMessage with one trip update entity per direction in predictions
func buildFeedMessage(now time.Time,
	route *schedule.Route,
	stop *schedule.Stop,
	predictions prediction.Predictions) *gtfs.FeedMessage {
	gtfsRealtimeVersion := "2.0"
	incrementality := gtfs.FeedHeader_FULL_DATASET
	timestamp := uint64(now.Unix())
	feedMessage := gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: &gtfsRealtimeVersion,
			Incrementality:      &incrementality,
			Timestamp:           &timestamp,
		},
		Entity: []*gtfs.FeedEntity{},
	}

	directions := make([]string, 0, len(predictions))
	for direction := range predictions {
		directions = append(directions, direction)
	}
	sort.Strings(directions)
	for _, direction := range directions {
		feedMessage.Entity = append(feedMessage.Entity,
			makePredictionFeedEntity(route, stop, direction, predictions[direction]))
	}
	return &feedMessage
}

// makePredictionFeedEntity creates a gtfs.FeedEntity holding the predicted arrival of route at stop towards direction
func makePredictionFeedEntity(route *schedule.Route,
	stop *schedule.Stop,
	direction string,
	arrival time.Time) *gtfs.FeedEntity {
	id := strings.Join([]string{route.Id, stop.Id, direction}, ":")
	routeId := route.Id
	stopId := stop.Id
	arrivalTime := arrival.Unix()
	scheduleRelationship := gtfs.TripUpdate_StopTimeUpdate_SCHEDULED
	return &gtfs.FeedEntity{
		Id: &id,
		TripUpdate: &gtfs.TripUpdate{
			Trip: &gtfs.TripDescriptor{
				RouteId: &routeId,
			},
			StopTimeUpdate: []*gtfs.TripUpdate_StopTimeUpdate{
				{
					StopId:               &stopId,
					Arrival:              &gtfs.TripUpdate_StopTimeEvent{Time: &arrivalTime},
					ScheduleRelationship: &scheduleRelationship,
				},
			},
		},
	}
}

// writeProtocolBuffer marshal gtfs.FeedMessage as protocol buffer to http.ResponseWriter
func writeProtocolBuffer(log *log.Logger, feedMessage *gtfs.FeedMessage, w http.ResponseWriter) {
	bytes, err := proto.Marshal(feedMessage)
	if err != nil {
		log.Printf("Failed to marshal gtfs.FeedMessage to bytes, error:%s", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/grtfeed")
	bytesWritten, err := w.Write(bytes)
	if err != nil {
		log.Printf("Error writing bytes to http.ResponseWriter, error:%s", err)
		return
	}
	log.Printf("wrote %d bytes for grtfeed", bytesWritten)
}

// writeProtocolBufferAsText write plain text formatting of gtfs.FeedMessage to http.ResponseWriter
func writeProtocolBufferAsText(log *log.Logger, feedMessage *gtfs.FeedMessage, w http.ResponseWriter) {
	stringResponse := prototext.MarshalOptions{Multiline: true}.Format(feedMessage)
	w.Header().Set("Content-Type", "text/plain")
	bytesWritten, err := w.Write([]byte(stringResponse))
	if err != nil {
		log.Printf("Error writing bytes to http.ResponseWriter, error:%s", err)
		return
	}
	log.Printf("wrote %d bytes for grtfeed in text format", bytesWritten)
}
