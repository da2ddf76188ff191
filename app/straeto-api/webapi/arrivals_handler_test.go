package webapi

import (
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/OpenTransitTools/straeto/business/data/fleet"
	"github.com/matryer/is"
	"google.golang.org/protobuf/proto"
)

func TestArrivalsHandler(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantRouteId  string
		wantStopId   string
		wantVisits   bool
		wantArrivals map[string][]string
	}{
		{
			name:        "next arrival in each direction",
			target:      "/arrivals?route=3&stop=A&n=1",
			wantStatus:  http.StatusOK,
			wantRouteId: "ST.3",
			wantStopId:  "A",
			wantVisits:  true,
			wantArrivals: map[string][]string{
				"Ártún":   {"09:00:00"},
				"Hlemmur": {"08:50:00"},
			},
		},
		{
			name:        "stop by name",
			target:      "/arrivals?route=3&name=Hlemmur",
			wantStatus:  http.StatusOK,
			wantRouteId: "ST.3",
			wantStopId:  "A",
			wantVisits:  true,
			wantArrivals: map[string][]string{
				"Ártún":   {"09:00:00"},
				"Hlemmur": {"08:50:00"},
			},
		},
		{
			name:        "stop by location with explicit area and after",
			target:      "/arrivals?route=ST.3&lat=64.1221&lon=-21.8191&after=08:00:00&n=5",
			wantStatus:  http.StatusOK,
			wantRouteId: "ST.3",
			wantStopId:  "C",
			wantVisits:  true,
			wantArrivals: map[string][]string{
				"Ártún":   {"08:20:00", "09:20:00"},
				"Hlemmur": {"08:30:00"},
			},
		},
		{
			name:         "area only route",
			target:       "/arrivals?route=AF.3&stop=A&after=00:00:00",
			wantStatus:   http.StatusOK,
			wantRouteId:  "AF.3",
			wantStopId:   "A",
			wantVisits:   true,
			wantArrivals: map[string][]string{"Hlemmur": {"10:15:00"}},
		},
		{
			name:         "no service on date",
			target:       "/arrivals?route=3&stop=A&date=20230308",
			wantStatus:   http.StatusOK,
			wantRouteId:  "ST.3",
			wantStopId:   "A",
			wantVisits:   false,
			wantArrivals: map[string][]string{},
		},
		{
			name:       "unknown route",
			target:     "/arrivals?route=99&stop=A",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unknown stop",
			target:     "/arrivals?route=3&stop=ZZ",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing stop",
			target:     "/arrivals?route=3",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid after",
			target:     "/arrivals?route=3&stop=A&after=8",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid n",
			target:     "/arrivals?route=3&stop=A&n=two",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid location",
			target:     "/arrivals?route=3&lat=95&lon=-21.9",
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logWriter := makeTestLogWriter()
			backend := buildTestBackend(t, logWriter, at(8, 45, 0), &stubFleet{})

			rec := serve(t, logWriter, backend, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got struct {
				RouteId  string              `json:"routeId"`
				Stop     stopResponse        `json:"stop"`
				Date     string              `json:"date"`
				Visits   bool                `json:"visits"`
				Arrivals map[string][]string `json:"arrivals"`
			}
			decodeBody(t, rec, &got)
			if got.RouteId != tt.wantRouteId {
				t.Errorf("routeId = %s, want %s", got.RouteId, tt.wantRouteId)
			}
			if got.Stop.Id != tt.wantStopId {
				t.Errorf("stop = %s, want %s", got.Stop.Id, tt.wantStopId)
			}
			if got.Visits != tt.wantVisits {
				t.Errorf("visits = %v, want %v", got.Visits, tt.wantVisits)
			}
			if !reflect.DeepEqual(got.Arrivals, tt.wantArrivals) {
				t.Errorf("arrivals = %v, want %v", got.Arrivals, tt.wantArrivals)
			}
		})
	}
}

func TestArrivalsHandler_defaultDate(t *testing.T) {
	is := is.New(t)
	logWriter := makeTestLogWriter()
	backend := buildTestBackend(t, logWriter, at(8, 45, 0), &stubFleet{})

	rec := serve(t, logWriter, backend, "/arrivals?route=3&stop=B")

	is.Equal(rec.Code, http.StatusOK)
	var got arrivalsResponse
	decodeBody(t, rec, &got)
	is.Equal(got.Date, "20230307")
	is.Equal(got.Stop.Name, "Lækjartorg")
	is.Equal(got.Stop.Routes, []string{"ST.3"})
}

func TestPredictionsHandler_json(t *testing.T) {
	tests := []struct {
		name            string
		target          string
		buses           []fleet.Bus
		wantStatus      int
		wantAvailable   bool
		wantPredictions map[string]time.Time
	}{
		{
			name:            "bus approaching",
			target:          "/predictions?route=3&stop=C",
			buses:           []fleet.Bus{busOn3("A", "B", stopA, at(8, 5, 0))},
			wantStatus:      http.StatusOK,
			wantAvailable:   true,
			wantPredictions: map[string]time.Time{"Ártún": at(8, 25, 0)},
		},
		{
			name:            "explicit json format",
			target:          "/predictions?route=3&format=json&name=" + url.QueryEscape("Ártún"),
			buses:           []fleet.Bus{busOn3("B", "C", stopB, at(8, 5, 0))},
			wantStatus:      http.StatusOK,
			wantAvailable:   true,
			wantPredictions: map[string]time.Time{"Ártún": at(8, 15, 0)},
		},
		{
			name:            "no buses reported",
			target:          "/predictions?route=3&stop=C",
			wantStatus:      http.StatusOK,
			wantAvailable:   false,
			wantPredictions: map[string]time.Time{},
		},
		{
			name:       "unknown format",
			target:     "/predictions?route=3&stop=C&format=xml",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown route",
			target:     "/predictions?route=77&stop=C",
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logWriter := makeTestLogWriter()
			cache := &stubFleet{buses: map[string][]fleet.Bus{"ST.3": tt.buses}}
			backend := buildTestBackend(t, logWriter, at(8, 6, 0), cache)

			rec := serve(t, logWriter, backend, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got predictionsResponse
			decodeBody(t, rec, &got)
			if got.RouteId != "ST.3" {
				t.Errorf("routeId = %s, want ST.3", got.RouteId)
			}
			if got.Timestamp != at(8, 6, 0).Unix() {
				t.Errorf("timestamp = %d, want %d", got.Timestamp, at(8, 6, 0).Unix())
			}
			if got.Available != tt.wantAvailable {
				t.Errorf("available = %v, want %v", got.Available, tt.wantAvailable)
			}
			if len(got.Predictions) != len(tt.wantPredictions) {
				t.Fatalf("predictions = %v, want %v", got.Predictions, tt.wantPredictions)
			}
			for direction, want := range tt.wantPredictions {
				if !got.Predictions[direction].Equal(want) {
					t.Errorf("prediction for %s = %v, want %v", direction, got.Predictions[direction], want)
				}
			}
		})
	}
}

func TestPredictionsHandler_gtfsrt(t *testing.T) {
	is := is.New(t)
	logWriter := makeTestLogWriter()
	cache := &stubFleet{buses: map[string][]fleet.Bus{"ST.3": {busOn3("A", "B", stopA, at(8, 5, 0))}}}
	backend := buildTestBackend(t, logWriter, at(8, 6, 0), cache)

	rec := serve(t, logWriter, backend, "/predictions?route=3&stop=C&format=gtfsrt")

	is.Equal(rec.Code, http.StatusOK)
	is.Equal(rec.Header().Get("Content-Type"), "application/grtfeed")
	feedMessage := gtfs.FeedMessage{}
	is.NoErr(proto.Unmarshal(rec.Body.Bytes(), &feedMessage))
	is.Equal(feedMessage.GetHeader().GetGtfsRealtimeVersion(), "2.0")
	is.Equal(feedMessage.GetHeader().GetTimestamp(), uint64(at(8, 6, 0).Unix()))
	is.Equal(len(feedMessage.GetEntity()), 1)
	entity := feedMessage.GetEntity()[0]
	is.Equal(entity.GetId(), "ST.3:C:Ártún")
	is.Equal(entity.GetTripUpdate().GetTrip().GetRouteId(), "ST.3")
	is.Equal(len(entity.GetTripUpdate().GetStopTimeUpdate()), 1)
	stopTimeUpdate := entity.GetTripUpdate().GetStopTimeUpdate()[0]
	is.Equal(stopTimeUpdate.GetStopId(), "C")
	is.Equal(stopTimeUpdate.GetArrival().GetTime(), at(8, 25, 0).Unix())
}

func TestPredictionsHandler_text(t *testing.T) {
	is := is.New(t)
	logWriter := makeTestLogWriter()
	cache := &stubFleet{buses: map[string][]fleet.Bus{"ST.3": {busOn3("A", "B", stopA, at(8, 5, 0))}}}
	backend := buildTestBackend(t, logWriter, at(8, 6, 0), cache)

	rec := serve(t, logWriter, backend, "/predictions?route=3&stop=C&format=text")

	is.Equal(rec.Code, http.StatusOK)
	is.Equal(rec.Header().Get("Content-Type"), "text/plain")
	is.True(strings.Contains(rec.Body.String(), "ST.3:C:Ártún"))
}

func Test_buildFeedMessage_orderedByDirection(t *testing.T) {
	is := is.New(t)
	logWriter := makeTestLogWriter()
	store, _ := buildTestStore(t, logWriter.log)
	route := store.Route("ST.3")
	stop := store.Stop("B")

	feedMessage := buildFeedMessage(at(8, 0, 0), route, stop, map[string]time.Time{
		"Hlemmur": at(8, 40, 0),
		"Ártún":   at(8, 10, 0),
	})

	is.Equal(len(feedMessage.Entity), 2)
	is.Equal(feedMessage.Entity[0].GetId(), "ST.3:B:Hlemmur")
	is.Equal(feedMessage.Entity[1].GetId(), "ST.3:B:Ártún")
}
