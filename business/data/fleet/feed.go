package fleet

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OpenTransitTools/straeto/foundation/geo"
	"golang.org/x/net/html/charset"
)

const reportTimeLayout = "060102150405"

// statusDocument is the bus status feed, a root element holding one bus element per vehicle
type statusDocument struct {
	Buses []vehicleReport `xml:"bus"`
}

// vehicleReport holds the raw attributes of a bus element
type vehicleReport struct {
	Time    string `xml:"time,attr"`
	Lat     string `xml:"lat,attr"`
	Lon     string `xml:"lon,attr"`
	Heading string `xml:"head,attr"`
	Route   string `xml:"route,attr"`
	Stop    string `xml:"stop,attr"`
	Next    string `xml:"next,attr"`
	Code    string `xml:"code,attr"`
}

// decodeStatusDocument reads the vehicle reports of a status feed document
func decodeStatusDocument(content []byte) ([]vehicleReport, error) {
	d := xml.NewDecoder(bytes.NewReader(content))
	d.CharsetReader = charset.NewReaderLabel
	var document statusDocument
	if err := d.Decode(&document); err != nil {
		return nil, fmt.Errorf("unable to decode status document: %w", err)
	}
	return document.Buses, nil
}

// NormalizeRouteCode converts a feed route code to a route id. Codes starting with 'A' belong to
// area AF, codes starting with 'R' to area RY and plain numbers to the capital area ST
func NormalizeRouteCode(code string) (string, error) {
	switch {
	case len(code) == 0:
		return "", fmt.Errorf("missing route code")
	case strings.Count(code, ".") == 1:
		return code, nil
	case code[0] == 'A':
		return "AF." + code[1:], nil
	case code[0] == 'R':
		return "RY." + code[1:], nil
	case code[0] >= '1' && code[0] <= '9':
		return "ST." + code, nil
	}
	return "", fmt.Errorf("unrecognized route code %q", code)
}

// parseReportTime parses "yyMMddHHmmss" in location, years are taken to be in 2000-2099
func parseReportTime(s string, location *time.Location) (time.Time, error) {
	if len(s) < 12 {
		return time.Time{}, fmt.Errorf("report time %q is too short", s)
	}
	t, err := time.ParseInLocation(reportTimeLayout, s[0:12], location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid report time %q: %w", s, err)
	}
	// two digit years from 69 parse into the 1900s
	if t.Year() < 2000 {
		t = t.AddDate(100, 0, 0)
	}
	return t, nil
}

func parseOptionalFloat(s string) (float64, error) {
	if len(s) == 0 {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// makeBus validates a vehicleReport and converts it to a Bus
func makeBus(report vehicleReport, location *time.Location) (Bus, error) {
	timestamp, err := parseReportTime(report.Time, location)
	if err != nil {
		return Bus{}, err
	}
	routeId, err := NormalizeRouteCode(report.Route)
	if err != nil {
		return Bus{}, err
	}
	if len(report.Stop) == 0 || len(report.Next) == 0 {
		return Bus{}, fmt.Errorf("route %s report is missing stop or next stop", routeId)
	}
	lat, err := parseOptionalFloat(report.Lat)
	if err != nil {
		return Bus{}, fmt.Errorf("invalid latitude %q: %w", report.Lat, err)
	}
	lon, err := parseOptionalFloat(report.Lon)
	if err != nil {
		return Bus{}, fmt.Errorf("invalid longitude %q: %w", report.Lon, err)
	}
	position := geo.LatLng{Lat: lat, Lng: lon}
	if !position.Valid() {
		return Bus{}, fmt.Errorf("location %s out of range", geo.FormatLocation(position))
	}
	heading, err := parseOptionalFloat(report.Heading)
	if err != nil {
		return Bus{}, fmt.Errorf("invalid heading %q: %w", report.Heading, err)
	}
	code := 0
	if len(report.Code) > 0 {
		code, err = strconv.Atoi(report.Code)
		if err != nil {
			return Bus{}, fmt.Errorf("invalid status code %q: %w", report.Code, err)
		}
	}
	return Bus{
		RouteId:    routeId,
		StopId:     report.Stop,
		NextStopId: report.Next,
		Location:   position,
		Heading:    heading,
		Status:     StatusCode(code),
		Timestamp:  timestamp,
	}, nil
}
