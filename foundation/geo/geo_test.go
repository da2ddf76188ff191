package geo

import (
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		p1        LatLng
		p2        LatLng
		want      float64
		tolerance float64
	}{
		{
			name:      "munich to berlin",
			p1:        LatLng{Lat: 48.1372, Lng: 11.5756},
			p2:        LatLng{Lat: 52.5186, Lng: 13.4083},
			want:      504.2,
			tolerance: 0.1,
		},
		{
			name:      "same point",
			p1:        LatLng{Lat: 64.1466, Lng: -21.9426},
			p2:        LatLng{Lat: 64.1466, Lng: -21.9426},
			want:      0,
			tolerance: 0,
		},
		{
			name:      "close together in reykjavik",
			p1:        LatLng{Lat: 64.137035, Lng: -21.930584},
			p2:        LatLng{Lat: 64.139270, Lng: -21.930584},
			want:      0.2485,
			tolerance: 0.001,
		},
		{
			name:      "across the antimeridian",
			p1:        LatLng{Lat: 0, Lng: 179.9},
			p2:        LatLng{Lat: 0, Lng: -179.9},
			want:      22.239,
			tolerance: 0.01,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.p1, tt.p2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %f, want %f within %f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	is := is.New(t)
	a := LatLng{Lat: 64.1466, Lng: -21.9426}
	b := LatLng{Lat: 63.985, Lng: -22.6056}
	is.Equal(Distance(a, b), Distance(b, a))
	is.True(Distance(a, b) > 0)
}

func TestIsValidLatLng(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{name: "reykjavik", lat: 64.1466, lng: -21.9426, want: true},
		{name: "north pole", lat: 90, lng: 0, want: true},
		{name: "date line", lat: 0, lng: -180, want: true},
		{name: "latitude too large", lat: 90.0001, lng: 0, want: false},
		{name: "longitude too small", lat: 0, lng: -180.5, want: false},
		{name: "not a number", lat: math.NaN(), lng: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidLatLng(tt.lat, tt.lng); got != tt.want {
				t.Errorf("IsValidLatLng() = %v, want %v", got, tt.want)
			}
			if got := (LatLng{Lat: tt.lat, Lng: tt.lng}).Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatLocation(t *testing.T) {
	is := is.New(t)
	is.Equal(FormatLocation(LatLng{Lat: 64.1466, Lng: -21.9426}), "(64.146600,-21.942600)")
}
