package main

import (
	"reflect"
	"testing"

	"github.com/ardanlabs/conf"
)

func Test_parseTripExportCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    conf.Args
		want    *tripExportCmd
		wantErr bool
	}{
		{
			name: "all arguments",
			args: conf.Args{"exportTrip", "12", "T1", "trip.json"},
			want: &tripExportCmd{dataSetId: 12, tripId: "T1", destinationFile: "trip.json"},
		},
		{
			name:    "data set id not a number",
			args:    conf.Args{"exportTrip", "twelve", "T1", "trip.json"},
			wantErr: true,
		},
		{
			name:    "missing destination",
			args:    conf.Args{"exportTrip", "12", "T1"},
			wantErr: true,
		},
		{
			name:    "missing everything",
			args:    conf.Args{"exportTrip"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTripExportCmd(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTripExportCmd() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTripExportCmd() got = %v, want %v", got, tt.want)
			}
		})
	}
}
