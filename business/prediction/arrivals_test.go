package prediction

import (
	"reflect"
	"testing"
	"time"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
)

func hmsRef(hour, minute, second int) *schedule.HMS {
	t := schedule.NewHMS(hour, minute, second)
	return &t
}

func TestPredictor_Arrivals(t *testing.T) {
	tests := []struct {
		name       string
		query      ArrivalsQuery
		want       Arrivals
		wantVisits bool
	}{
		{
			name:       "next arrival in each direction",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "C", N: 1, After: hmsRef(8, 0, 0)},
			want:       Arrivals{"Ártún": {schedule.NewHMS(8, 20, 0)}, "Hlemmur": {schedule.NewHMS(8, 30, 0)}},
			wantVisits: true,
		},
		{
			name:       "default count",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "C", After: hmsRef(8, 0, 0)},
			want:       Arrivals{"Ártún": {schedule.NewHMS(8, 20, 0), schedule.NewHMS(9, 20, 0)}, "Hlemmur": {schedule.NewHMS(8, 30, 0)}},
			wantVisits: true,
		},
		{
			name:       "earlier times excluded",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "C", N: 5, After: hmsRef(8, 30, 1)},
			want:       Arrivals{"Ártún": {schedule.NewHMS(9, 20, 0)}},
			wantVisits: true,
		},
		{
			name:       "after time itself included",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "B", N: 5, After: hmsRef(9, 10, 0)},
			want:       Arrivals{"Ártún": {schedule.NewHMS(9, 10, 0)}},
			wantVisits: true,
		},
		{
			name:       "no more buses today",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "C", After: hmsRef(10, 0, 0)},
			want:       Arrivals{},
			wantVisits: true,
		},
		{
			name:       "route never stops here",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "D", After: hmsRef(0, 0, 0)},
			want:       Arrivals{},
			wantVisits: false,
		},
		{
			name:       "area priority selects route",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "A", After: hmsRef(0, 0, 0), AreaPriority: []string{"AF", "ST"}},
			want:       Arrivals{"Hlemmur": {schedule.NewHMS(10, 15, 0)}},
			wantVisits: true,
		},
		{
			name:       "unknown route",
			query:      ArrivalsQuery{RouteNumber: "99", StopId: "A"},
			want:       Arrivals{},
			wantVisits: false,
		},
		{
			name:       "inactive date",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "C", After: hmsRef(0, 0, 0), Date: time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
			want:       Arrivals{},
			wantVisits: false,
		},
		{
			name:       "defaults to the current time",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "C"},
			want:       Arrivals{"Ártún": {schedule.NewHMS(9, 20, 0)}},
			wantVisits: true,
		},
		{
			name:       "today defaults to the current time",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "C", Date: at(0, 0, 0)},
			want:       Arrivals{"Ártún": {schedule.NewHMS(9, 20, 0)}},
			wantVisits: true,
		},
		{
			name:       "other date defaults to midnight",
			query:      ArrivalsQuery{RouteNumber: "3", StopId: "C", N: 5, Date: time.Date(2023, 3, 8, 0, 0, 0, 0, time.UTC)},
			want:       Arrivals{"Ártún": {schedule.NewHMS(8, 20, 0), schedule.NewHMS(9, 20, 0)}, "Hlemmur": {schedule.NewHMS(8, 30, 0)}},
			wantVisits: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildTestPredictor(t, makeTestLogWriter(), at(8, 45, 0), nil, false)
			got, visits := p.Arrivals(tt.query)
			if visits != tt.wantVisits {
				t.Errorf("Arrivals() visits = %v, want %v", visits, tt.wantVisits)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Arrivals() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_uniqueTimes(t *testing.T) {
	times := []schedule.HMS{
		schedule.NewHMS(8, 0, 0),
		schedule.NewHMS(8, 0, 0),
		schedule.NewHMS(8, 5, 0),
		schedule.NewHMS(9, 0, 0),
		schedule.NewHMS(9, 0, 0),
	}
	want := []schedule.HMS{schedule.NewHMS(8, 0, 0), schedule.NewHMS(8, 5, 0), schedule.NewHMS(9, 0, 0)}
	if got := uniqueTimes(times); !reflect.DeepEqual(got, want) {
		t.Errorf("uniqueTimes() = %v, want %v", got, want)
	}
}
