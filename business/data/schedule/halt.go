package schedule

// Halt is a scheduled stop of a trip at a stop
type Halt struct {
	TripId        string
	StopId        string
	Stop          *Stop
	StopSequence  int
	ArrivalTime   HMS
	DepartureTime HMS
	StopHeadsign  string
}

// TimeTo returns the number of seconds between this halt's arrival and other's arrival
func (h *Halt) TimeTo(other *Halt) int {
	if h == other {
		return 0
	}
	return other.ArrivalTime.Seconds() - h.ArrivalTime.Seconds()
}
