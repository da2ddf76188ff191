package gtfsmanager

// stopTimeRowReader implements gtfsRowReader for stop_times.txt
type stopTimeRowReader struct {
	rows [][]string
}

func (r *stopTimeRowReader) requiredColumns() []string {
	return []string{"trip_id", "arrival_time", "stop_id", "stop_sequence"}
}

func (r *stopTimeRowReader) addRow(parser *gtfsFileParser) error {
	row := []string{
		parser.getString("trip_id", false),
		parser.getGTFSTime("arrival_time", false),
		parser.getGTFSTime("departure_time", true),
		parser.getString("stop_id", false),
		parser.getString("stop_sequence", false),
		parser.getString("stop_headsign", true),
		parser.getString("pickup_type", true),
	}
	if err := parser.getError(); err != nil {
		return err
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *stopTimeRowReader) records() [][]string {
	return r.rows
}
