package gtfsmanager

// stopRowReader implements gtfsRowReader for stops.txt
type stopRowReader struct {
	rows [][]string
}

func (r *stopRowReader) requiredColumns() []string {
	return []string{"stop_id", "stop_name", "stop_lat", "stop_lon"}
}

func (r *stopRowReader) addRow(parser *gtfsFileParser) error {
	row := []string{
		parser.getString("stop_id", false),
		parser.getString("stop_name", false),
		parser.getString("stop_lat", false),
		parser.getString("stop_lon", false),
		parser.getString("location_type", true),
	}
	if err := parser.getError(); err != nil {
		return err
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *stopRowReader) records() [][]string {
	return r.rows
}
