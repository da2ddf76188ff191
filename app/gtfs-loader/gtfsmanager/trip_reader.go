package gtfsmanager

// tripRowReader implements gtfsRowReader for trips.txt
type tripRowReader struct {
	rows [][]string
}

func (r *tripRowReader) requiredColumns() []string {
	return []string{"route_id", "service_id", "trip_id", "direction_id"}
}

func (r *tripRowReader) addRow(parser *gtfsFileParser) error {
	row := []string{
		parser.getString("route_id", false),
		parser.getString("service_id", false),
		parser.getString("trip_id", false),
		parser.getString("trip_headsign", true),
		parser.getString("trip_short_name", true),
		parser.getString("direction_id", false),
		parser.getString("block_id", true),
		parser.getString("shape_id", true),
	}
	if err := parser.getError(); err != nil {
		return err
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *tripRowReader) records() [][]string {
	return r.rows
}
