package gtfsmanager

// calendarDateRowReader implements gtfsRowReader for calendar_dates.txt
type calendarDateRowReader struct {
	rows [][]string
}

func (r *calendarDateRowReader) requiredColumns() []string {
	return []string{"service_id", "date"}
}

func (r *calendarDateRowReader) addRow(parser *gtfsFileParser) error {
	row := []string{
		parser.getString("service_id", false),
		parser.getString("date", false),
		parser.getString("exception_type", true),
	}
	if err := parser.getError(); err != nil {
		return err
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *calendarDateRowReader) records() [][]string {
	return r.rows
}
