package gtfsmanager

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OpenTransitTools/straeto/business/data/schedule"
)

// gtfsRowReader collects one positional record per csv line of a gtfs file
type gtfsRowReader interface {
	// requiredColumns lists the header names that must be present in the file
	requiredColumns() []string

	// addRow reads the current line of parser, returning an error if the line can't be used
	addRow(parser *gtfsFileParser) error

	// records returns the rows collected so far
	records() [][]string
}

// gtfsFileParser reads a csv file with a header line, giving access to the columns of the current line by name.
// Errors found in a line are collected until the next line is read
type gtfsFileParser struct {
	fileName string
	line     int
	reader   *csv.Reader
	columns  map[string]int
	current  []string
	errors   []error
}

// makeGTFSFileParser creates a gtfsFileParser positioned on the header line of r
func makeGTFSFileParser(r io.Reader, fileName string) (*gtfsFileParser, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header of %s: %w", fileName, err)
	}
	removeBOMIfPresent(headers)
	columns := make(map[string]int, len(headers))
	for i, header := range headers {
		columns[strings.TrimSpace(header)] = i
	}
	return &gtfsFileParser{
		fileName: fileName,
		line:     1,
		reader:   reader,
		columns:  columns,
		current:  headers,
	}, nil
}

func removeBOMIfPresent(headers []string) {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
}

// checkColumns returns an error naming every column in names missing from the header
func (p *gtfsFileParser) checkColumns(names []string) error {
	var missing []string
	for _, name := range names {
		if _, ok := p.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("file %s is missing required column(s) %s", p.fileName, strings.Join(missing, ","))
	}
	return nil
}

// nextLine moves to the following line and clears the errors of the previous one
func (p *gtfsFileParser) nextLine() error {
	var err error
	p.current, err = p.reader.Read()
	p.line++
	p.errors = nil
	return err
}

// getString retrieves the trimmed value of column name in the current line.
// A missing column or empty value is an error unless optional
func (p *gtfsFileParser) getString(name string, optional bool) string {
	index, ok := p.columns[name]
	if !ok {
		if !optional {
			p.addParseError(fmt.Errorf("unable to find header: %s", name))
		}
		return ""
	}
	if index >= len(p.current) {
		if !optional {
			p.addParseError(fmt.Errorf("line is too short to find column %s", name))
		}
		return ""
	}
	value := strings.TrimSpace(p.current[index])
	if len(value) == 0 && !optional {
		p.addParseError(fmt.Errorf("missing required value in column %s", name))
	}
	return value
}

// getGTFSTime retrieves a gtfs time of day, accepting H:MM:SS, rendered as hh:mm:ss.
// Returns empty string if the value is empty or invalid
func (p *gtfsFileParser) getGTFSTime(name string, optional bool) string {
	value := p.getString(name, optional)
	if len(value) == 0 {
		return ""
	}
	seconds, err := secondsFromGTFSTime(value)
	if err != nil {
		p.addParseError(fmt.Errorf("unable to parse column %s: %w", name, err))
		return ""
	}
	return schedule.HMSFromSeconds(seconds).String()
}

// getError returns the errors found in the current line, if any
func (p *gtfsFileParser) getError() error {
	if len(p.errors) == 0 {
		return nil
	}
	return fmt.Errorf("in file %v, line %v: %w", p.fileName, p.line, errors.Join(p.errors...))
}

func (p *gtfsFileParser) addParseError(err error) {
	p.errors = append(p.errors, err)
}

// secondsFromGTFSTime parses seconds of the schedule day from a gtfs time in HH:MM:SS or H:MM:SS format.
// Times after midnight continue past 24:00:00, 25:35:00 is 1:35am on the following day.
func secondsFromGTFSTime(gtfsTime string) (int, error) {
	parts := strings.Split(gtfsTime, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected three colons in Time format: %s", gtfsTime)
	}
	var values [3]int
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return 0, err
		}
		if value < 0 || (i > 0 && value > 59) {
			return 0, fmt.Errorf("value %d out of range in %s", value, gtfsTime)
		}
		values[i] = value
	}
	return values[0]*3600 + values[1]*60 + values[2], nil
}

// loadGTFSRows feeds every line of parser into rowReader. Lines the reader can't use are skipped and returned,
// reading stops only if the file itself can't be read
func loadGTFSRows(parser *gtfsFileParser, rowReader gtfsRowReader) ([]error, error) {
	if err := parser.checkColumns(rowReader.requiredColumns()); err != nil {
		return nil, err
	}
	var skipped []error
	for {
		err := parser.nextLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return skipped, fmt.Errorf("unable to read %s at line %d: %w", parser.fileName, parser.line, err)
		}
		if err = rowReader.addRow(parser); err != nil {
			skipped = append(skipped, err)
		}
	}
	return skipped, nil
}
