package main

import (
	"fmt"
	"strconv"

	"github.com/ardanlabs/conf"
)

// tripExportCmd contains required arguments for exportTrip command execution
type tripExportCmd struct {
	dataSetId       int64
	tripId          string
	destinationFile string
}

// parseTripExportCmd using conf.Args attempts to load tripExportCmd, returns error if any arguments are not present or malformed
func parseTripExportCmd(args conf.Args) (*tripExportCmd, error) {
	dataSetId, err := parseDataSetIdArg(1, args)
	if err != nil {
		return nil, err
	}
	tripId := args.Num(2)
	if len(tripId) < 1 {
		return nil, fmt.Errorf("expected trip id in position 2 with command exportTrip")
	}
	destinationFile := args.Num(3)
	if len(destinationFile) < 1 {
		return nil, fmt.Errorf("expected destination file in position 3 with command exportTrip")
	}
	return &tripExportCmd{
		dataSetId:       dataSetId,
		tripId:          tripId,
		destinationFile: destinationFile,
	}, nil
}

// parseDataSetIdArg retrieves and parses a data set id argument from args
func parseDataSetIdArg(argPosition int, args conf.Args) (int64, error) {
	dataSetIdString := args.Num(argPosition)
	if len(dataSetIdString) < 1 {
		return 0, fmt.Errorf("expected data set id in position %d", argPosition)
	}
	dataSetId, err := strconv.ParseInt(dataSetIdString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse data set Id %s, error: %w", dataSetIdString, err)
	}
	return dataSetId, nil
}
