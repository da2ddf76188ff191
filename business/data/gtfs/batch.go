package gtfs

// recordBatchSize bounds the rows of a single insert so statements stay under postgres' parameter limit
const recordBatchSize = 1000

// recordInBatches executes the named insert statement for rows, recordBatchSize rows at a time
func recordInBatches[T any](dsTx *DataSetTransaction, statementString string, rows []T) error {
	statementString = dsTx.Tx.Rebind(statementString)
	for start := 0; start < len(rows); start += recordBatchSize {
		end := start + recordBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := dsTx.Tx.NamedExec(statementString, rows[start:end]); err != nil {
			return err
		}
	}
	return nil
}
