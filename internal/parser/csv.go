package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ParseCSV parses CSV data into an ordered sequence of field sequences.
// Standard CSV quoting is honored; CRLF and LF line endings both work.
// Rows may have varying field counts.
func ParseCSV(data []byte) ([][]string, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parsing failed: %w", err)
	}

	return rows, nil
}
