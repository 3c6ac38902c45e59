// Package csvio parses CSV input into the header + label→value record
// shape the importer consumes.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Sheet is a parsed CSV file: the ordered header row and one label→value
// record per data row.
type Sheet struct {
	Headers []string
	Records []map[string]string
}

// Parse reads CSV from r. The first row is the header; header names are
// trimmed. Data rows may be ragged: missing trailing fields read as empty,
// extra fields are dropped. An input without a header row is an error; a
// header-only input yields zero records.
func Parse(r io.Reader) (Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := cr.Read()
	if err == io.EOF {
		return Sheet{}, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("reading CSV header: %w", err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
	}

	sheet := Sheet{Headers: headers}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return sheet, nil
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("reading CSV row %d: %w", len(sheet.Records)+2, err)
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		sheet.Records = append(sheet.Records, row)
	}
}
