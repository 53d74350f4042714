package sample

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/usestring/jsontypegen/pkg/value"
)

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// decodeCSV turns every data row into an object keyed by the header row.
// Short rows leave trailing columns absent; extra cells are named after
// their position.
func decodeCSV(body []byte) ([]value.Value, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.Comma = delimiter(body)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable field counts

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV parse error: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV")
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	rows := make([]value.Value, 0, len(records)-1)
	for _, rec := range records[1:] {
		members := make([]value.Member, 0, len(rec))
		for i, cell := range rec {
			name := ""
			if i < len(headers) {
				name = headers[i]
			}
			if name == "" {
				name = "column_" + strconv.Itoa(i+1)
			}
			members = append(members, value.Member{Key: name, Value: cellValue(cell)})
		}
		rows = append(rows, value.ObjectValue(members...))
	}
	return rows, nil
}

// cellValue types one cell: empty cells are null, and numbers and booleans
// keep their literal text.
func cellValue(cell string) value.Value {
	s := strings.TrimSpace(cell)
	switch {
	case s == "":
		return value.NullValue()
	case s == "true" || s == "false":
		return value.BoolValue(s == "true")
	case jsonNumber.MatchString(s):
		return value.NumberValue(s)
	}
	return value.StringValue(cell)
}

// delimiter picks tab when the header line has tabs and no commas.
func delimiter(body []byte) rune {
	line, _, _ := bytes.Cut(body, []byte("\n"))
	if bytes.ContainsRune(line, '\t') && !bytes.ContainsRune(line, ',') {
		return '\t'
	}
	return ','
}
