package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// RenderCSV turns CSV data into plain text, one "header: value" line per
// field with a blank line between records. The first record is treated as
// the header row. Records with more fields than the header get positional
// column names.
func RenderCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parsing csv: %w", err)
	}

	if len(records) < 2 {
		return "", nil
	}

	header := records[0]

	var sb strings.Builder
	for i, record := range records[1:] {
		if i > 0 {
			sb.WriteString("\n")
		}
		for col, value := range record {
			name := fmt.Sprintf("column_%d", col+1)
			if col < len(header) {
				name = strings.TrimSpace(header[col])
			}
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(strings.TrimSpace(value))
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}
