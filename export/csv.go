// Package export flattens a report into a two-column CSV download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/giygas/disease-dashboard/report"
)

const (
	// FileName is the name the download is offered under
	FileName = "disease_info.csv"
	// ContentType is the MIME type of the download
	ContentType = "text/csv"
)

var header = []string{"field", "value"}

// CSV writes one row per top-level field of r, in reply order. String
// values are written as-is; anything else is written as compact JSON.
func CSV(r *report.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, field := range r.Fields {
		value, err := cell(field.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to flatten field %q: %w", field.Key, err)
		}
		if err := w.Write([]string{field.Key, value}); err != nil {
			return nil, fmt.Errorf("failed to write field %q: %w", field.Key, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

func cell(raw json.RawMessage) (string, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", err
		}
		return text, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}
