package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// BugRow is one rejected or failed row of an import.
type BugRow struct {
	RowData string
	Message string
}

// BugReport collects bug rows in the order they were found.
type BugReport struct {
	rows []BugRow
}

// Add records a failure. cells are echoed comma-joined.
func (b *BugReport) Add(cells []string, message string) {
	b.rows = append(b.rows, BugRow{RowData: strings.Join(cells, ","), Message: message})
}

func (b *BugReport) Len() int { return len(b.rows) }

func (b *BugReport) Rows() []BugRow {
	out := make([]BugRow, len(b.rows))
	copy(out, b.rows)
	return out
}

// CSV renders the report with a "Row Data","Error Message" header.
func (b *BugReport) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Row Data", "Error Message"}); err != nil {
		return nil, fmt.Errorf("failed to write bug report header: %w", err)
	}
	for _, row := range b.rows {
		if err := w.Write([]string{row.RowData, row.Message}); err != nil {
			return nil, fmt.Errorf("failed to write bug report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush bug report: %w", err)
	}
	return buf.Bytes(), nil
}
