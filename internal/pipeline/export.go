package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/pkg/utils"
)

// Export formats.
const (
	ExportCSV  = "csv"
	ExportJSON = "json"
)

// ExportResult describes a finished export.
type ExportResult struct {
	Format      string    `json:"format"`
	RecordCount int       `json:"recordCount"`
	ExportedAt  time.Time `json:"exportedAt"`
}

// Export writes rows to w as CSV or JSON. cols fixes the CSV column order;
// when empty it is taken from the first row.
func Export(w io.Writer, format string, cols []string, rows []model.Row) (ExportResult, error) {
	var (
		n   int
		err error
	)
	switch strings.ToLower(format) {
	case ExportCSV, "":
		format = ExportCSV
		n, err = exportCSV(w, cols, rows)
	case ExportJSON:
		n, err = exportJSON(w, rows)
	default:
		return ExportResult{}, fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return ExportResult{}, err
	}

	fmt.Printf("💾 Export successful: %d records exported as %s\n", n, format)
	return ExportResult{Format: format, RecordCount: n, ExportedAt: time.Now().UTC()}, nil
}

// exportCSV writes a header plus one line per row. Nested values are
// written as JSON.
func exportCSV(w io.Writer, cols []string, rows []model.Row) (int, error) {
	if len(cols) == 0 {
		cols = model.ColumnsOf(model.Dataset{Rows: rows})
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(cols); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	recordCount := 0
	line := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			line[i] = cell(r[c])
		}
		if err := writer.Write(line); err != nil {
			return recordCount, fmt.Errorf("failed to write row: %w", err)
		}
		recordCount++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return recordCount, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return recordCount, nil
}

func cell(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}, model.Row, []interface{}, []model.Row:
		b, err := json.Marshal(v)
		if err != nil {
			log.Printf("⚠️ export: cannot encode nested value: %v", err)
			return ""
		}
		return string(b)
	}
	return utils.String(v)
}

func exportJSON(w io.Writer, rows []model.Row) (int, error) {
	if rows == nil {
		rows = []model.Row{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return 0, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return len(rows), nil
}
