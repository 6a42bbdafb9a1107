package pipeline

import (
	"strings"

	"dashboard-pipeline/internal/model"
)

const utf8BOM = "\uFEFF"

// ParseCSVLine splits one line on commas. A double quote toggles quoted mode
// and is dropped; commas inside quotes are kept. Escaped quotes ("") are not
// supported and fields are trimmed.
func ParseCSVLine(line string) []string {
	fields := make([]string, 0, 8)
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}

// ParseCSV parses text whose first non-blank line is the header. Every data
// line becomes a row keyed by header; short lines are padded with "" and
// extra fields are ignored. Newlines inside quoted fields are not supported.
// limit > 0 keeps only the first limit data lines.
func ParseCSV(text string, limit int) model.Dataset {
	lines := strings.Split(text, "\n")

	var headers []string
	rows := make([]model.Row, 0)
	for _, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if headers == nil {
			headers = ParseCSVLine(strings.TrimPrefix(line, utf8BOM))
			continue
		}
		if limit > 0 && len(rows) >= limit {
			break
		}

		fields := ParseCSVLine(line)
		row := make(model.Row, len(headers))
		for i, h := range headers {
			if _, dup := row[h]; dup {
				continue
			}
			if i < len(fields) {
				row[h] = fields[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return model.Dataset{Columns: uniqueHeaders(headers), Rows: rows}
}

// uniqueHeaders drops repeated header names; the first occurrence wins, for
// the column list and for row values alike.
func uniqueHeaders(hs []string) []string {
	seen := make(map[string]bool, len(hs))
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}
