package pipeline

import (
	"strings"
	"time"

	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/pkg/utils"
)

// SampleSize is how many leading rows type inference looks at.
const SampleSize = 10

// dateLayouts are the date-like forms recognized during inference.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// InferSchema names columns from cols (or the first row's keys when cols is
// empty) and types each one from the first SampleSize rows. Nullability looks
// at every row. An empty row set yields an empty schema.
func InferSchema(rows []model.Row, cols []string) []model.ColumnSchema {
	if len(rows) == 0 {
		return []model.ColumnSchema{}
	}
	if len(cols) == 0 {
		cols = model.ColumnsOf(model.Dataset{Rows: rows[:1]})
	}

	sample := rows
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}

	out := make([]model.ColumnSchema, 0, len(cols))
	for _, col := range cols {
		out = append(out, model.ColumnSchema{
			Name:     col,
			Type:     inferType(nonEmpty(sample, col)),
			Nullable: hasEmpty(rows, col),
		})
	}
	return out
}

func nonEmpty(rows []model.Row, col string) []interface{} {
	vals := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		v, ok := r[col]
		if !ok || utils.IsEmpty(v) {
			continue
		}
		vals = append(vals, v)
	}
	return vals
}

func hasEmpty(rows []model.Row, col string) bool {
	for _, r := range rows {
		v, ok := r[col]
		if !ok || utils.IsEmpty(v) {
			return true
		}
	}
	return false
}

func inferType(vals []interface{}) model.ColumnType {
	if len(vals) == 0 {
		return model.TypeString
	}
	switch {
	case allMatch(vals, isNumberValue):
		return model.TypeNumber
	case allMatch(vals, isBoolValue):
		return model.TypeBoolean
	case allMatch(vals, isDateValue):
		return model.TypeDate
	}
	return model.TypeString
}

func allMatch(vals []interface{}, fn func(interface{}) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isNumberValue(v interface{}) bool {
	if utils.IsNumber(v) {
		return true
	}
	s, ok := v.(string)
	return ok && utils.IsNumericLiteral(s)
}

func isBoolValue(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return true
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s == "true" || s == "false"
	}
	return false
}

func isDateValue(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
