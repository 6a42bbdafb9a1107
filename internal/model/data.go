package model

import "sort"

// Row is a single record: column name to scalar value (string, float64, bool or nil).
// Values decoded from JSON may also hold nested objects; they are carried as-is.
type Row map[string]interface{}

// Dataset is the result of a fetch. Columns holds the first row's keys in the order
// they appeared in the source; Rows keeps source order.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`

	// Single is set when the source answered with one JSON object instead of a list.
	// Rows then holds exactly that object.
	Single bool `json:"single,omitempty"`
}

// Data returns the payload as callers see it: the object itself for single-object
// responses, otherwise the row list (never nil).
func (d Dataset) Data() interface{} {
	if d.Single && len(d.Rows) == 1 {
		return d.Rows[0]
	}
	if d.Rows == nil {
		return []Row{}
	}
	return d.Rows
}

// Len is the number of rows, counting a single object as one.
func (d Dataset) Len() int { return len(d.Rows) }

// ColumnsOf returns d.Columns, or the first row's keys sorted by name when the
// source order was not recorded.
func ColumnsOf(d Dataset) []string {
	if len(d.Columns) > 0 || len(d.Rows) == 0 {
		return d.Columns
	}
	cols := make([]string, 0, len(d.Rows[0]))
	for k := range d.Rows[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
