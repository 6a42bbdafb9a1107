package pipeline

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// TestParseCSV_RoundTrip verifies generated cells come back exactly.
func TestParseCSV_RoundTrip(t *testing.T) {
	t.Parallel()

	const nCols, nRows = 4, 25
	headers := make([]string, nCols)
	for j := range headers {
		headers[j] = fmt.Sprintf("col%d", j)
	}
	cells := make([][]string, nRows)
	var b strings.Builder
	b.WriteString(strings.Join(headers, ",") + "\n")
	for i := range cells {
		cells[i] = make([]string, nCols)
		for j := range cells[i] {
			cells[i][j] = fmt.Sprintf("r%d-c%d", i, j)
		}
		b.WriteString(strings.Join(cells[i], ",") + "\n")
	}

	ds := ParseCSV(b.String(), 0)
	if !reflect.DeepEqual(ds.Columns, headers) {
		t.Fatalf("columns: got %v, want %v", ds.Columns, headers)
	}
	if len(ds.Rows) != nRows {
		t.Fatalf("rows: got %d, want %d", len(ds.Rows), nRows)
	}
	for i, row := range ds.Rows {
		out := make([]string, nCols)
		for j, h := range headers {
			out[j] = row[h].(string)
		}
		if got, want := strings.Join(out, ","), strings.Join(cells[i], ","); got != want {
			t.Fatalf("row %d: got %q, want %q", i, got, want)
		}
	}
}

func TestParseCSVLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []string
	}{
		{"quoted comma", `"a,b",c`, []string{"a,b", "c"}},
		{"plain", "x, y ,z", []string{"x", "y", "z"}},
		{"empty fields", "a,,", []string{"a", "", ""}},
		{"single", "only", []string{"only"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCSVLine(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCSV_PadsShortLinesAndLimits(t *testing.T) {
	t.Parallel()

	text := "\uFEFFname,age,city\r\nalice,30\r\n\r\nbob,40,paris,extra\r\ncarol,50,rome\r\n"

	ds := ParseCSV(text, 2)
	if want := []string{"name", "age", "city"}; !reflect.DeepEqual(ds.Columns, want) {
		t.Fatalf("columns: got %v, want %v", ds.Columns, want)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(ds.Rows))
	}
	if ds.Rows[0]["city"] != "" {
		t.Fatalf("short line not padded: %v", ds.Rows[0])
	}
	if len(ds.Rows[1]) != 3 || ds.Rows[1]["city"] != "paris" {
		t.Fatalf("extra field not dropped: %v", ds.Rows[1])
	}
}

func TestParseCSV_HeaderOnlyAndEmpty(t *testing.T) {
	t.Parallel()

	if ds := ParseCSV("a,b\n", 0); len(ds.Rows) != 0 || len(ds.Columns) != 2 {
		t.Fatalf("header only: got %+v", ds)
	}
	if ds := ParseCSV("", 0); len(ds.Rows) != 0 || len(ds.Columns) != 0 {
		t.Fatalf("empty: got %+v", ds)
	}
}

func TestParseCSV_DuplicateHeaderFirstWins(t *testing.T) {
	t.Parallel()

	ds := ParseCSV("id,id,name\n1,2,x\n", 0)
	if want := []string{"id", "name"}; !reflect.DeepEqual(ds.Columns, want) {
		t.Fatalf("columns: got %v, want %v", ds.Columns, want)
	}
	if ds.Rows[0]["id"] != "1" {
		t.Fatalf("id: got %v, want 1", ds.Rows[0]["id"])
	}
}
