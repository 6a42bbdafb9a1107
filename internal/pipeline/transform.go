package pipeline

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/pkg/utils"
)

const defaultPageSize = 10

// Apply runs the configured stages over rows in the fixed order filter, sort,
// aggregate, group, paginate. The input slice is never modified. When both
// aggregations and groupBy are set, the single aggregate row is what gets
// grouped.
func Apply(rows []model.Row, cfg model.TransformConfig) ([]model.Row, error) {
	out := make([]model.Row, len(rows))
	copy(out, rows)

	if len(cfg.Filters) > 0 {
		out = FilterRows(out, cfg.Filters)
	}
	if cfg.Sort != nil && cfg.Sort.Column != "" {
		SortRows(out, *cfg.Sort)
	}
	if len(cfg.Aggregations) > 0 {
		var err error
		if out, err = Aggregate(out, cfg.Aggregations); err != nil {
			return nil, err
		}
	}
	if cfg.GroupBy != "" {
		out = Group(out, cfg.GroupBy)
	}
	if cfg.Pagination != nil {
		var err error
		if out, err = Paginate(out, *cfg.Pagination); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ------------------- Filter -------------------

// FilterRows keeps rows that satisfy every filter.
func FilterRows(rows []model.Row, filters []model.Filter) []model.Row {
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if matchesAll(r, filters) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(r model.Row, filters []model.Filter) bool {
	for _, f := range filters {
		if !matches(r[f.Column], f) {
			return false
		}
	}
	return true
}

// matches evaluates one predicate. Unknown operators keep the row.
func matches(v interface{}, f model.Filter) bool {
	switch strings.ToLower(f.Operator) {
	case model.OpEquals:
		return looseEqual(v, f.Value)
	case model.OpNotEquals:
		return !looseEqual(v, f.Value)
	case model.OpContains:
		fold := cases.Fold()
		return strings.Contains(fold.String(utils.String(v)), fold.String(utils.String(f.Value)))
	case model.OpGreaterThan:
		return compareNumeric(v, f.Value, func(a, b float64) bool { return a > b })
	case model.OpLessThan:
		return compareNumeric(v, f.Value, func(a, b float64) bool { return a < b })
	case model.OpGreaterEqual:
		return compareNumeric(v, f.Value, func(a, b float64) bool { return a >= b })
	case model.OpLessEqual:
		return compareNumeric(v, f.Value, func(a, b float64) bool { return a <= b })
	default:
		return true
	}
}

// compareNumeric is false whenever either side is not a number.
func compareNumeric(a, b interface{}, cmp func(a, b float64) bool) bool {
	fa, fb := utils.Numeric(a), utils.Numeric(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return false
	}
	return cmp(fa, fb)
}

// looseEqual treats a number and a numeric string as equal when their values
// match, so a CSV "42" equals a filter value of 42.
func looseEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if utils.IsNumber(a) || utils.IsNumber(b) {
		fa, fb := utils.Numeric(a), utils.Numeric(b)
		if !math.IsNaN(fa) && !math.IsNaN(fb) {
			return fa == fb
		}
		return false
	}
	if isScalar(a) && isScalar(b) {
		return utils.String(a) == utils.String(b)
	}
	return reflect.DeepEqual(a, b)
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	return utils.IsNumber(v)
}

// ------------------- Sort -------------------

// SortRows sorts rows in place, stably, by one column.
func SortRows(rows []model.Row, s model.Sort) {
	desc := strings.EqualFold(s.Direction, "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareValues(rows[i][s.Column], rows[j][s.Column])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// Sort ranks values by class before comparing within a class, so a column
// of mixed types still sorts the same way whatever the input order.
const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankOther
)

// sortRank puts numbers and numeric strings in one class.
func sortRank(v interface{}) int {
	switch val := v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case string:
		if utils.IsNumericLiteral(val) {
			return rankNumber
		}
		return rankString
	}
	if utils.IsNumber(v) || !math.IsNaN(utils.Numeric(v)) {
		return rankNumber
	}
	return rankOther
}

// compareValues orders nil, then booleans (false first), then numbers by
// value, then strings, then anything else by its string form.
func compareValues(a, b interface{}) int {
	ra, rb := sortRank(a), sortRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankNil:
		return 0
	case rankBool, rankNumber:
		return cmp.Compare(utils.Numeric(a), utils.Numeric(b))
	}
	return strings.Compare(utils.String(a), utils.String(b))
}

// ------------------- Paginate -------------------

// Paginate returns the 1-indexed page. A zero page means 1 and a zero size
// means 10; pages past the end are empty.
func Paginate(rows []model.Row, p model.Pagination) ([]model.Row, error) {
	if p.PageSize < 0 {
		return nil, &TransformError{Stage: "pagination", Message: fmt.Sprintf("pageSize must not be negative, got %d", p.PageSize)}
	}
	size := p.PageSize
	if size == 0 {
		size = defaultPageSize
	}
	page := p.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return []model.Row{}, nil
	}

	start := (page - 1) * size
	if start >= len(rows) {
		return []model.Row{}, nil
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], nil
}
