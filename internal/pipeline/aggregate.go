package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"dashboard-pipeline/internal/model"
	"dashboard-pipeline/pkg/utils"
)

// Aggregation operations.
const (
	AggSum   = "sum"
	AggAvg   = "avg"
	AggMin   = "min"
	AggMax   = "max"
	AggCount = "count"
)

// Aggregate reduces rows to a single summary row. Each {column: op} pair
// contributes the key "{column}_{op}". Non-numeric values are dropped before
// the operation runs.
func Aggregate(rows []model.Row, aggs map[string]string) ([]model.Row, error) {
	cols := make([]string, 0, len(aggs))
	for col := range aggs {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	result := make(model.Row, len(aggs))
	for _, col := range cols {
		op := strings.ToLower(strings.TrimSpace(aggs[col]))
		val, err := aggregateColumn(numericValues(rows, col), op)
		if err != nil {
			return nil, &TransformError{Stage: "aggregations", Message: fmt.Sprintf("column %q: %v", col, err)}
		}
		result[col+"_"+op] = val
	}
	return []model.Row{result}, nil
}

// numericValues collects the column's values that convert to a number.
func numericValues(rows []model.Row, col string) []float64 {
	nums := make([]float64, 0, len(rows))
	for _, r := range rows {
		if f := utils.Numeric(r[col]); !math.IsNaN(f) {
			nums = append(nums, f)
		}
	}
	return nums
}

// aggregateColumn applies op to nums. min and max of nothing are null;
// avg of nothing is 0.
func aggregateColumn(nums []float64, op string) (interface{}, error) {
	switch op {
	case AggSum:
		return sum(nums), nil
	case AggAvg:
		if len(nums) == 0 {
			return 0.0, nil
		}
		return sum(nums) / float64(len(nums)), nil
	case AggMin:
		if len(nums) == 0 {
			return nil, nil
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n < m {
				m = n
			}
		}
		return m, nil
	case AggMax:
		if len(nums) == 0 {
			return nil, nil
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n > m {
				m = n
			}
		}
		return m, nil
	case AggCount:
		return float64(len(nums)), nil
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

func sum(nums []float64) float64 {
	var s float64
	for _, n := range nums {
		s += n
	}
	return s
}

// Group partitions rows by the string form of the groupBy column. Groups keep
// first-seen order; each becomes {groupBy: key, "items": rows, "count": n}.
func Group(rows []model.Row, groupBy string) []model.Row {
	order := make([]string, 0)
	groups := make(map[string][]model.Row)
	for _, r := range rows {
		key := utils.String(r[groupBy])
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	out := make([]model.Row, 0, len(order))
	for _, key := range order {
		items := groups[key]
		out = append(out, model.Row{
			groupBy: key,
			"items": items,
			"count": len(items),
		})
	}
	return out
}
