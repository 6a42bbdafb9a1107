package model

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeBoolean ColumnType = "boolean"
	TypeDate    ColumnType = "date"
)

// ColumnSchema describes one inferred column.
type ColumnSchema struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	Nullable bool       `json:"nullable"`
}

// Filter operators.
const (
	OpEquals       = "equals"
	OpNotEquals    = "not_equals"
	OpContains     = "contains"
	OpGreaterThan  = "greater_than"
	OpLessThan     = "less_than"
	OpGreaterEqual = "greater_equal"
	OpLessEqual    = "less_equal"
)

// Filter keeps rows whose Column satisfies Operator against Value.
type Filter struct {
	Column   string      `json:"column"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

// Sort orders rows by one column. Direction is "asc" (default) or "desc".
type Sort struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// Pagination selects a 1-indexed page.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// TransformConfig lists optional stages. They always run in the order
// filter, sort, aggregate, group, paginate whatever order the JSON keys use.
type TransformConfig struct {
	Filters      []Filter          `json:"filters,omitempty"`
	Sort         *Sort             `json:"sort,omitempty"`
	Aggregations map[string]string `json:"aggregations,omitempty"` // column -> sum|avg|min|max|count
	GroupBy      string            `json:"groupBy,omitempty"`
	Pagination   *Pagination       `json:"pagination,omitempty"`
}

// Stages names the stages that will run, in execution order.
func (t TransformConfig) Stages() []string {
	stages := make([]string, 0, 5)
	if len(t.Filters) > 0 {
		stages = append(stages, "filters")
	}
	if t.Sort != nil && t.Sort.Column != "" {
		stages = append(stages, "sort")
	}
	if len(t.Aggregations) > 0 {
		stages = append(stages, "aggregations")
	}
	if t.GroupBy != "" {
		stages = append(stages, "groupBy")
	}
	if t.Pagination != nil {
		stages = append(stages, "pagination")
	}
	return stages
}
