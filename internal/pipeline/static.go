package pipeline

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"dashboard-pipeline/internal/model"
)

// Synthetic data categories.
const (
	DataSales   = "sales"
	DataUsers   = "users"
	DataGeneric = "generic"
)

const defaultStaticRows = 100

var (
	salesColumns   = []string{"id", "date", "product", "revenue", "quantity", "region"}
	usersColumns   = []string{"id", "name", "email", "age", "city", "signupDate", "active"}
	genericColumns = []string{"id", "name", "value", "category", "timestamp"}

	products   = []string{"Laptop", "Phone", "Tablet", "Monitor", "Keyboard", "Headphones"}
	regions    = []string{"North", "South", "East", "West"}
	cities     = []string{"New York", "London", "Tokyo", "Paris", "Berlin", "Sydney"}
	firstNames = []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank", "Grace", "Heidi"}
	categories = []string{"A", "B", "C", "D"}
)

// StaticSource generates demo rows so dashboards work without live data.
type StaticSource struct {
	DataType string
	Limit    int
	env      Env
}

func (s *StaticSource) Kind() model.SourceKind { return model.KindStatic }

func (s *StaticSource) Fetch(ctx context.Context, limit int) (model.Dataset, error) {
	n := effectiveLimit(limit, s.Limit)
	if n <= 0 {
		n = defaultStaticRows
	}
	if err := ctx.Err(); err != nil {
		return model.Dataset{}, err
	}
	return GenerateStatic(s.DataType, n, s.env.now(), s.env.rand()), nil
}

// GenerateStatic builds n rows for dataType; unknown types get generic rows.
func GenerateStatic(dataType string, n int, now time.Time, r *rand.Rand) model.Dataset {
	var (
		cols []string
		gen  func(i int) model.Row
	)
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case DataSales:
		cols, gen = salesColumns, func(i int) model.Row { return salesRow(i, now, r) }
	case DataUsers:
		cols, gen = usersColumns, func(i int) model.Row { return userRow(i, now, r) }
	default:
		cols, gen = genericColumns, func(i int) model.Row { return genericRow(i, now, r) }
	}

	rows := make([]model.Row, n)
	for i := range rows {
		rows[i] = gen(i)
	}
	return model.Dataset{Columns: append([]string(nil), cols...), Rows: rows}
}

func pick(r *rand.Rand, xs []string) string { return xs[r.IntN(len(xs))] }

// floor2 truncates to cents so a value drawn below max never rounds up to it.
func floor2(f float64) float64 { return math.Floor(f*100) / 100 }

func salesRow(i int, now time.Time, r *rand.Rand) model.Row {
	day := now.AddDate(0, 0, -r.IntN(30))
	return model.Row{
		"id":       float64(i + 1),
		"date":     day.Format(time.DateOnly),
		"product":  pick(r, products),
		"revenue":  floor2(1000 + r.Float64()*10000),
		"quantity": float64(1 + r.IntN(50)),
		"region":   pick(r, regions),
	}
}

func userRow(i int, now time.Time, r *rand.Rand) model.Row {
	name := pick(r, firstNames)
	return model.Row{
		"id":         float64(i + 1),
		"name":       name,
		"email":      fmt.Sprintf("%s%d@example.com", strings.ToLower(name), i+1),
		"age":        float64(18 + r.IntN(53)),
		"city":       pick(r, cities),
		"signupDate": now.AddDate(0, 0, -r.IntN(365)).Format(time.DateOnly),
		"active":     r.IntN(2) == 1,
	}
}

func genericRow(i int, now time.Time, r *rand.Rand) model.Row {
	return model.Row{
		"id":        float64(i + 1),
		"name":      fmt.Sprintf("Item %d", i+1),
		"value":     floor2(r.Float64() * 1000),
		"category":  pick(r, categories),
		"timestamp": now.Add(-time.Duration(r.IntN(24*60)) * time.Minute).UTC().Format(time.RFC3339),
	}
}
