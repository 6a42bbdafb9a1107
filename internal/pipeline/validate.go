package pipeline

import (
	"context"
	"fmt"
	"log"

	"dashboard-pipeline/internal/model"
)

// ValidationSampleSize is how many rows a source validation fetches.
const ValidationSampleSize = 5

// ValidationResult reports whether a source can be read. Schema and
// SampleData are nil when it cannot.
type ValidationResult struct {
	IsValid    bool                 `json:"isValid"`
	Schema     []model.ColumnSchema `json:"schema"`
	SampleData interface{}          `json:"sampleData"`
	Message    string               `json:"message"`
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Message: msg}
}

// ValidateSource fetches a small sample from src and infers its schema.
// Failures are reported in the result, never returned.
func ValidateSource(ctx context.Context, src Source) ValidationResult {
	if IsUnknown(src) {
		return invalid(fmt.Sprintf("Unsupported data source type: %q", src.Kind()))
	}

	ds, err := src.Fetch(ctx, ValidationSampleSize)
	if err != nil {
		log.Printf("❌ Validation of %s source failed: %v", src.Kind(), err)
		return invalid(fmt.Sprintf("Data source validation failed: %v", err))
	}

	return ValidationResult{
		IsValid:    true,
		Schema:     InferSchema(ds.Rows, ds.Columns),
		SampleData: ds.Data(),
		Message:    "Data source validated successfully",
	}
}
