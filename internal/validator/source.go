// Package validator lints source documents before they are published.
package validator

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gdpdash/internal/config"
	"gdpdash/internal/logger"
	"gdpdash/internal/normalizer"
	"gdpdash/pkg/metadata"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	ID       string
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats describes what the document carried.
type ValidationStats struct {
	Shape        string
	SkippedKeys  []string
	MissingYears []int
	UsableYears  int
	Signed       bool
}

// SourceValidator runs documents through the normalizer and reports problems
// the loader would otherwise hide behind a synthetic record.
type SourceValidator struct {
	cfg       *config.Config
	processor *normalizer.Processor
}

// NewSourceValidator creates a new validator.
func NewSourceValidator(cfg *config.Config) *SourceValidator {
	return &SourceValidator{
		cfg:       cfg,
		processor: normalizer.NewProcessor(cfg.Dashboard.Years, logger.Discard()),
	}
}

// ValidateDocument lints the document for id.
func (v *SourceValidator) ValidateDocument(id, content string) *ValidationResult {
	result := &ValidationResult{
		ID:       id,
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	kind, skipped, err := v.processor.Inspect(content)
	result.Stats.Shape = kind.String()
	result.Stats.SkippedKeys = skipped

	if err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{Field: fieldFor(err), Message: err.Error()})
	}

	if len(skipped) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("ignored non-year keys: %s", strings.Join(skipped, ", ")))
	}

	if err == nil {
		v.checkRecord(id, content, result)
	}

	v.checkIntegrity(content, result)

	return result
}

func (v *SourceValidator) checkRecord(id, content string, result *ValidationResult) {
	rec, err := v.processor.Process(id, "", content)
	if err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{Field: fieldFor(err), Message: err.Error()})

		return
	}

	result.Stats.UsableYears = len(rec.YearlyMetrics)

	for _, y := range v.cfg.Dashboard.Years.Years() {
		if !rec.HasYear(y) {
			result.Stats.MissingYears = append(result.Stats.MissingYears, y)
		}
	}

	sort.Ints(result.Stats.MissingYears)

	if len(result.Stats.MissingYears) > 0 {
		years := make([]string, len(result.Stats.MissingYears))
		for i, y := range result.Stats.MissingYears {
			years[i] = strconv.Itoa(y)
		}

		result.Warnings = append(result.Warnings, fmt.Sprintf("no complete data for: %s", strings.Join(years, ", ")))
	}

	for _, m := range rec.YearlyMetrics {
		if !m.HasPopulation {
			result.Warnings = append(result.Warnings, "population missing")

			break
		}
	}

	if want := v.cfg.DisplayName(id); want != id && want != rec.Name {
		result.Warnings = append(result.Warnings, fmt.Sprintf("document name %q differs from configured name %q", rec.Name, want))
	}
}

// checkIntegrity verifies the metadata block when present. Unsigned documents only warn.
func (v *SourceValidator) checkIntegrity(content string, result *ValidationResult) {
	valid, err := metadata.Verify(content)

	switch {
	case valid:
		result.Stats.Signed = true
	case errors.Is(err, metadata.ErrNoMetadataBlock):
		result.Warnings = append(result.Warnings, "document is not signed")
	default:
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "metadata",
			Message: fmt.Sprintf("integrity check failed: %v", err),
		})
	}
}

func fieldFor(err error) string {
	switch {
	case errors.Is(err, normalizer.ErrNotFound):
		return "declaration"
	case errors.Is(err, normalizer.ErrMalformedData):
		return "literal"
	default:
		return "shape"
	}
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s %s | Shape: %s | Years: %d | Errors: %d | Warnings: %d",
		status,
		r.ID,
		r.Stats.Shape,
		r.Stats.UsableYears,
		len(r.Errors),
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors(w io.Writer) {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintln(w, "❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Field != "" {
			fmt.Fprintf(w, "  [%s] %s\n", err.Field, err.Message)
		} else {
			fmt.Fprintf(w, "  %s\n", err.Message)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings(w io.Writer) {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Fprintln(w, "⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s\n", warn)
	}
}
