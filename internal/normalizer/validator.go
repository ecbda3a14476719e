package normalizer

import (
	"fmt"
	"math"

	"gdpdash/internal/models"
)

// Validator checks a decoded document before it is mapped into a record.
type Validator struct {
	window models.YearWindow
}

// NewValidator creates a validator for the given year window.
func NewValidator(window models.YearWindow) *Validator {
	return &Validator{window: window}
}

// Validate reports ErrInvalidShape when the document cannot yield a complete record.
func (v *Validator) Validate(doc *document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidShape)
	}

	if doc.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidShape)
	}

	if doc.Kind == ShapeUnknown {
		return fmt.Errorf("%w: no yearly metrics for %s", ErrInvalidShape, doc.Name)
	}

	for _, e := range doc.Entries {
		for label, val := range map[string]*float64{"gdp": e.GDP, "gdp_per_capita": e.GDPPerCapita, "population": e.Population} {
			if val != nil && (*val < 0 || math.IsNaN(*val) || math.IsInf(*val, 0)) {
				return fmt.Errorf("%w: %s %d has invalid %s %v", ErrInvalidShape, doc.Name, e.Year, label, *val)
			}
		}
	}

	if len(v.usable(doc)) == 0 {
		return fmt.Errorf("%w: no complete year within %s for %s", ErrInvalidShape, v.window, doc.Name)
	}

	return nil
}

// usable returns the entries inside the window with positive gdp and gdp per capita.
func (v *Validator) usable(doc *document) []yearEntry {
	var out []yearEntry

	for _, e := range doc.Entries {
		if !v.window.Contains(e.Year) {
			continue
		}

		if e.GDP == nil || *e.GDP <= 0 || e.GDPPerCapita == nil || *e.GDPPerCapita <= 0 {
			continue
		}

		out = append(out, e)
	}

	return out
}
