package normalizer

import (
	"errors"
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestNewValidator(t *testing.T) {
	v := NewValidator(testWindow)
	if v == nil {
		t.Fatal("NewValidator returned nil")
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(testWindow)

	validDoc := &document{
		Name: "Japan",
		Kind: ShapeNested,
		Entries: []yearEntry{
			{Year: 2024, GDP: f(4000), GDPPerCapita: f(32000), Population: f(125)},
		},
	}

	if err := v.Validate(validDoc); err != nil {
		t.Errorf("Validate returned unexpected error for valid doc: %v", err)
	}
}

func TestValidator_Validate_Errors(t *testing.T) {
	v := NewValidator(testWindow)

	tests := []struct {
		name string
		doc  *document
	}{
		{"Nil input", nil},
		{"Missing name", &document{Kind: ShapeNested, Entries: []yearEntry{{Year: 2024, GDP: f(1), GDPPerCapita: f(1)}}}},
		{"No metrics", &document{Name: "Japan"}},
		{"Negative gdp", &document{Name: "Japan", Kind: ShapeFlat, Entries: []yearEntry{{Year: 2024, GDP: f(-1), GDPPerCapita: f(1)}}}},
		{"NaN per capita", &document{Name: "Japan", Kind: ShapeFlat, Entries: []yearEntry{{Year: 2024, GDP: f(1), GDPPerCapita: f(math.NaN())}}}},
		{"Infinite population", &document{Name: "Japan", Kind: ShapeNested, Entries: []yearEntry{{Year: 2024, GDP: f(1), GDPPerCapita: f(1), Population: f(math.Inf(1))}}}},
		{"Only out-of-window years", &document{Name: "Japan", Kind: ShapeNested, Entries: []yearEntry{{Year: 2019, GDP: f(1), GDPPerCapita: f(1)}}}},
		{"Only zero gdp", &document{Name: "Japan", Kind: ShapeNested, Entries: []yearEntry{{Year: 2024, GDP: f(0), GDPPerCapita: f(1)}}}},
		{"Missing per capita", &document{Name: "Japan", Kind: ShapeFlat, Entries: []yearEntry{{Year: 2024, GDP: f(10)}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.doc)
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("Expected ErrInvalidShape, got %v", err)
			}
		})
	}
}
