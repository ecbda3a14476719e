package normalizer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gdpdash/internal/logger"
	"gdpdash/internal/models"
)

var testWindow = models.YearWindow{From: 2022, To: 2025}

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(testWindow, nil)
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process_NestedShape(t *testing.T) {
	p := NewProcessor(testWindow, nil)

	payload := `<html><body><script>
const gdpData = {name: 'Japan', gdp_data: {2024: {gdp: 4000, gdp_per_capita: 32000, population: 125}}};
</script></body></html>`

	got, err := p.Process("japan", "data/countries/japan.html", payload)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	want := &models.CountryRecord{
		ID:              "japan",
		Name:            "Japan",
		Region:          models.DefaultRegion,
		Currency:        models.DefaultCurrency,
		Source:          models.SourceDocument,
		Location:        "data/countries/japan.html",
		HistoricalNames: []string{"Japan"},
		YearlyMetrics: map[int]models.YearMetrics{
			2024: {GDP: 4000, GDPPerCapita: 32000, Population: 125, HasPopulation: true},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Process() mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessor_Process_FlatShape(t *testing.T) {
	p := NewProcessor(testWindow, nil)

	payload := `<script>
var gdpData = {
    name: "India",
    region: 'South Asia',
    currency: 'INR',
    historical_names: ['Bharat'],
    gdp: {2019: 2800, 2023: 3500, 2024: 3900,},
    gdp_per_capita: {2023: 2500, 2024: 2700},
};
</script>`

	got, err := p.Process("india", "india.html", payload)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	want := &models.CountryRecord{
		ID:              "india",
		Name:            "India",
		Region:          "South Asia",
		Currency:        "INR",
		Source:          models.SourceDocument,
		Location:        "india.html",
		HistoricalNames: []string{"Bharat", "India"},
		YearlyMetrics: map[int]models.YearMetrics{
			2023: {GDP: 3500, GDPPerCapita: 2500},
			2024: {GDP: 3900, GDPPerCapita: 2700},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Process() mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessor_Process_DropsIncompleteYears(t *testing.T) {
	p := NewProcessor(testWindow, nil)

	payload := `const gdpData = {
  name: 'Germany',
  yearlyMetrics: {
    2025: {gdp: 4500, gdpPerCapita: 53000, population: 84},
    2024: {gdp: 4400},
    2023: {gdp: 0, gdpPerCapita: 50000},
    notes: {gdp: 1, gdpPerCapita: 1},
  },
};`

	got, err := p.Process("germany", "", payload)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(got.YearlyMetrics) != 1 || !got.HasYear(2025) {
		t.Errorf("Expected only 2025 to survive, got %v", got.YearlyMetrics)
	}
}

func TestProcessor_Process_KeepsHistoricalOrder(t *testing.T) {
	p := NewProcessor(testWindow, nil)

	payload := `const gdpData = {name: 'Czechia', historicalNames: ['Czechoslovakia', 'Czech Republic', 'Czechia', ''],
  gdp_data: {2025: {gdp: 300, gdp_per_capita: 28000}}};`

	got, err := p.Process("czechia", "", payload)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	want := []string{"Czechoslovakia", "Czech Republic", "Czechia"}
	if diff := cmp.Diff(want, got.HistoricalNames); diff != "" {
		t.Errorf("HistoricalNames mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessor_Process_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"No marker", "<html><body><h1>Japan</h1></body></html>", ErrNotFound},
		{"Unparseable value", "const gdpData = {name: 'X', gdp: {2024: }};", ErrMalformedData},
		{"Unbalanced literal", "const gdpData = {name: 'X', gdp: {2024: 1}", ErrMalformedData},
		{"Unterminated string", "const gdpData = {name: 'X};", ErrMalformedData},
		{"Missing name", "const gdpData = {gdp_data: {2024: {gdp: 1, gdp_per_capita: 2}}};", ErrInvalidShape},
		{"Blank name", "const gdpData = {name: '  ', gdp_data: {2024: {gdp: 1, gdp_per_capita: 2}}};", ErrInvalidShape},
		{"Name not a string", "const gdpData = {name: 5, gdp: {2024: 1}};", ErrInvalidShape},
		{"No metrics", "const gdpData = {name: 'X'};", ErrInvalidShape},
		{"Metrics wrong type", "const gdpData = {name: 'X', gdp_data: [1, 2]};", ErrInvalidShape},
		{"Negative value", "const gdpData = {name: 'X', gdp_data: {2024: {gdp: -1, gdp_per_capita: 5}}};", ErrInvalidShape},
		{"Outside window", "const gdpData = {name: 'X', gdp_data: {2019: {gdp: 1, gdp_per_capita: 5}}};", ErrInvalidShape},
		{"Flat without per capita", "const gdpData = {name: 'X', gdp: {2024: 1}};", ErrInvalidShape},
	}

	p := NewProcessor(testWindow, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Process("x", "", tt.payload)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Process() error = %v, want %v", err, tt.wantErr)
			}

			if rec != nil {
				t.Error("Process expected nil result for invalid input")
			}
		})
	}
}

func TestProcessor_Process_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer

	p := NewProcessor(testWindow, logger.New(&buf, "debug", "text"))

	if _, err := p.Process("japan", "", "const gdpData = {name: 'Japan', gdp_data: {2024: {gdp: 1, gdp_per_capita: 2}}};"); err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "shape=nested") {
		t.Errorf("Expected shape in debug log, got %q", buf.String())
	}
}

func TestProcessor_Inspect(t *testing.T) {
	p := NewProcessor(testWindow, nil)

	kind, skipped, err := p.Inspect("const gdpData = {name: 'X', gdp: {2024: 1, total: 9}, gdp_per_capita: {2024: 2}};")
	if err != nil {
		t.Fatalf("Inspect returned unexpected error: %v", err)
	}

	if kind != ShapeFlat {
		t.Errorf("Inspect kind = %s, want flat", kind)
	}

	if diff := cmp.Diff([]string{"total"}, skipped); diff != "" {
		t.Errorf("Skipped keys mismatch (-want +got):\n%s", diff)
	}

	kind, _, err = p.Inspect("const gdpData = {name: 'X', gdp_data: {2019: {gdp: 1, gdp_per_capita: 2}}};")
	if !errors.Is(err, ErrInvalidShape) || kind != ShapeNested {
		t.Errorf("Inspect = (%s, %v), want nested with ErrInvalidShape", kind, err)
	}
}
