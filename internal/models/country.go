// Package models defines data structures for the loader, normalizer and statistics engine.
package models

// Record origins.
const (
	SourceDocument  = "document"
	SourceSynthetic = "synthetic"
)

// Defaults applied when a source document omits a field.
const (
	DefaultRegion   = "Unknown"
	DefaultCurrency = "USD"
)

// CountryRecord is the canonical, post-normalization view of one country.
type CountryRecord struct {
	YearlyMetrics   map[int]YearMetrics `json:"yearlyMetrics"`
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Region          string              `json:"region"`
	Currency        string              `json:"currency"`
	Source          string              `json:"source"`
	Location        string              `json:"location,omitempty"`
	FailureReason   string              `json:"failureReason,omitempty"`
	HistoricalNames []string            `json:"historicalNames"`
}

// YearMetrics holds one year of figures. GDP is in billions, population in millions.
type YearMetrics struct {
	GDP           float64 `json:"gdp"`
	GDPPerCapita  float64 `json:"gdpPerCapita"`
	Population    float64 `json:"population,omitempty"`
	HasPopulation bool    `json:"hasPopulation"`
}

// Metrics returns the figures for year and whether the year is present.
func (r *CountryRecord) Metrics(year int) (YearMetrics, bool) {
	if r == nil {
		return YearMetrics{}, false
	}

	m, ok := r.YearlyMetrics[year]

	return m, ok
}

// HasYear reports whether the record carries data for year.
func (r *CountryRecord) HasYear(year int) bool {
	_, ok := r.Metrics(year)

	return ok
}

// IsSynthetic reports whether the record was fabricated by the loader.
func (r *CountryRecord) IsSynthetic() bool {
	return r != nil && r.Source == SourceSynthetic
}

// Value returns the figure selected by metric for year.
func (r *CountryRecord) Value(year int, metric Metric) (float64, bool) {
	m, ok := r.Metrics(year)
	if !ok {
		return 0, false
	}

	if metric == MetricGDPPerCapita {
		return m.GDPPerCapita, true
	}

	return m.GDP, true
}
