package models

import (
	"fmt"
	"strings"
)

// Metric selects the ranking dimension.
type Metric string

// Supported metrics.
const (
	MetricTotalGDP     Metric = "totalGdp"
	MetricGDPPerCapita Metric = "gdpPerCapita"
)

// ParseMetric maps user input onto a Metric. Unknown or empty input selects MetricTotalGDP.
func ParseMetric(s string) Metric {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gdppercapita", "gdp_per_capita", "per_capita", "percapita", "capita":
		return MetricGDPPerCapita
	default:
		return MetricTotalGDP
	}
}

// Label returns the axis label used by chart and list views.
func (m Metric) Label() string {
	if m == MetricGDPPerCapita {
		return "GDP per Capita (USD)"
	}

	return "GDP (Billions USD)"
}

// YearWindow is the closed range of supported years.
type YearWindow struct {
	From int `yaml:"from" toml:"from" json:"from"`
	To   int `yaml:"to"   toml:"to"   json:"to"`
}

// Contains reports whether year lies inside the window.
func (w YearWindow) Contains(year int) bool {
	return year >= w.From && year <= w.To
}

// Latest returns the most recent supported year.
func (w YearWindow) Latest() int {
	return w.To
}

// Years returns every year of the window, latest first.
func (w YearWindow) Years() []int {
	if w.To < w.From {
		return nil
	}

	years := make([]int, 0, w.To-w.From+1)
	for y := w.To; y >= w.From; y-- {
		years = append(years, y)
	}

	return years
}

// Resolve constrains a requested year to the window. Zero or out-of-range input selects the latest year.
func (w YearWindow) Resolve(year int) int {
	if !w.Contains(year) {
		return w.Latest()
	}

	return year
}

// String returns a string representation of the window.
func (w YearWindow) String() string {
	return fmt.Sprintf("%d-%d", w.From, w.To)
}
