package stats

import (
	"math"

	"gdpdash/internal/models"
)

// GrowthRate returns the year-over-year gdp change in percent, rounded to one
// decimal. It is unavailable when either year is missing or the previous gdp is zero.
func GrowthRate(rec *models.CountryRecord, year int) (float64, bool) {
	cur, ok := rec.Metrics(year)
	if !ok {
		return 0, false
	}

	prev, ok := rec.Metrics(year - 1)
	if !ok || prev.GDP == 0 {
		return 0, false
	}

	return Round((cur.GDP-prev.GDP)/prev.GDP*100, 1), true
}

// Round rounds v to the given number of decimals, halves away from zero.
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)

	return math.Round(v*p) / p
}
