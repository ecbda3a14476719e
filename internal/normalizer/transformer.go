package normalizer

import (
	"strings"

	"gdpdash/internal/models"
)

// Transformer maps a validated document into the canonical record.
type Transformer struct {
	validator *Validator
}

// NewTransformer creates a new transformer instance.
func NewTransformer(v *Validator) *Transformer {
	return &Transformer{validator: v}
}

// Transform builds the record. Incomplete or out-of-window years are dropped.
func (t *Transformer) Transform(id, location string, doc *document) *models.CountryRecord {
	rec := &models.CountryRecord{
		ID:            strings.ToLower(id),
		Name:          doc.Name,
		Region:        orDefault(doc.Region, models.DefaultRegion),
		Currency:      orDefault(doc.Currency, models.DefaultCurrency),
		Source:        models.SourceDocument,
		Location:      location,
		YearlyMetrics: make(map[int]models.YearMetrics),
	}

	for _, e := range t.validator.usable(doc) {
		m := models.YearMetrics{GDP: *e.GDP, GDPPerCapita: *e.GDPPerCapita}

		if e.Population != nil && *e.Population > 0 {
			m.Population = *e.Population
			m.HasPopulation = true
		}

		rec.YearlyMetrics[e.Year] = m
	}

	rec.HistoricalNames = historicalNames(doc.HistoricalNames, doc.Name)

	return rec
}

// historicalNames keeps the given order, drops blanks and duplicates,
// and appends the current name when the list does not already contain it.
func historicalNames(names []string, current string) []string {
	seen := make(map[string]bool, len(names)+1)
	out := make([]string, 0, len(names)+1)

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}

		seen[n] = true
		out = append(out, n)
	}

	if !seen[current] {
		out = append(out, current)
	}

	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
