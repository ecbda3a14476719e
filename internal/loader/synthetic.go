package loader

import "gdpdash/internal/models"

// Baseline of the synthetic series for the latest window year. Each earlier
// year steps down by one step, never below a single step.
const (
	syntheticGDP           = 1000.0
	syntheticGDPStep       = 50.0
	syntheticPerCapita     = 10000.0
	syntheticPerCapitaStep = 500.0
	syntheticPopulation    = 100.0
)

// Synthetic returns the fallback record for id covering every year of window.
func Synthetic(id, name string, window models.YearWindow) *models.CountryRecord {
	if name == "" {
		name = id
	}

	rec := &models.CountryRecord{
		ID:              id,
		Name:            name,
		Region:          models.DefaultRegion,
		Currency:        models.DefaultCurrency,
		Source:          models.SourceSynthetic,
		HistoricalNames: []string{name},
		YearlyMetrics:   make(map[int]models.YearMetrics),
	}

	for i, year := range window.Years() {
		step := float64(i)

		rec.YearlyMetrics[year] = models.YearMetrics{
			GDP:           max(syntheticGDP-step*syntheticGDPStep, syntheticGDPStep),
			GDPPerCapita:  max(syntheticPerCapita-step*syntheticPerCapitaStep, syntheticPerCapitaStep),
			Population:    syntheticPopulation,
			HasPopulation: true,
		}
	}

	return rec
}
