package stats

import "gdpdash/internal/models"

// Summary is the aggregate view of one year.
type Summary struct {
	TopCountry          *models.CountryRecord `json:"topCountry,omitempty"`
	Year                int                   `json:"year"`
	TotalGDP            float64               `json:"totalGdp"`
	AverageGDPPerCapita float64               `json:"averageGdpPerCapita"`
	CountryCount        int                   `json:"countryCount"`
	HasData             bool                  `json:"hasData"`
}

// Aggregate sums gdp and averages gdp per capita over the records having year.
// With no such record HasData is false and every number is zero.
func Aggregate(ds *models.Dataset, year int) Summary {
	s := Summary{Year: year}

	var perCapita float64

	for _, rec := range ds.Records() {
		m, ok := rec.Metrics(year)
		if !ok {
			continue
		}

		s.TotalGDP += m.GDP
		perCapita += m.GDPPerCapita
		s.CountryCount++
	}

	if s.CountryCount == 0 {
		return s
	}

	s.HasData = true
	s.AverageGDPPerCapita = perCapita / float64(s.CountryCount)

	if ranked := Rank(ds, year, models.MetricTotalGDP); len(ranked) > 0 {
		s.TopCountry = ranked[0]
	}

	return s
}

// TotalTrillions returns TotalGDP in trillions, rounded to two decimals.
func (s Summary) TotalTrillions() float64 {
	return Round(s.TotalGDP/1000, 2)
}
