package stats

import (
	"sort"

	"gdpdash/internal/models"
)

// HistoryRow is one year of the detail history table.
type HistoryRow struct {
	Year          int     `json:"year"`
	GDP           float64 `json:"gdp"`
	GDPPerCapita  float64 `json:"gdpPerCapita"`
	Population    float64 `json:"population,omitempty"`
	Growth        float64 `json:"growth,omitempty"`
	HasPopulation bool    `json:"hasPopulation"`
	HasGrowth     bool    `json:"hasGrowth"`
}

// CountryDetail is the projection of one record for a selected year.
type CountryDetail struct {
	Record    *models.CountryRecord `json:"record"`
	Selected  *HistoryRow           `json:"selected,omitempty"`
	History   []HistoryRow          `json:"history"`
	Year      int                   `json:"year"`
	Rank      int                   `json:"rank,omitempty"`
	Growth    float64               `json:"growth,omitempty"`
	HasRank   bool                  `json:"hasRank"`
	HasGrowth bool                  `json:"hasGrowth"`
}

// Detail builds the detail projection of id for year. History lists the
// record's years latest first.
func Detail(ds *models.Dataset, id string, year int) (CountryDetail, bool) {
	rec, ok := ds.Get(id)
	if !ok {
		return CountryDetail{}, false
	}

	d := CountryDetail{Record: rec, Year: year}
	d.Rank, d.HasRank = RankOf(ds, year, id)
	d.Growth, d.HasGrowth = GrowthRate(rec, year)

	years := make([]int, 0, len(rec.YearlyMetrics))
	for y := range rec.YearlyMetrics {
		years = append(years, y)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	for _, y := range years {
		m := rec.YearlyMetrics[y]
		row := HistoryRow{
			Year:          y,
			GDP:           m.GDP,
			GDPPerCapita:  m.GDPPerCapita,
			Population:    m.Population,
			HasPopulation: m.HasPopulation,
		}
		row.Growth, row.HasGrowth = GrowthRate(rec, y)

		d.History = append(d.History, row)

		if y == year {
			sel := row
			d.Selected = &sel
		}
	}

	return d, true
}
