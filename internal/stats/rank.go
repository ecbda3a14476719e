// Package stats computes the dashboard views over a dataset: ranking,
// aggregate summary, rank lookup, growth, search and chart series.
//
// Every function is pure and total for any dataset the loader produces.
// Dataset iteration order is the configured id order, and it breaks ties.
package stats

import (
	"sort"

	"gdpdash/internal/models"
)

// Rank returns the records having year, sorted by metric descending.
// Equal values keep dataset order.
func Rank(ds *models.Dataset, year int, metric models.Metric) []*models.CountryRecord {
	type entry struct {
		rec   *models.CountryRecord
		value float64
	}

	entries := make([]entry, 0, ds.Len())

	for _, rec := range ds.Records() {
		if v, ok := rec.Value(year, metric); ok {
			entries = append(entries, entry{rec: rec, value: v})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].value > entries[j].value
	})

	out := make([]*models.CountryRecord, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}

	return out
}

// RankOf returns the 1-based position of id in the total GDP ranking for year.
// The second result is false when the record is missing or lacks year.
func RankOf(ds *models.Dataset, year int, id string) (int, bool) {
	rec, ok := ds.Get(id)
	if !ok || !rec.HasYear(year) {
		return 0, false
	}

	for i, r := range Rank(ds, year, models.MetricTotalGDP) {
		if r.ID == id {
			return i + 1, true
		}
	}

	return 0, false
}
