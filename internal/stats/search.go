package stats

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"gdpdash/internal/models"
)

// Search returns the records whose name or any historical name contains
// query, ignoring case, in dataset order. A blank query matches nothing.
func Search(ds *models.Dataset, query string) []*models.CountryRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []*models.CountryRecord

	for _, rec := range ds.Records() {
		if matches(rec, q) {
			out = append(out, rec)
		}
	}

	return out
}

func matches(rec *models.CountryRecord, q string) bool {
	if strings.Contains(strings.ToLower(rec.Name), q) {
		return true
	}

	for _, n := range rec.HistoricalNames {
		if strings.Contains(strings.ToLower(n), q) {
			return true
		}
	}

	return false
}

// nameSource exposes every name of every record to the fuzzy matcher.
type nameSource struct {
	names []string
	ids   []string
}

func (s nameSource) String(i int) string { return s.names[i] }
func (s nameSource) Len() int            { return len(s.names) }

// Suggest returns up to limit record ids whose names fuzzily match query,
// best match first. Used as "did you mean" when Search finds nothing.
func Suggest(ds *models.Dataset, query string, limit int) []string {
	q := strings.TrimSpace(query)
	if q == "" || limit <= 0 {
		return nil
	}

	var src nameSource

	for _, rec := range ds.Records() {
		src.names = append(src.names, rec.Name)
		src.ids = append(src.ids, rec.ID)

		for _, n := range rec.HistoricalNames {
			if n != rec.Name {
				src.names = append(src.names, n)
				src.ids = append(src.ids, rec.ID)
			}
		}
	}

	seen := map[string]bool{}

	var out []string

	for _, m := range fuzzy.FindFrom(q, src) {
		id := src.ids[m.Index]
		if seen[id] {
			continue
		}

		seen[id] = true
		out = append(out, id)

		if len(out) == limit {
			break
		}
	}

	return out
}
