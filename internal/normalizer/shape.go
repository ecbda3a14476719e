package normalizer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ShapeKind tags which historical layout a document used.
type ShapeKind int

// Known document layouts.
const (
	ShapeUnknown ShapeKind = iota
	// ShapeNested keys one mapping by year, each value holding gdp, gdp_per_capita and population.
	ShapeNested
	// ShapeFlat has two parallel mappings, year->gdp and year->gdp_per_capita. No population.
	ShapeFlat
)

// String returns the shape name.
func (k ShapeKind) String() string {
	switch k {
	case ShapeNested:
		return "nested"
	case ShapeFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// Key aliases seen across source documents.
var (
	nestedKeys    = []string{"gdp_data", "yearlyMetrics", "yearly_metrics"}
	perCapitaKeys = []string{"gdp_per_capita", "gdpPerCapita"}
	historyKeys   = []string{"historical_names", "historicalNames"}
)

// yearEntry is one year of figures. Nil means the document did not carry the value.
type yearEntry struct {
	GDP          *float64
	GDPPerCapita *float64
	Population   *float64
	Year         int
}

// document is the decoded literal with its shape already resolved.
type document struct {
	Name            string
	Region          string
	Currency        string
	HistoricalNames []string
	Entries         []yearEntry
	SkippedKeys     []string
	Kind            ShapeKind
}

type rawYear struct {
	GDP          *float64 `json:"gdp"`
	PerCapita    *float64 `json:"gdp_per_capita"`
	PerCapitaAlt *float64 `json:"gdpPerCapita"`
	Population   *float64 `json:"population"`
}

// decode parses strict JSON into a document. Syntax errors wrap ErrMalformedData,
// wrongly typed fields wrap ErrInvalidShape.
func decode(data string) (*document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}

	doc := &document{}

	if err := stringField(fields, &doc.Name, "name"); err != nil {
		return nil, err
	}

	if err := stringField(fields, &doc.Region, "region"); err != nil {
		return nil, err
	}

	if err := stringField(fields, &doc.Currency, "currency"); err != nil {
		return nil, err
	}

	if raw, ok := firstOf(fields, historyKeys); ok {
		if err := json.Unmarshal(raw, &doc.HistoricalNames); err != nil {
			return nil, fmt.Errorf("%w: historical names: %w", ErrInvalidShape, err)
		}
	}

	if raw, ok := firstOf(fields, nestedKeys); ok {
		return doc, doc.decodeNested(raw)
	}

	if raw, ok := fields["gdp"]; ok {
		return doc, doc.decodeFlat(raw, fields)
	}

	return doc, nil
}

func (d *document) decodeNested(raw json.RawMessage) error {
	var years map[string]rawYear
	if err := json.Unmarshal(raw, &years); err != nil {
		return fmt.Errorf("%w: yearly metrics: %w", ErrInvalidShape, err)
	}

	d.Kind = ShapeNested

	for key, y := range years {
		year, ok := parseYear(key)
		if !ok {
			d.SkippedKeys = append(d.SkippedKeys, key)

			continue
		}

		perCapita := y.PerCapita
		if perCapita == nil {
			perCapita = y.PerCapitaAlt
		}

		d.Entries = append(d.Entries, yearEntry{Year: year, GDP: y.GDP, GDPPerCapita: perCapita, Population: y.Population})
	}

	d.sortEntries()

	return nil
}

func (d *document) decodeFlat(gdpRaw json.RawMessage, fields map[string]json.RawMessage) error {
	var gdp map[string]float64
	if err := json.Unmarshal(gdpRaw, &gdp); err != nil {
		return fmt.Errorf("%w: gdp mapping: %w", ErrInvalidShape, err)
	}

	perCapita := map[string]float64{}

	if raw, ok := firstOf(fields, perCapitaKeys); ok {
		if err := json.Unmarshal(raw, &perCapita); err != nil {
			return fmt.Errorf("%w: gdp per capita mapping: %w", ErrInvalidShape, err)
		}
	}

	d.Kind = ShapeFlat
	byYear := map[int]*yearEntry{}

	for key, v := range gdp {
		year, ok := parseYear(key)
		if !ok {
			d.SkippedKeys = append(d.SkippedKeys, key)

			continue
		}

		byYear[year] = &yearEntry{Year: year, GDP: &v}
	}

	for key, v := range perCapita {
		year, ok := parseYear(key)
		if !ok {
			d.SkippedKeys = append(d.SkippedKeys, key)

			continue
		}

		e, exists := byYear[year]
		if !exists {
			e = &yearEntry{Year: year}
			byYear[year] = e
		}

		e.GDPPerCapita = &v
	}

	for _, e := range byYear {
		d.Entries = append(d.Entries, *e)
	}

	d.sortEntries()

	return nil
}

func (d *document) sortEntries() {
	sort.Slice(d.Entries, func(i, j int) bool { return d.Entries[i].Year > d.Entries[j].Year })
	sort.Strings(d.SkippedKeys)
}

func stringField(fields map[string]json.RawMessage, dst *string, key string) error {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: field %q must be a string", ErrInvalidShape, key)
	}

	*dst = strings.TrimSpace(*dst)

	return nil
}

func firstOf(fields map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if raw, ok := fields[k]; ok && string(raw) != "null" {
			return raw, true
		}
	}

	return nil, false
}

func parseYear(key string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || year < 1000 || year > 9999 {
		return 0, false
	}

	return year, true
}
