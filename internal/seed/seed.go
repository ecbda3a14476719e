// Package seed generates sample source documents in both historical layouts.
package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gdpdash/internal/config"
	"gdpdash/internal/normalizer"
	"gdpdash/pkg/metadata"
)

// figures is one year of sample data: gdp (billions), per capita (USD), population (millions).
type figures [3]float64

// Country is the sample content of one source document.
type Country struct {
	Years           map[int]figures
	ID              string
	Name            string
	Region          string
	Currency        string
	HistoricalNames []string
	Shape           normalizer.ShapeKind
}

// Countries returns the built-in sample set, one entry per default country id.
func Countries() []Country {
	return []Country{
		{
			ID: "china", Name: "China", Region: "East Asia", Currency: "CNY", Shape: normalizer.ShapeNested,
			HistoricalNames: []string{"Republic of China", "People's Republic of China"},
			Years: map[int]figures{
				2022: {17880, 12670, 1412}, 2023: {17790, 12610, 1410},
				2024: {18740, 13300, 1409}, 2025: {19530, 13870, 1408},
			},
		},
		{
			ID: "usa", Name: "United States", Region: "North America", Currency: "USD", Shape: normalizer.ShapeNested,
			HistoricalNames: []string{"United Colonies", "United States of America"},
			Years: map[int]figures{
				2022: {25440, 76330, 333}, 2023: {27360, 81630, 335},
				2024: {28780, 85370, 337}, 2025: {30340, 89110, 340},
			},
		},
		{
			ID: "india", Name: "India", Region: "South Asia", Currency: "INR", Shape: normalizer.ShapeFlat,
			HistoricalNames: []string{"Hindustan", "Bharat"},
			Years: map[int]figures{
				2022: {3350, 2390}, 2023: {3550, 2500},
				2024: {3890, 2700}, 2025: {4190, 2880},
			},
		},
		{
			ID: "germany", Name: "Germany", Region: "Europe", Currency: "EUR", Shape: normalizer.ShapeNested,
			HistoricalNames: []string{"German Empire", "West Germany"},
			Years: map[int]figures{
				2022: {4080, 48720, 83.8}, 2023: {4460, 52830, 84.5},
				2024: {4590, 54290, 84.6}, 2025: {4740, 55910, 84.7},
			},
		},
		{
			ID: "japan", Name: "Japan", Region: "East Asia", Currency: "JPY", Shape: normalizer.ShapeNested,
			HistoricalNames: []string{"Empire of Japan", "Nippon"},
			Years: map[int]figures{
				2022: {4230, 33820, 125.1}, 2023: {4210, 33810, 124.5},
				2024: {4070, 32860, 123.8}, 2025: {4190, 34040, 123.1},
			},
		},
		{
			ID: "uk", Name: "United Kingdom", Region: "Europe", Currency: "GBP", Shape: normalizer.ShapeNested,
			HistoricalNames: []string{"Great Britain", "United Kingdom of Great Britain and Ireland"},
			Years: map[int]figures{
				2022: {3090, 46130, 67.0}, 2023: {3340, 49460, 67.6},
				2024: {3500, 51480, 68.0}, 2025: {3730, 54280, 68.7},
			},
		},
		{
			ID: "france", Name: "France", Region: "Europe", Currency: "EUR", Shape: normalizer.ShapeNested,
			HistoricalNames: []string{"Kingdom of France", "French Republic"},
			Years: map[int]figures{
				2022: {2780, 42330, 65.6}, 2023: {3030, 46000, 65.8},
				2024: {3130, 47360, 66.1}, 2025: {3210, 48380, 66.4},
			},
		},
		{
			ID: "italy", Name: "Italy", Region: "Europe", Currency: "EUR", Shape: normalizer.ShapeFlat,
			HistoricalNames: []string{"Kingdom of Italy"},
			Years: map[int]figures{
				2022: {2010, 34110}, 2023: {2250, 38370},
				2024: {2330, 39580}, 2025: {2420, 41090},
			},
		},
		{
			ID: "brazil", Name: "Brazil", Region: "South America", Currency: "BRL", Shape: normalizer.ShapeFlat,
			HistoricalNames: []string{"Empire of Brazil", "United States of Brazil"},
			Years: map[int]figures{
				2022: {1950, 9070}, 2023: {2170, 10040},
				2024: {2190, 10300}, 2025: {2310, 10820},
			},
		},
		{
			ID: "canada", Name: "Canada", Region: "North America", Currency: "CAD", Shape: normalizer.ShapeNested,
			HistoricalNames: []string{"Province of Canada", "Dominion of Canada"},
			Years: map[int]figures{
				2022: {2160, 55520, 38.9}, 2023: {2140, 53550, 40.0},
				2024: {2240, 54870, 40.8}, 2025: {2330, 56100, 41.5},
			},
		},
	}
}

// Render returns the HTML source document for c, with the literal written
// in the near-JSON style the dashboard has to repair.
func Render(c Country) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"UTF-8\">\n<title>%s - GDP Profile</title>\n</head>\n<body>\n", c.Name)
	fmt.Fprintf(&sb, "<h1>%s</h1>\n<p>Region: %s</p>\n<div id=\"chart\"></div>\n<script>\n", c.Name, c.Region)
	sb.WriteString(Literal(c))
	sb.WriteString("\n</script>\n</body>\n</html>\n")

	return sb.String()
}

// Literal returns only the declaration of the embedded data literal.
func Literal(c Country) string {
	var sb strings.Builder

	names := make([]string, len(c.HistoricalNames))
	for i, n := range c.HistoricalNames {
		names[i] = "'" + strings.ReplaceAll(n, "'", `\'`) + "'"
	}

	sb.WriteString("const gdpData = {\n")
	fmt.Fprintf(&sb, "    name: '%s',\n", c.Name)
	fmt.Fprintf(&sb, "    region: '%s',\n", c.Region)
	fmt.Fprintf(&sb, "    currency: '%s',\n", c.Currency)
	fmt.Fprintf(&sb, "    historical_names: [%s],\n", strings.Join(names, ", "))

	years := make([]int, 0, len(c.Years))
	for y := range c.Years {
		years = append(years, y)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	if c.Shape == normalizer.ShapeFlat {
		sb.WriteString("    // population is not tracked for this source\n")
		writeFlat(&sb, "gdp", years, func(y int) float64 { return c.Years[y][0] })
		writeFlat(&sb, "gdp_per_capita", years, func(y int) float64 { return c.Years[y][1] })
	} else {
		sb.WriteString("    gdp_data: {\n")

		for _, y := range years {
			f := c.Years[y]
			fmt.Fprintf(&sb, "        %d: { gdp: %s, gdp_per_capita: %s, population: %s },\n", y, num(f[0]), num(f[1]), num(f[2]))
		}

		sb.WriteString("    },\n")
	}

	sb.WriteString("};")

	return sb.String()
}

func writeFlat(sb *strings.Builder, key string, years []int, value func(int) float64) {
	fmt.Fprintf(sb, "    %s: {\n", key)

	for _, y := range years {
		fmt.Fprintf(sb, "        %d: %s,\n", y, num(value(y)))
	}

	sb.WriteString("    },\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Write renders every sample into root following template, signs each
// document with version, and returns the written paths.
func Write(root, template, version string, now time.Time) ([]string, error) {
	paths := make([]string, 0, len(Countries()))

	for _, c := range Countries() {
		path := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(template, config.IDPlaceholder, c.ID)))

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return paths, fmt.Errorf("failed to create directory: %w", err)
		}

		content := metadata.Sign(Render(c), version, now)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}
