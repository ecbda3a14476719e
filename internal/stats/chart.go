package stats

import "gdpdash/internal/models"

// Palette colours chart bars in rank order, wrapping when exhausted.
var Palette = []string{
	"#667eea", "#f093fb", "#4facfe", "#43e97b", "#38f9d7",
	"#fa709a", "#fee140", "#a8edea", "#d299c2", "#f6d365",
}

// Series is a finished bar chart series, ready for a charting library.
type Series struct {
	Metric models.Metric `json:"metric"`
	Label  string        `json:"label"`
	IDs    []string      `json:"ids"`
	Labels []string      `json:"labels"`
	Values []float64     `json:"values"`
	Colors []string      `json:"colors"`
	Year   int           `json:"year"`
}

// ChartSeries returns the first topN ranked records for year and metric.
func ChartSeries(ds *models.Dataset, year int, metric models.Metric, topN int) Series {
	s := Series{Metric: metric, Label: metric.Label(), Year: year}

	ranked := Rank(ds, year, metric)
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}

	for i, rec := range ranked {
		v, _ := rec.Value(year, metric)

		s.IDs = append(s.IDs, rec.ID)
		s.Labels = append(s.Labels, rec.Name)
		s.Values = append(s.Values, v)
		s.Colors = append(s.Colors, Palette[i%len(Palette)])
	}

	return s
}
