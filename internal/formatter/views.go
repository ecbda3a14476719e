package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"gdpdash/internal/models"
	"gdpdash/internal/stats"
)

const barWidth = 40

// Ranking renders a ranked list for year and metric, flagging synthetic records.
func Ranking(ranked []*models.CountryRecord, year int, metric models.Metric) string {
	rows := make([][]string, 0, len(ranked))

	for i, rec := range ranked {
		v, _ := rec.Value(year, metric)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			displayName(rec),
			formatMetric(v, metric),
		})
	}

	title := fmt.Sprintf("%s, %d\n\n", metric.Label(), year)

	return title + Table([]string{"#", "Country", metric.Label()}, rows, AlignRight, AlignLeft, AlignRight)
}

// Summary renders the aggregate statistics panel.
func Summary(s stats.Summary) string {
	if !s.HasData {
		return fmt.Sprintf("No data for %d\n", s.Year)
	}

	top := ""
	if s.TopCountry != nil {
		top = s.TopCountry.Name
	}

	rows := [][]string{
		{"Global GDP", stats.FormatTrillions(s.TotalGDP)},
		{"Average GDP per capita", "$" + stats.FormatNumber(stats.Round(s.AverageGDPPerCapita, 0))},
		{"Top economy", top},
		{"Countries", strconv.Itoa(s.CountryCount)},
	}

	return fmt.Sprintf("Summary, %d\n\n", s.Year) + Table([]string{"Statistic", "Value"}, rows)
}

// Detail renders one country's detail panel and history table.
func Detail(d stats.CountryDetail) string {
	var sb strings.Builder

	rec := d.Record
	fmt.Fprintf(&sb, "%s (%s)\n", displayName(rec), rec.ID)
	fmt.Fprintf(&sb, "Region: %s  Currency: %s\n", rec.Region, rec.Currency)

	if len(rec.HistoricalNames) > 1 {
		fmt.Fprintf(&sb, "Also known as: %s\n", strings.Join(rec.HistoricalNames, ", "))
	}

	if rec.IsSynthetic() && rec.FailureReason != "" {
		fmt.Fprintf(&sb, "Source unavailable, showing placeholder data: %s\n", rec.FailureReason)
	} else if rec.Location != "" {
		fmt.Fprintf(&sb, "Full profile: %s\n", rec.Location)
	}

	sb.WriteString("\n")

	if d.Selected != nil {
		rank := "N/A"
		if d.HasRank {
			rank = "#" + strconv.Itoa(d.Rank)
		}

		population := "N/A"
		if d.Selected.HasPopulation {
			population = stats.FormatNumber(d.Selected.Population) + "M"
		}

		rows := [][]string{
			{fmt.Sprintf("GDP (%d)", d.Year), "$" + stats.FormatNumber(d.Selected.GDP) + "B"},
			{"GDP/Capita", "$" + stats.FormatNumber(d.Selected.GDPPerCapita)},
			{"Population", population},
			{"World Rank", rank},
			{"Growth (YoY)", stats.FormatGrowth(d.Growth, d.HasGrowth)},
		}
		sb.WriteString(Table([]string{"Statistic", "Value"}, rows))
	} else {
		fmt.Fprintf(&sb, "No data for %d\n", d.Year)
	}

	sb.WriteString("\n")

	rows := make([][]string, 0, len(d.History))
	for _, h := range d.History {
		rows = append(rows, []string{
			strconv.Itoa(h.Year),
			"$" + stats.FormatNumber(h.GDP) + " Billion",
			"$" + stats.FormatNumber(h.GDPPerCapita),
			stats.FormatGrowth(h.Growth, h.HasGrowth),
		})
	}

	sb.WriteString(Table([]string{"Year", "GDP", "GDP per Capita", "Growth"}, rows, AlignLeft, AlignRight, AlignRight, AlignRight))

	return sb.String()
}

// Chart renders a chart series as horizontal bars.
func Chart(s stats.Series) string {
	if len(s.Values) == 0 {
		return fmt.Sprintf("No data for %d\n", s.Year)
	}

	labelWidth := 0
	for _, l := range s.Labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}

	maxValue := s.Values[0]

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s, %d\n\n", s.Label, s.Year)

	for i, v := range s.Values {
		fmt.Fprintf(&sb, "%s %s %s\n", PadRight(s.Labels[i], labelWidth), Bar(v, maxValue, barWidth), formatMetric(v, s.Metric))
	}

	return sb.String()
}

// SearchResults renders matches, or suggestions when there are none.
func SearchResults(query string, results []*models.CountryRecord, suggestions []string) string {
	if len(results) == 0 {
		out := fmt.Sprintf("No countries match %q\n", query)
		if len(suggestions) > 0 {
			out += "Did you mean: " + strings.Join(suggestions, ", ") + "?\n"
		}

		return out
	}

	rows := make([][]string, 0, len(results))
	for _, rec := range results {
		rows = append(rows, []string{rec.ID, displayName(rec), strings.Join(rec.HistoricalNames, ", ")})
	}

	return Table([]string{"ID", "Name", "Historical names"}, rows)
}

// LoadReport renders the per-id outcome of a load cycle.
func LoadReport(snap *models.Snapshot) string {
	rows := make([][]string, 0, len(snap.Report))
	for _, o := range snap.Report {
		rows = append(rows, []string{o.ID, o.Source, o.Location, o.Reason})
	}

	header := fmt.Sprintf("Load %s at %s, fingerprint %s\n\n", snap.LoadID, snap.LoadedAt.Format("2006-01-02 15:04:05"), snap.Fingerprint)

	return header + Table([]string{"ID", "Source", "Location", "Reason"}, rows)
}

func displayName(rec *models.CountryRecord) string {
	if rec.IsSynthetic() {
		return rec.Name + " *"
	}

	return rec.Name
}

func formatMetric(v float64, metric models.Metric) string {
	if metric == models.MetricGDPPerCapita {
		return "$" + stats.FormatNumber(stats.Round(v, 0))
	}

	return "$" + stats.FormatNumber(stats.Round(v, 1)) + "B"
}
