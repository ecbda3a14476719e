package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gdpdash/internal/app"
	"gdpdash/internal/config"
	"gdpdash/internal/loader"
	"gdpdash/internal/models"
	"gdpdash/internal/stats"
)

const japanDoc = `<script>const gdpData = {name: 'Japan', historical_names: ['Nippon'], gdp_data: {
  2025: {gdp: 4100, gdp_per_capita: 33000, population: 124},
  2024: {gdp: 4000, gdp_per_capita: 32000, population: 125}}};</script>`

const usaDoc = `<script>const gdpData = {name: 'United States', gdp: {2025: 28000, 2024: 27000}, gdp_per_capita: {2025: 83000, 2024: 80000}};</script>`

func newTestServer(t *testing.T, docs map[string]string, refresh bool) http.Handler {
	t.Helper()

	cfg := config.Default()
	cfg.Dashboard.Countries = []string{"japan", "usa", "brazil"}

	fetch := loader.Func(func(_ context.Context, id string) (string, string, error) {
		doc, ok := docs[id]
		if !ok {
			return "", "mem://" + id, context.DeadlineExceeded
		}

		return doc, "mem://" + id, nil
	})

	state, err := app.NewState(cfg, loader.New(cfg, fetch, nil), nil)
	require.NoError(t, err)

	if refresh {
		_, err := state.Refresh(context.Background())
		require.NoError(t, err)
	}

	return NewServer(state, nil)
}

func do(t *testing.T, h http.Handler, method, target string, out any) int {
	t.Helper()

	req := httptest.NewRequest(method, target, http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}

	return rec.Code
}

func TestAPI_NoDataBeforeLoad(t *testing.T) {
	h := newTestServer(t, nil, false)

	for _, target := range []string{"/api/ranking", "/api/summary", "/api/chart", "/api/search?q=a", "/api/countries/japan"} {
		var body map[string]string

		code := do(t, h, http.MethodGet, target, &body)
		require.Equal(t, http.StatusServiceUnavailable, code, target)
		require.Equal(t, "no data", body["error"], target)
	}

	var health map[string]string

	require.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/api/health", &health))
	require.Equal(t, "loading", health["status"])
}

func TestAPI_Ranking(t *testing.T) {
	h := newTestServer(t, map[string]string{"japan": japanDoc, "usa": usaDoc}, true)

	var resp RankingResponse

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/ranking", &resp))
	require.Equal(t, 2025, resp.Year)
	require.Equal(t, models.MetricTotalGDP, resp.Metric)
	require.Len(t, resp.Ranking, 3)
	require.Equal(t, "usa", resp.Ranking[0].ID)
	require.Equal(t, "japan", resp.Ranking[1].ID)
	require.Equal(t, "brazil", resp.Ranking[2].ID)
	require.True(t, resp.Ranking[2].Synthetic)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/ranking?year=2024&metric=gdp_per_capita", &resp))
	require.Equal(t, 2024, resp.Year)
	require.Equal(t, "GDP per Capita (USD)", resp.Label)
	require.Equal(t, 80000.0, resp.Ranking[0].Value)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/ranking?year=1990", &resp))
	require.Equal(t, 2025, resp.Year)

	var health map[string]string

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/health", &health))
	require.NotEmpty(t, resp.LoadID)
	require.Equal(t, health["loadId"], resp.LoadID)
}

func TestAPI_Summary(t *testing.T) {
	h := newTestServer(t, map[string]string{"japan": japanDoc, "usa": usaDoc}, true)

	var resp struct {
		Summary stats.Summary `json:"summary"`
		Display string        `json:"globalGdpDisplay"`
	}

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/summary?year=2024", &resp))
	require.Equal(t, 3, resp.Summary.CountryCount)
	require.Equal(t, 27000.0+4000+950, resp.Summary.TotalGDP)
	require.Equal(t, "usa", resp.Summary.TopCountry.ID)
	require.Equal(t, "$31.95T", resp.Display)
}

func TestAPI_Country(t *testing.T) {
	h := newTestServer(t, map[string]string{"japan": japanDoc, "usa": usaDoc}, true)

	var detail stats.CountryDetail

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/countries/japan?year=2025", &detail))
	require.Equal(t, "Japan", detail.Record.Name)
	require.Equal(t, []string{"Nippon", "Japan"}, detail.Record.HistoricalNames)
	require.Equal(t, 2, detail.Rank)
	require.True(t, detail.HasGrowth)
	require.Equal(t, 2.5, detail.Growth)
	require.Len(t, detail.History, 2)
	require.Equal(t, 2025, detail.History[0].Year)

	var body map[string]string

	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/countries/atlantis", &body))
}

func TestAPI_Search(t *testing.T) {
	h := newTestServer(t, map[string]string{"japan": japanDoc, "usa": usaDoc}, true)

	var res app.SearchResult

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/search?q=nipp", &res))
	require.Len(t, res.Results, 1)
	require.Equal(t, "japan", res.Results[0].ID)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/search?q=untd", &res))
	require.Empty(t, res.Results)
	require.Contains(t, res.Suggestions, "usa")
}

func TestAPI_Chart(t *testing.T) {
	h := newTestServer(t, map[string]string{"japan": japanDoc, "usa": usaDoc}, true)

	var series stats.Series

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/chart?top=2", &series))
	require.Equal(t, []string{"United States", "Japan"}, series.Labels)
	require.Equal(t, []string{stats.Palette[0], stats.Palette[1]}, series.Colors)
}

func TestAPI_Refresh(t *testing.T) {
	h := newTestServer(t, map[string]string{"japan": japanDoc}, false)

	var info SnapshotInfo

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/refresh", &info))
	require.Equal(t, 3, info.Countries)
	require.Equal(t, 2, info.Synthetic)
	require.NotEmpty(t, info.LoadID)
	require.Len(t, info.Report, 3)

	var health map[string]string

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/health", &health))
	require.Equal(t, info.LoadID, health["loadId"])
}
