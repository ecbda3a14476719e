// Package api exposes the dashboard views as a JSON HTTP API.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"gdpdash/internal/app"
	"gdpdash/internal/logger"
	"gdpdash/internal/models"
	"gdpdash/internal/stats"
)

// Handler serves the dashboard views from the application state.
type Handler struct {
	state *app.State
	log   *logger.Logger
}

// NewHandler creates a handler over state.
func NewHandler(state *app.State, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}

	return &Handler{state: state, log: log}
}

// RegisterRoutes mounts the API under /api.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/ranking", h.GetRanking)
	api.GET("/summary", h.GetSummary)
	api.GET("/countries/:id", h.GetCountry)
	api.GET("/search", h.GetSearch)
	api.GET("/chart", h.GetChart)
	api.POST("/refresh", h.PostRefresh)
}

// RankedCountry is one row of the ranking response.
type RankedCountry struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Rank      int     `json:"rank"`
	Value     float64 `json:"value"`
	Synthetic bool    `json:"synthetic"`
}

// RankingResponse is the body of GET /api/ranking.
type RankingResponse struct {
	Metric  models.Metric   `json:"metric"`
	Label   string          `json:"label"`
	LoadID  string          `json:"loadId"`
	Ranking []RankedCountry `json:"ranking"`
	Year    int             `json:"year"`
}

// SnapshotInfo describes the published snapshot.
type SnapshotInfo struct {
	LoadedAt    time.Time            `json:"loadedAt"`
	LoadID      string               `json:"loadId"`
	Fingerprint string               `json:"fingerprint"`
	Report      []models.LoadOutcome `json:"report,omitempty"`
	Countries   int                  `json:"countries"`
	Synthetic   int                  `json:"synthetic"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- HANDLERS ---
func (h *Handler) selection(c echo.Context) app.Selection {
	year, _ := strconv.Atoi(c.QueryParam("year"))
	top, _ := strconv.Atoi(c.QueryParam("top"))

	return h.state.Select(year, c.QueryParam("metric"), top)
}

func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, app.ErrNoData):
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: app.ErrNoData.Error()})
	case errors.Is(err, app.ErrCountryNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.log.Error("request failed", "path", c.Path(), "error", err)

		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// GetHealth reports whether a snapshot is published.
func (h *Handler) GetHealth(c echo.Context) error {
	snap, err := h.state.Snapshot()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "loadId": snap.LoadID})
}

// GetRanking returns the ranked list for the selected year and metric.
func (h *Handler) GetRanking(c echo.Context) error {
	sel := h.selection(c)

	snap, ranked, err := h.state.SnapshotRanking(sel)
	if err != nil {
		return h.fail(c, err)
	}

	resp := RankingResponse{
		Metric:  sel.Metric,
		Label:   sel.Metric.Label(),
		LoadID:  snap.LoadID,
		Year:    sel.Year,
		Ranking: make([]RankedCountry, 0, len(ranked)),
	}

	for i, rec := range ranked {
		v, _ := rec.Value(sel.Year, sel.Metric)
		resp.Ranking = append(resp.Ranking, RankedCountry{
			ID:        rec.ID,
			Name:      rec.Name,
			Rank:      i + 1,
			Value:     v,
			Synthetic: rec.IsSynthetic(),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetSummary returns the aggregate statistics for the selected year.
func (h *Handler) GetSummary(c echo.Context) error {
	sel := h.selection(c)

	summary, err := h.state.Summary(sel.Year)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"summary":           summary,
		"globalGdpDisplay":  stats.FormatTrillions(summary.TotalGDP),
		"avgPerCapitaRound": stats.Round(summary.AverageGDPPerCapita, 0),
	})
}

// GetCountry returns the detail projection for one country.
func (h *Handler) GetCountry(c echo.Context) error {
	sel := h.selection(c)

	detail, err := h.state.Detail(c.Param("id"), sel.Year)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, detail)
}

// GetSearch matches q against current and historical names.
func (h *Handler) GetSearch(c echo.Context) error {
	res, err := h.state.Search(c.QueryParam("q"))
	if err != nil {
		return h.fail(c, err)
	}

	if res.Results == nil {
		res.Results = []*models.CountryRecord{}
	}

	return c.JSON(http.StatusOK, res)
}

// GetChart returns the top-N chart series.
func (h *Handler) GetChart(c echo.Context) error {
	series, err := h.state.Chart(h.selection(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, series)
}

// PostRefresh reloads every source and publishes a new snapshot.
func (h *Handler) PostRefresh(c echo.Context) error {
	snap, err := h.state.Refresh(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, Info(snap))
}

// Info summarizes snap for API and CLI output.
func Info(snap *models.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		LoadedAt:    snap.LoadedAt,
		LoadID:      snap.LoadID,
		Fingerprint: snap.Fingerprint,
		Report:      snap.Report,
		Countries:   snap.Dataset.Len(),
		Synthetic:   snap.SyntheticCount(),
	}
}
