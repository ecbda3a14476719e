// Package app owns the dashboard's application state: the published
// snapshot, the current selection rules and the derived-view cache.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"gdpdash/internal/config"
	"gdpdash/internal/logger"
	"gdpdash/internal/models"
	"gdpdash/internal/stats"
)

// State errors.
var (
	// ErrNoData means no snapshot is published or the published one is empty.
	ErrNoData = errors.New("no data")
	// ErrCountryNotFound means the requested id is not in the dataset.
	ErrCountryNotFound = errors.New("country not found")
)

// Loader produces a complete snapshot for a list of ids.
type Loader interface {
	Load(ctx context.Context, ids []string) *models.Snapshot
}

// Selection is a resolved view request.
type Selection struct {
	Metric models.Metric `json:"metric"`
	Year   int           `json:"year"`
	TopN   int           `json:"topN"`
}

type rankKey struct {
	loadID string
	metric models.Metric
	year   int
}

// State is the single owner of the dataset. Readers see either the previous
// or the next complete snapshot, never a partial one.
type State struct {
	cfg       *config.Config
	loader    Loader
	log       *logger.Logger
	cache     *lru.Cache
	snapshot  atomic.Pointer[models.Snapshot]
	refreshMu sync.Mutex
}

// NewState creates an empty state. Call Refresh to populate it.
func NewState(cfg *config.Config, loader Loader, log *logger.Logger) (*State, error) {
	if log == nil {
		log = logger.Discard()
	}

	cache, err := lru.New(cfg.Server.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create rank cache: %w", err)
	}

	return &State{cfg: cfg, loader: loader, log: log, cache: cache}, nil
}

// Config returns the configuration the state was built with.
func (s *State) Config() *config.Config {
	return s.cfg
}

// Refresh loads every configured country and publishes the result.
// Concurrent calls are serialized. It returns ErrNoData if the new snapshot is empty.
// A load cut short by ctx is discarded and the published snapshot is kept.
func (s *State) Refresh(ctx context.Context) (*models.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snap := s.loader.Load(ctx, s.cfg.Dashboard.Countries)
	if err := ctx.Err(); err != nil {
		s.log.Warn("refresh abandoned, keeping published snapshot", "load_id", snap.LoadID, "error", err)
		return nil, fmt.Errorf("refresh cancelled: %w", err)
	}

	s.snapshot.Store(snap)

	if snap.Dataset.Len() == 0 {
		return snap, ErrNoData
	}

	if n := snap.SyntheticCount(); n > 0 {
		s.log.Warn("snapshot contains synthetic records", "load_id", snap.LoadID, "synthetic", n, "total", snap.Dataset.Len())
	}

	return snap, nil
}

// Snapshot returns the published snapshot, or ErrNoData.
func (s *State) Snapshot() (*models.Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil || snap.Dataset.Len() == 0 {
		return nil, ErrNoData
	}

	return snap, nil
}

// Select resolves raw view inputs. Out-of-window years select the latest year,
// unknown metrics the configured default, non-positive topN the configured top_n.
func (s *State) Select(year int, metric string, topN int) Selection {
	sel := Selection{
		Year:   s.cfg.Dashboard.Years.Resolve(year),
		Metric: s.cfg.DefaultMetric(),
		TopN:   s.cfg.Dashboard.TopN,
	}

	if metric != "" {
		sel.Metric = models.ParseMetric(metric)
	}

	if topN > 0 {
		sel.TopN = topN
	}

	return sel
}

// Ranking returns the ranking for sel, cached per snapshot.
func (s *State) Ranking(sel Selection) ([]*models.CountryRecord, error) {
	_, ranked, err := s.SnapshotRanking(sel)
	return ranked, err
}

// SnapshotRanking returns the ranking for sel together with the snapshot it
// was computed from.
func (s *State) SnapshotRanking(sel Selection) (*models.Snapshot, []*models.CountryRecord, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, nil, err
	}

	key := rankKey{loadID: snap.LoadID, metric: sel.Metric, year: sel.Year}
	if v, ok := s.cache.Get(key); ok {
		if ranked, ok := v.([]*models.CountryRecord); ok {
			return snap, ranked, nil
		}
	}

	ranked := stats.Rank(snap.Dataset, sel.Year, sel.Metric)
	s.cache.Add(key, ranked)

	return snap, ranked, nil
}

// Summary returns the aggregate for year.
func (s *State) Summary(year int) (stats.Summary, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return stats.Summary{}, err
	}

	return stats.Aggregate(snap.Dataset, year), nil
}

// Detail returns the detail projection of id for year.
func (s *State) Detail(id string, year int) (stats.CountryDetail, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return stats.CountryDetail{}, err
	}

	d, ok := stats.Detail(snap.Dataset, id, year)
	if !ok {
		return stats.CountryDetail{}, fmt.Errorf("%w: %s", ErrCountryNotFound, id)
	}

	return d, nil
}

// SearchResult holds matches, plus fuzzy suggestions when nothing matched.
type SearchResult struct {
	Query       string                  `json:"query"`
	Results     []*models.CountryRecord `json:"results"`
	Suggestions []string                `json:"suggestions,omitempty"`
}

// Search runs a name search over the published dataset.
func (s *State) Search(query string) (SearchResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return SearchResult{}, err
	}

	res := SearchResult{Query: query, Results: stats.Search(snap.Dataset, query)}
	if len(res.Results) == 0 {
		res.Suggestions = stats.Suggest(snap.Dataset, query, 3)
	}

	return res, nil
}

// Chart returns the top-N bar chart series for sel.
func (s *State) Chart(sel Selection) (stats.Series, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return stats.Series{}, err
	}

	return stats.ChartSeries(snap.Dataset, sel.Year, sel.Metric, sel.TopN), nil
}
