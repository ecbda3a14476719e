// Package loader fetches every configured source document, normalizes it and
// publishes the result as one immutable snapshot.
package loader

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gdpdash/internal/config"
	"gdpdash/internal/logger"
	"gdpdash/internal/models"
	"gdpdash/internal/normalizer"
	"gdpdash/pkg/metadata"
)

// Fetcher returns the raw source document for a country id and where it came from.
type Fetcher interface {
	FetchDocument(ctx context.Context, id string) (content, location string, err error)
}

// Loader turns a list of ids into a snapshot with exactly one record per id.
type Loader struct {
	fetcher        Fetcher
	processor      *normalizer.Processor
	names          func(id string) string
	log            *logger.Logger
	now            func() time.Time
	window         models.YearWindow
	maxConcurrency int
}

// New creates a loader from config.
func New(cfg *config.Config, fetcher Fetcher, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}

	return &Loader{
		fetcher:        fetcher,
		processor:      normalizer.NewProcessor(cfg.Dashboard.Years, log),
		names:          cfg.DisplayName,
		log:            log,
		now:            time.Now,
		window:         cfg.Dashboard.Years,
		maxConcurrency: cfg.Loader.MaxConcurrency,
	}
}

// Load resolves every id to a document or synthetic record and returns the
// assembled snapshot. It returns only after every id has resolved. Duplicate
// and blank ids are dropped, so the dataset holds one record per distinct id.
func (l *Loader) Load(ctx context.Context, ids []string) *models.Snapshot {
	start := l.now()
	ids = uniqueIDs(ids)

	records := make([]*models.CountryRecord, len(ids))
	report := make([]models.LoadOutcome, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.maxConcurrency, 1))

	for i, id := range ids {
		g.Go(func() error {
			records[i], report[i] = l.loadOne(gctx, id)

			return nil
		})
	}

	// Tasks never fail; the group is only a bounded barrier.
	_ = g.Wait()

	ds := models.NewDataset(records)
	snap := &models.Snapshot{
		LoadID:      uuid.NewString(),
		LoadedAt:    l.now(),
		Dataset:     ds,
		Fingerprint: metadata.Fingerprint(ds),
		Report:      report,
	}

	l.log.Info("load complete",
		"load_id", snap.LoadID,
		"countries", ds.Len(),
		"synthetic", snap.SyntheticCount(),
		"fingerprint", snap.Fingerprint,
		"duration", time.Since(start),
	)

	return snap
}

func (l *Loader) loadOne(ctx context.Context, id string) (*models.CountryRecord, models.LoadOutcome) {
	start := time.Now()
	outcome := models.LoadOutcome{ID: id}

	rec, location, err := l.fetchAndNormalize(ctx, id)
	outcome.Location = location
	outcome.Duration = time.Since(start)

	if err != nil {
		rec = Synthetic(id, l.names(id), l.window)
		rec.FailureReason = err.Error()
		outcome.Source = models.SourceSynthetic
		outcome.Err = err
		outcome.Reason = err.Error()

		l.log.Warn("using synthetic record", "id", id, "location", location, "reason", err, "duration", outcome.Duration)

		return rec, outcome
	}

	outcome.Source = models.SourceDocument
	l.log.Debug("loaded document", "id", id, "location", location, "years", len(rec.YearlyMetrics), "duration", outcome.Duration)

	return rec, outcome
}

func (l *Loader) fetchAndNormalize(ctx context.Context, id string) (*models.CountryRecord, string, error) {
	content, location, err := l.fetcher.FetchDocument(ctx, id)
	if err != nil {
		return nil, location, err
	}

	rec, err := l.processor.Process(id, location, content)
	if err != nil {
		return nil, location, err
	}

	// The record is keyed by the requested id whatever the document says.
	rec.ID = id

	return rec, location, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}

		seen[id] = true
		out = append(out, id)
	}

	return out
}

// Func adapts a plain function to the Fetcher interface.
type Func func(ctx context.Context, id string) (string, string, error)

// FetchDocument calls f.
func (f Func) FetchDocument(ctx context.Context, id string) (string, string, error) {
	return f(ctx, id)
}

var _ Fetcher = Func(nil)
