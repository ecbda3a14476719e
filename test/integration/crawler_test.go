package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"gdpdash/internal/config"
	"gdpdash/internal/crawler"
	"gdpdash/internal/loader"
	"gdpdash/internal/models"
	"gdpdash/internal/seed"
)

// remoteConfig points the primary base at a failing server and the backup at a healthy one.
func remoteConfig(primary, backup string) *config.Config {
	cfg := config.Default()
	cfg.Sources.Base = primary
	cfg.Sources.BackupBases = []string{backup}
	cfg.Crawler.Retry.MaxAttempts = 2
	cfg.Crawler.Retry.InitialDelayMs = 1
	cfg.Crawler.Retry.MaxDelayMs = 5
	cfg.Crawler.Retry.TimeoutSec = 2

	return cfg
}

func TestCrawler_RemoteFallbackToBackup(t *testing.T) {
	docs := map[string]string{}
	for _, c := range seed.Countries() {
		docs["/countries/"+c.ID+".html"] = seed.Render(c)
	}

	var primaryHits atomic.Int32

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		primaryHits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer primary.Close()

	backup := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(doc))
	}))
	defer backup.Close()

	cfg := remoteConfig(primary.URL, backup.URL)
	cfg.Dashboard.Countries = append(cfg.Dashboard.Countries, "atlantis")

	client := crawler.NewClient(cfg, nil)
	snap := loader.New(cfg, client, nil).Load(context.Background(), cfg.Dashboard.Countries)

	if snap.Dataset.Len() != 11 {
		t.Fatalf("Expected 11 records, got %d", snap.Dataset.Len())
	}

	if snap.SyntheticCount() != 1 {
		t.Errorf("Expected only atlantis synthetic, got %d", snap.SyntheticCount())
	}

	if got := primaryHits.Load(); got != 22 {
		t.Errorf("Expected 2 primary attempts per id (22), got %d", got)
	}

	usa, ok := snap.Dataset.Get("usa")
	if !ok || usa.Source != models.SourceDocument {
		t.Fatalf("Expected usa from document, got %+v", usa)
	}

	if !strings.HasPrefix(usa.Location, backup.URL) {
		t.Errorf("Expected usa location on backup, got %s", usa.Location)
	}

	atlantis, _ := snap.Dataset.Get("atlantis")
	if !atlantis.IsSynthetic() || atlantis.FailureReason == "" {
		t.Errorf("Expected synthetic atlantis with a reason, got %+v", atlantis)
	}
}
