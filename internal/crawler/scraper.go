package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"gdpdash/internal/config"
)

// Fetch errors.
var (
	// ErrFetch wraps every transport, status or file error the scraper reports.
	ErrFetch = errors.New("fetch failed")
	// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)

const userAgent = "gdpdash/1.0 (+https://github.com/gdpdash)"

// Scraper fetches source documents over HTTP with config-driven retry logic,
// or from the local filesystem.
type Scraper struct {
	client       *http.Client
	retryPolicy  *config.RetryPolicy
	bufferSizeKb int
}

// NewScraper creates a new scraper instance with default config.
func NewScraper() *Scraper {
	cfg := config.Default()

	return NewScraperWithConfig(&cfg.Crawler.Retry, cfg.Crawler.BufferSizeKb)
}

// NewScraperWithConfig creates a new scraper with custom retry policy.
func NewScraperWithConfig(retryPolicy *config.RetryPolicy, bufferSizeKb int) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy:  retryPolicy,
		bufferSizeKb: bufferSizeKb,
	}
}

// Fetch returns the document at location, which is either an HTTP(S) URL or a file path.
func (s *Scraper) Fetch(ctx context.Context, location string) (string, error) {
	if config.IsRemoteBase(location) {
		content, _, _, err := s.ScrapeWithMetrics(ctx, location)

		return content, err
	}

	return s.ReadLocalFile(location)
}

// ScrapeWithMetrics returns (content, statusCode, duration, error).
func (s *Scraper) ScrapeWithMetrics(ctx context.Context, url string) (string, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	for attempt := 1; attempt <= s.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, s.retryPolicy.GetRetryDelay(attempt)); err != nil {
				return "", lastStatusCode, totalDuration, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
			}
		}

		startTime := time.Now()
		body, status, err := s.fetchOnce(ctx, url)
		totalDuration += time.Since(startTime)
		lastStatusCode = status

		if err == nil {
			return body, status, totalDuration, nil
		}

		lastErr = fmt.Errorf("attempt %d/%d: %w", attempt, s.retryPolicy.MaxAttempts, err)

		if ctx.Err() != nil {
			break
		}

		// Only retry transport errors and temporary statuses
		if status != 0 && !isRetryableStatus(status) {
			break
		}
	}

	return "", lastStatusCode, totalDuration, fmt.Errorf("%w: %s: %w", ErrFetch, url, lastErr)
}

func (s *Scraper) fetchOnce(ctx context.Context, url string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.retryPolicy.GetTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(s.limit(resp.Body))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

// ReadLocalFile reads content from a local file path, up to the buffer limit.
func (s *Scraper) ReadLocalFile(filePath string) (string, error) {
	content, _, _, err := s.ReadLocalFileWithMetrics(filePath)

	return content, err
}

// ReadLocalFileWithMetrics returns (content, fileSize, duration, error).
func (s *Scraper) ReadLocalFileWithMetrics(filePath string) (string, int64, time.Duration, error) {
	startTime := time.Now()

	f, err := os.Open(filePath)
	if err != nil {
		return "", 0, time.Since(startTime), fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer f.Close()

	content, err := io.ReadAll(s.limit(f))
	duration := time.Since(startTime)

	if err != nil {
		return "", 0, duration, fmt.Errorf("%w: failed to read local file %s: %w", ErrFetch, filePath, err)
	}

	return string(content), int64(len(content)), duration, nil
}

// limit caps reads at bufferSizeKb kilobytes.
func (s *Scraper) limit(r io.Reader) io.Reader {
	return io.LimitReader(r, int64(s.bufferSizeKb)*1024)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	// Retry on temporary failures
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusBadGateway: // 502
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}
