package crawler

import (
	"context"
	"errors"
	"fmt"

	"gdpdash/internal/config"
	"gdpdash/internal/logger"
)

// Client fetches the source document for a country id, trying each
// candidate location in order until one succeeds.
type Client struct {
	scraper  *Scraper
	resolver *SourceResolver
	log      *logger.Logger
}

// NewClient creates a crawler client from config.
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return NewClientWithDeps(
		NewScraperWithConfig(&cfg.Crawler.Retry, cfg.Crawler.BufferSizeKb),
		NewSourceResolver(&cfg.Sources),
		log,
	)
}

// NewClientWithDeps creates a new crawler client with injected dependencies.
func NewClientWithDeps(scraper *Scraper, resolver *SourceResolver, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}

	return &Client{scraper: scraper, resolver: resolver, log: log}
}

// Resolver returns the client's source resolver.
func (c *Client) Resolver() *SourceResolver {
	return c.resolver
}

// FetchDocument returns (content, location, error) for id. The error wraps ErrFetch
// and joins the failure of every location tried.
func (c *Client) FetchDocument(ctx context.Context, id string) (string, string, error) {
	locations, err := c.resolver.Locations(id)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	var errs []error

	for i, loc := range locations {
		content, err := c.scraper.Fetch(ctx, loc)
		if err == nil {
			if i > 0 {
				c.log.Info("fetched from backup source", "id", id, "location", loc)
			}

			return content, loc, nil
		}

		c.log.Debug("source fetch failed", "id", id, "location", loc, "error", err)
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	return "", locations[0], errors.Join(errs...)
}
