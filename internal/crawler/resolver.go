package crawler

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"gdpdash/internal/config"
)

// ErrNoSourcesAvailable is returned when no base is configured.
var ErrNoSourcesAvailable = errors.New("no sources available")

// SourceResolver expands the path template into candidate locations,
// primary base first, then the backups in configured order.
type SourceResolver struct {
	template string
	bases    []string
}

// NewSourceResolver creates a resolver from the sources section of the config.
func NewSourceResolver(src *config.SourcesConfig) *SourceResolver {
	var bases []string

	for _, b := range src.GetAllBases() {
		if b = strings.TrimSpace(b); b != "" {
			bases = append(bases, b)
		}
	}

	return &SourceResolver{template: src.PathTemplate, bases: bases}
}

// Path returns the template expanded for id, relative to any base.
func (r *SourceResolver) Path(id string) string {
	return strings.ReplaceAll(r.template, config.IDPlaceholder, id)
}

// Locations returns every candidate location for id.
func (r *SourceResolver) Locations(id string) ([]string, error) {
	if len(r.bases) == 0 {
		return nil, ErrNoSourcesAvailable
	}

	rel := r.Path(id)
	out := make([]string, 0, len(r.bases))

	for _, base := range r.bases {
		if !config.IsRemoteBase(base) {
			out = append(out, filepath.Join(base, filepath.FromSlash(rel)))

			continue
		}

		loc, err := url.JoinPath(base, rel)
		if err != nil {
			continue
		}

		out = append(out, loc)
	}

	if len(out) == 0 {
		return nil, ErrNoSourcesAvailable
	}

	return out, nil
}

// LocalDirs returns the directories that hold local documents, for watching.
func (r *SourceResolver) LocalDirs() []string {
	var dirs []string

	for _, base := range r.bases {
		if config.IsRemoteBase(base) {
			continue
		}

		dirs = append(dirs, filepath.Dir(filepath.Join(base, filepath.FromSlash(r.Path("x")))))
	}

	return dirs
}
