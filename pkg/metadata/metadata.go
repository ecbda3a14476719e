// Package metadata signs source documents and fingerprints loaded datasets.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gdpdash/internal/models"
)

const (
	// TagStart opens the metadata block.
	TagStart = "<!-- METADATA_START"
	// TagEnd closes the metadata block.
	TagEnd = "METADATA_END -->"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata is the integrity block trailing a source document.
type Metadata struct {
	LastModify time.Time
	Version    string
	Hash       string
}

var metadataRegex = regexp.MustCompile(`(?s)<!--\s*METADATA_START\s*\n(.*?)\n\s*METADATA_END\s*-->`)

// Extract splits content into its metadata block (nil if absent) and the remaining content.
// The remaining content is what gets hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	clean := strings.TrimRight(metadataRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, clean
	}

	meta := &Metadata{}

	for _, line := range strings.Split(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "LAST_MODIFY":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.LastModify = t
			}
		case "HASH":
			meta.Hash = val
		case "VERSION":
			meta.Version = val
		}
	}

	return meta, clean
}

// CalculateHash computes the SHA-256 of content with any metadata block removed.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	sum := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(sum[:])
}

// Sign replaces any existing metadata block with a fresh one.
func Sign(content, version string, now time.Time) string {
	_, clean := Extract(content)

	block := fmt.Sprintf("\n\n%s\nVERSION: %s\nLAST_MODIFY: %s\nHASH: %s\n%s\n",
		TagStart, version, now.UTC().Format(time.RFC3339), CalculateHash(clean), TagEnd)

	return clean + block
}

// Verify checks content against the hash in its metadata block.
func Verify(content string) (bool, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return false, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != meta.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return true, nil
}

// Fingerprint returns a stable SHA-256 over the dataset contents, in iteration order.
// Two snapshots with equal records share a fingerprint regardless of when they were loaded.
func Fingerprint(ds *models.Dataset) string {
	h := sha256.New()

	for _, rec := range ds.Records() {
		// map keys are marshaled sorted, so the encoding is deterministic
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}

		h.Write(data)
		h.Write([]byte{'\n'})
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}
