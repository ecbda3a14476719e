// Package normalizer converts raw source documents into canonical country records.
//
// The pipeline is Extractor (locate the embedded literal) -> Repair (bounded
// textual fixes) -> decode (resolve one of the two known shapes) -> Validator
// -> Transformer. Processor drives it for one document at a time.
package normalizer

import "errors"

// Normalization failures. Callers match them with errors.Is.
var (
	// ErrNotFound means no embedded data literal was located in the payload.
	ErrNotFound = errors.New("embedded data literal not found")
	// ErrMalformedData means the literal could not be parsed after repair.
	ErrMalformedData = errors.New("malformed data literal")
	// ErrInvalidShape means the literal parsed but lacks required fields or carries invalid values.
	ErrInvalidShape = errors.New("invalid data shape")
)
