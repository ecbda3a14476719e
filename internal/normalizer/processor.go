package normalizer

import (
	"fmt"

	"gdpdash/internal/logger"
	"gdpdash/internal/models"
)

// Processor runs one source document through the whole normalization pipeline.
type Processor struct {
	extractor   *Extractor
	validator   *Validator
	transformer *Transformer
	log         *logger.Logger
}

// NewProcessor creates a processor for the given year window.
func NewProcessor(window models.YearWindow, log *logger.Logger) *Processor {
	v := NewValidator(window)

	if log == nil {
		log = logger.Discard()
	}

	return &Processor{
		extractor:   NewExtractor(),
		validator:   v,
		transformer: NewTransformer(v),
		log:         log,
	}
}

// Process converts payload into a record for id. It never panics; every failure
// is returned wrapping ErrNotFound, ErrMalformedData or ErrInvalidShape.
func (p *Processor) Process(id, location, payload string) (*models.CountryRecord, error) {
	literal, err := p.extractor.Locate(payload)
	if err != nil {
		return nil, err
	}

	repaired, err := Repair(literal)
	if err != nil {
		return nil, fmt.Errorf("%w: repair: %w", ErrMalformedData, err)
	}

	doc, err := decode(repaired)
	if err != nil {
		return nil, err
	}

	if err := p.validator.Validate(doc); err != nil {
		return nil, err
	}

	rec := p.transformer.Transform(id, location, doc)

	p.log.Debug("normalized document",
		"id", rec.ID,
		"shape", doc.Kind.String(),
		"years", len(rec.YearlyMetrics),
		"skipped_keys", len(doc.SkippedKeys),
	)

	return rec, nil
}

// Inspect runs extraction, repair and decoding only, and reports the detected shape.
// Used by the source validator to describe a document without building a record.
func (p *Processor) Inspect(payload string) (ShapeKind, []string, error) {
	literal, err := p.extractor.Locate(payload)
	if err != nil {
		return ShapeUnknown, nil, err
	}

	repaired, err := Repair(literal)
	if err != nil {
		return ShapeUnknown, nil, fmt.Errorf("%w: repair: %w", ErrMalformedData, err)
	}

	doc, err := decode(repaired)
	if err != nil {
		return ShapeUnknown, nil, err
	}

	if err := p.validator.Validate(doc); err != nil {
		return doc.Kind, doc.SkippedKeys, err
	}

	return doc.Kind, doc.SkippedKeys, nil
}
