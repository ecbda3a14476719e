package models

import "time"

// Dataset maps country id to record. Build it once per load cycle and replace it wholesale.
type Dataset struct {
	records map[string]*CountryRecord
	order   []string
}

// NewDataset builds a dataset from records. Iteration order follows the slice; later duplicates are dropped.
func NewDataset(records []*CountryRecord) *Dataset {
	ds := &Dataset{
		records: make(map[string]*CountryRecord, len(records)),
		order:   make([]string, 0, len(records)),
	}

	for _, rec := range records {
		if rec == nil {
			continue
		}

		if _, exists := ds.records[rec.ID]; exists {
			continue
		}

		ds.records[rec.ID] = rec
		ds.order = append(ds.order, rec.ID)
	}

	return ds
}

// Get returns the record for id.
func (d *Dataset) Get(id string) (*CountryRecord, bool) {
	if d == nil {
		return nil, false
	}

	rec, ok := d.records[id]

	return rec, ok
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}

	return len(d.order)
}

// IDs returns the ids in iteration order.
func (d *Dataset) IDs() []string {
	if d == nil {
		return nil
	}

	ids := make([]string, len(d.order))
	copy(ids, d.order)

	return ids
}

// Records returns the records in iteration order.
func (d *Dataset) Records() []*CountryRecord {
	if d == nil {
		return nil
	}

	out := make([]*CountryRecord, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.records[id])
	}

	return out
}

// LoadOutcome describes how one id was resolved during a load cycle.
type LoadOutcome struct {
	ID       string        `json:"id"`
	Source   string        `json:"source"`
	Location string        `json:"location,omitempty"`
	Err      error         `json:"-"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Snapshot is the unit published by the loader.
type Snapshot struct {
	LoadedAt    time.Time     `json:"loadedAt"`
	Dataset     *Dataset      `json:"-"`
	LoadID      string        `json:"loadId"`
	Fingerprint string        `json:"fingerprint"`
	Report      []LoadOutcome `json:"report"`
}

// SyntheticCount returns how many records fell back to synthetic data.
func (s *Snapshot) SyntheticCount() int {
	n := 0

	for _, o := range s.Report {
		if o.Source == SourceSynthetic {
			n++
		}
	}

	return n
}
