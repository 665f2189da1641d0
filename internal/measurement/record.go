// Package measurement defines the canonical normalized output of the data
// pipeline: one labeled, optionally timestamped numeric reading per record.
package measurement

// Record is a single normalized reading produced by a source transformer.
// Name, Unit and Value are always set; Location and Timestamp depend on what
// the upstream source can provide. Records are never mutated after creation.
type Record struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Location  string  `json:"location,omitempty"`
	Timestamp *int64  `json:"timestamp,omitempty"`
	Value     float64 `json:"value"`
}

// NewRecord creates a record without location or timestamp.
func NewRecord(name, unit string, value float64) Record {
	return Record{Name: name, Unit: unit, Value: value}
}

// WithTimestamp returns a copy of the record carrying the given epoch timestamp.
func (r Record) WithTimestamp(ts int64) Record {
	r.Timestamp = &ts
	return r
}

// WithLocation returns a copy of the record carrying the given location label.
func (r Record) WithLocation(location string) Record {
	r.Location = location
	return r
}
