// Package sources maps data-function identifiers to the extraction routines
// that pull readings from upstream endpoints and normalize them into
// measurement records.
package sources

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
)

// Descriptor describes one registry entry for the slide-configuration UI.
type Descriptor struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
}

// Params carries the slide-supplied settings consumed by generic functions.
// Built-in functions ignore it.
type Params struct {
	URL  string
	Type string
}

// Handler produces normalized records for one data-function invocation.
// Implementations absorb nothing themselves: fetch, parse and schema
// failures surface as errors and are converted to empty results by the
// batch processor.
type Handler interface {
	Records(ctx context.Context, params Params) ([]measurement.Record, error)
}

// ErrSchemaMismatch indicates a response decoded but lacked the expected
// envelope fields.
var ErrSchemaMismatch = errors.New("unexpected response schema")

// flexFloat decodes a JSON number that upstream sources deliver either as a
// number or as a numeric string. CKAN datastore columns are typed loosely
// enough that both occur in practice, and live resources occasionally carry
// placeholder text like "N/A" in a numeric column. Anything unparseable
// reads as absent; the zero value is absent too.
type flexFloat struct {
	value float64
	set   bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.value = v
	f.set = true
	return nil
}

// get returns the decoded value and whether the column held one.
func (f flexFloat) get() (float64, bool) {
	return f.value, f.set
}

// flexInt decodes an epoch timestamp delivered as number or string, with the
// same absent-on-unparseable behavior as flexFloat. Some sources include a
// fractional part; it is truncated.
type flexInt struct {
	value int64
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.value = int64(v)
	f.set = true
	return nil
}

func (f flexInt) get() (int64, bool) {
	return f.value, f.set
}

var (
	_ json.Unmarshaler = (*flexFloat)(nil)
	_ json.Unmarshaler = (*flexInt)(nil)
)
