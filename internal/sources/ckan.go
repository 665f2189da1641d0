package sources

import (
	"context"
	"math"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

// ckanEnvelope is the datastore-search response shape shared by all CKAN
// portals: records live under result.records and the success flag reports
// whether the query ran.
type ckanEnvelope struct {
	Success bool        `json:"success"`
	Result  *ckanResult `json:"result"`
}

type ckanResult struct {
	Records []ckanRecord `json:"records"`
}

// ckanRecord is one datastore row. Which of the optional columns are
// populated varies per resource; absent columns read as unset.
type ckanRecord struct {
	Sensor string    `json:"sensor"`
	Type   string    `json:"type"`
	Value  flexFloat `json:"value"`
	Val    flexFloat `json:"val"`
	Time   flexInt   `json:"time"`
}

// discriminator returns the value identifying what the row measures. Older
// resources use a sensor column, newer ones a type column.
func (r *ckanRecord) discriminator() string {
	if r.Sensor != "" {
		return r.Sensor
	}
	return r.Type
}

// reading returns the numeric value of the row, preferring the long column
// name over the abbreviated one.
func (r *ckanRecord) reading() (float64, bool) {
	if v, ok := r.Value.get(); ok {
		return v, true
	}
	return r.Val.get()
}

// dokk1Field maps a semantic field name to the sensor discriminator used in
// the Dokk1 indoor-climate resource. Order here is emission order.
type dokk1Field struct {
	name          string
	discriminator string
}

var dokk1Fields = []dokk1Field{
	{name: "temperature", discriminator: "TCA"},
	{name: "daylight", discriminator: "LUM"},
	{name: "sound", discriminator: "MCP"},
	{name: "humidity", discriminator: "HUMA"},
}

// transformDokk1 extracts the fixed Dokk1 field table from a CKAN envelope.
// With a selector only that field is extracted; otherwise all table entries
// are attempted in table order. Fields whose discriminator is absent from
// the input are skipped, never an error.
func transformDokk1(env *ckanEnvelope, selector string, tr translate.Translator) []measurement.Record {
	if env == nil || !env.Success || env.Result == nil {
		return nil
	}

	location := tr.Translate("location.dokk1")

	var records []measurement.Record
	for _, field := range dokk1Fields {
		if selector != "" && selector != field.name {
			continue
		}
		row := findByDiscriminator(env.Result.Records, field.discriminator)
		if row == nil {
			continue
		}
		value, ok := row.reading()
		if !ok {
			continue
		}

		rec := measurement.NewRecord(
			tr.Translate("field."+field.name),
			tr.Translate("unit."+field.name),
			math.Round(value),
		).WithLocation(location)
		if ts, ok := row.Time.get(); ok {
			rec = rec.WithTimestamp(ts)
		}
		records = append(records, rec)
	}

	return records
}

// findByDiscriminator returns the first record matching the discriminator.
func findByDiscriminator(records []ckanRecord, discriminator string) *ckanRecord {
	for i := range records {
		if records[i].discriminator() == discriminator {
			return &records[i]
		}
	}
	return nil
}

// ckanHandler serves a fixed CKAN datastore resource through the Dokk1
// field table.
type ckanHandler struct {
	pipeline   *Pipeline
	translator translate.Translator
	url        string
	selector   string
}

func (h *ckanHandler) Records(ctx context.Context, _ Params) ([]measurement.Record, error) {
	env, err := h.pipeline.fetchCKAN(ctx, h.url)
	if err != nil {
		return nil, err
	}
	return transformDokk1(env, h.selector, h.translator), nil
}
