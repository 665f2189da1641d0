package sources

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
	"github.com/itk-os2display/aarhus-data-bundle/internal/parser"
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

// transformCKANRecords emits every record of a CKAN envelope as one
// measurement, naming it through the translator from the record's own type
// column. Without a truthy success flag and present result.records the
// result is empty.
func transformCKANRecords(env *ckanEnvelope, locationKey string, tr translate.Translator) []measurement.Record {
	if env == nil || !env.Success || env.Result == nil {
		return nil
	}

	location := ""
	if locationKey != "" {
		location = tr.Translate(locationKey)
	}

	var records []measurement.Record
	for i := range env.Result.Records {
		row := &env.Result.Records[i]
		kind := row.discriminator()
		if kind == "" {
			continue
		}
		value, ok := row.reading()
		if !ok {
			continue
		}

		rec := measurement.NewRecord(
			tr.Translate("field."+kind),
			tr.Translate("unit."+kind),
			math.Round(value),
		)
		if location != "" {
			rec = rec.WithLocation(location)
		}
		if ts, ok := row.Time.get(); ok {
			rec = rec.WithTimestamp(ts)
		}
		records = append(records, rec)
	}

	return records
}

// transformCSVRows maps CSV rows with columns name,unit,value[,timestamp]
// to measurements. Rows without a numeric value column are skipped, which
// also drops a header row.
func transformCSVRows(rows [][]string) []measurement.Record {
	var records []measurement.Record
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			continue
		}

		rec := measurement.NewRecord(strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), value)
		if len(row) >= 4 {
			if ts, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64); err == nil {
				rec = rec.WithTimestamp(ts)
			}
		}
		records = append(records, rec)
	}
	return records
}

// genericHandler serves a CKAN-records resource without a fixed field
// table. With a fixed URL it backs a built-in function; without one it
// consumes the slide-supplied URL and type.
type genericHandler struct {
	pipeline    *Pipeline
	translator  translate.Translator
	url         string
	locationKey string
}

func (h *genericHandler) Records(ctx context.Context, params Params) ([]measurement.Record, error) {
	url := h.url
	dataType := parser.TypeJSON
	if url == "" {
		url = params.URL
		if params.Type != "" {
			dataType = params.Type
		}
	}
	if url == "" {
		// Custom function without a configured URL attaches no data.
		return nil, nil
	}

	switch dataType {
	case parser.TypeJSON:
		env, err := h.pipeline.fetchCKAN(ctx, url)
		if err != nil {
			return nil, err
		}
		return transformCKANRecords(env, h.locationKey, h.translator), nil
	case parser.TypeCSV:
		rows, err := h.pipeline.fetchCSV(ctx, url)
		if err != nil {
			return nil, err
		}
		return transformCSVRows(rows), nil
	default:
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedType, dataType)
	}
}
