package sources

import (
	"context"
	"math"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

// solarRecord is one plant entry in the solar production feed. Values are
// reported in watts.
type solarRecord struct {
	Current flexFloat `json:"current"`
	Daily   flexFloat `json:"daily"`
}

// wattsPerKilowatt converts the feed's watt figures to kilowatts for display.
const wattsPerKilowatt = 1000

// transformSolar sums current and daily production across all plants and
// emits the two aggregate records, floored to whole kilowatts.
func transformSolar(records []solarRecord, tr translate.Translator) []measurement.Record {
	if len(records) == 0 {
		return nil
	}

	var current, daily float64
	for _, r := range records {
		if v, ok := r.Current.get(); ok {
			current += v
		}
		if v, ok := r.Daily.get(); ok {
			daily += v
		}
	}

	return []measurement.Record{
		measurement.NewRecord(
			tr.Translate("field.solar_current"),
			tr.Translate("unit.solar_current"),
			math.Floor(current/wattsPerKilowatt),
		),
		measurement.NewRecord(
			tr.Translate("field.solar_today"),
			tr.Translate("unit.solar_today"),
			math.Floor(daily/wattsPerKilowatt),
		),
	}
}

// solarHandler serves the aggregate solar production function.
type solarHandler struct {
	pipeline   *Pipeline
	translator translate.Translator
	url        string
}

func (h *solarHandler) Records(ctx context.Context, _ Params) ([]measurement.Record, error) {
	records, err := h.pipeline.fetchSolar(ctx, h.url)
	if err != nil {
		return nil, err
	}
	return transformSolar(records, h.translator), nil
}
