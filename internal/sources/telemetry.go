package sources

import (
	"context"

	"github.com/itk-os2display/aarhus-data-bundle/internal/measurement"
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

// telemetryReading is the flat attribute object returned per physical
// sensor. Every attribute is optional; which ones are present depends on
// the instruments mounted on that sensor.
type telemetryReading struct {
	WaterTemperature   flexFloat `json:"sensor_water_temperature_value"`
	WaterTemperatureTS flexInt   `json:"sensor_water_temperature_ts"`
	WindSpeed          flexFloat `json:"sensor_wind_speed_value"`
	WindSpeedTS        flexInt   `json:"sensor_wind_speed_ts"`
	Rain               flexFloat `json:"sensor_rain_value"`
	RainTS             flexInt   `json:"sensor_rain_ts"`
	Pressure           flexFloat `json:"sensor_pressure_value"`
	PressureTS         flexInt   `json:"sensor_pressure_ts"`
}

// telemetryField binds a semantic field name to its reading accessors and
// the scale the raw value must be multiplied by. Pressure is delivered in
// centi-hPa.
type telemetryField struct {
	name  string
	scale float64
	value func(*telemetryReading) flexFloat
	ts    func(*telemetryReading) flexInt
}

var telemetryFields = []telemetryField{
	{
		name:  "water_temperature",
		scale: 1,
		value: func(r *telemetryReading) flexFloat { return r.WaterTemperature },
		ts:    func(r *telemetryReading) flexInt { return r.WaterTemperatureTS },
	},
	{
		name:  "wind_speed",
		scale: 1,
		value: func(r *telemetryReading) flexFloat { return r.WindSpeed },
		ts:    func(r *telemetryReading) flexInt { return r.WindSpeedTS },
	},
	{
		name:  "rain",
		scale: 1,
		value: func(r *telemetryReading) flexFloat { return r.Rain },
		ts:    func(r *telemetryReading) flexInt { return r.RainTS },
	},
	{
		name:  "pressure",
		scale: 0.01,
		value: func(r *telemetryReading) flexFloat { return r.Pressure },
		ts:    func(r *telemetryReading) flexInt { return r.PressureTS },
	},
}

// transformTelemetry extracts the requested fields from one sensor reading.
// Fields the reading does not carry are simply absent from the output. A
// missing per-attribute timestamp yields a record without one.
func transformTelemetry(reading *telemetryReading, requested []string, locationKey string, tr translate.Translator) []measurement.Record {
	if reading == nil {
		return nil
	}

	location := ""
	if locationKey != "" {
		location = tr.Translate(locationKey)
	}

	var records []measurement.Record
	for _, field := range telemetryFields {
		if !fieldRequested(requested, field.name) {
			continue
		}
		raw, ok := field.value(reading).get()
		if !ok {
			continue
		}

		rec := measurement.NewRecord(
			tr.Translate("field."+field.name),
			tr.Translate("unit."+field.name),
			raw*field.scale,
		)
		if location != "" {
			rec = rec.WithLocation(location)
		}
		if ts, ok := field.ts(reading).get(); ok {
			rec = rec.WithTimestamp(ts)
		}
		records = append(records, rec)
	}

	return records
}

// fieldRequested reports whether name is in the requested-fields list. An
// empty list requests everything.
func fieldRequested(requested []string, name string) bool {
	if len(requested) == 0 {
		return true
	}
	for _, r := range requested {
		if r == name {
			return true
		}
	}
	return false
}

// telemetryHandler queries each hardcoded physical sensor independently,
// one fetch per sensor, and concatenates the results.
type telemetryHandler struct {
	pipeline    *Pipeline
	translator  translate.Translator
	baseURL     string
	sensorIDs   []string
	fields      []string
	locationKey string
}

func (h *telemetryHandler) Records(ctx context.Context, _ Params) ([]measurement.Record, error) {
	var records []measurement.Record
	for _, id := range h.sensorIDs {
		reading, err := h.pipeline.fetchTelemetry(ctx, h.baseURL+"?sensor="+id)
		if err != nil {
			return nil, err
		}
		records = append(records, transformTelemetry(reading, h.fields, h.locationKey, h.translator)...)
	}
	return records, nil
}
