package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itk-os2display/aarhus-data-bundle/internal/parser"
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

func decodeTelemetry(t *testing.T, body string) *telemetryReading {
	t.Helper()
	var reading telemetryReading
	require.NoError(t, parser.DecodeJSON([]byte(body), &reading))
	return &reading
}

func TestTransformTelemetry_AllFields(t *testing.T) {
	t.Parallel()

	body := `{
		"sensor_water_temperature_value": 14.2,
		"sensor_water_temperature_ts": 1600000000,
		"sensor_wind_speed_value": 5.1,
		"sensor_wind_speed_ts": 1600000000,
		"sensor_rain_value": 0.4,
		"sensor_rain_ts": 1600000000,
		"sensor_pressure_value": 101325,
		"sensor_pressure_ts": 1600000000
	}`
	records := transformTelemetry(decodeTelemetry(t, body), nil, "location.harbor", translate.Default())

	require.Len(t, records, 4)
	assert.Equal(t, "Vandtemperatur", records[0].Name)
	assert.Equal(t, 14.2, records[0].Value)
	assert.Equal(t, "Aarhus Havn", records[0].Location)
	require.NotNil(t, records[0].Timestamp)
	assert.Equal(t, int64(1600000000), *records[0].Timestamp)

	// Pressure is delivered in centi-hPa and scaled down.
	assert.Equal(t, "Lufttryk", records[3].Name)
	assert.InDelta(t, 1013.25, records[3].Value, 0.001)
}

func TestTransformTelemetry_MissingTimestampYieldsNil(t *testing.T) {
	t.Parallel()

	body := `{"sensor_water_temperature_value": 13.8}`
	records := transformTelemetry(decodeTelemetry(t, body), nil, "", translate.Default())

	require.Len(t, records, 1)
	assert.Nil(t, records[0].Timestamp)
	assert.Equal(t, 13.8, records[0].Value)
}

func TestTransformTelemetry_RequestedFieldsOnly(t *testing.T) {
	t.Parallel()

	body := `{
		"sensor_water_temperature_value": 14.2,
		"sensor_wind_speed_value": 5.1
	}`
	records := transformTelemetry(decodeTelemetry(t, body), []string{"wind_speed"}, "", translate.Default())

	require.Len(t, records, 1)
	assert.Equal(t, "Vindhastighed", records[0].Name)
}

func TestTransformTelemetry_UnknownRequestedFieldAbsent(t *testing.T) {
	t.Parallel()

	body := `{"sensor_wind_speed_value": 5.1}`
	records := transformTelemetry(decodeTelemetry(t, body), []string{"water_temperature"}, "", translate.Default())
	assert.Empty(t, records)
}

func TestTransformTelemetry_NilReading(t *testing.T) {
	t.Parallel()

	assert.Empty(t, transformTelemetry(nil, nil, "", translate.Default()))
}
