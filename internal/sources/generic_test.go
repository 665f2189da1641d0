package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

func TestTransformCKANRecords_EmitsEveryRecord(t *testing.T) {
	t.Parallel()

	body := `{
		"success": true,
		"result": {
			"records": [
				{"type": "temperature", "value": 21.4, "time": 1000},
				{"type": "humidity", "value": 54.8, "time": 1000}
			]
		}
	}`
	records := transformCKANRecords(decodeCKAN(t, body), "location.waterfront", translate.Default())

	require.Len(t, records, 2)
	assert.Equal(t, "Temperatur", records[0].Name)
	assert.Equal(t, "°C", records[0].Unit)
	assert.Equal(t, "Havnefronten", records[0].Location)
	assert.Equal(t, float64(21), records[0].Value)
	require.NotNil(t, records[0].Timestamp)
	assert.Equal(t, int64(1000), *records[0].Timestamp)

	assert.Equal(t, "Luftfugtighed", records[1].Name)
	assert.Equal(t, float64(55), records[1].Value)
}

func TestTransformCKANRecords_UnknownTypeFallsBackToKey(t *testing.T) {
	t.Parallel()

	body := `{"success": true, "result": {"records": [{"type": "lux", "value": 310}]}}`
	records := transformCKANRecords(decodeCKAN(t, body), "", translate.Default())

	require.Len(t, records, 1)
	assert.Equal(t, "field.lux", records[0].Name)
	assert.Equal(t, "unit.lux", records[0].Unit)
	assert.Empty(t, records[0].Location)
}

func TestTransformCKANRecords_RequiresEnvelope(t *testing.T) {
	t.Parallel()

	tr := translate.Default()

	assert.Empty(t, transformCKANRecords(decodeCKAN(t, `{"success": false, "result": {"records": []}}`), "", tr))
	assert.Empty(t, transformCKANRecords(decodeCKAN(t, `{"success": true}`), "", tr))
	assert.Empty(t, transformCKANRecords(nil, "", tr))
}

func TestTransformCKANRecords_SkipsRecordsWithoutValue(t *testing.T) {
	t.Parallel()

	body := `{"success": true, "result": {"records": [
		{"type": "temperature"},
		{"type": "humidity", "value": 48.2}
	]}}`
	records := transformCKANRecords(decodeCKAN(t, body), "", translate.Default())

	require.Len(t, records, 1)
	assert.Equal(t, "Luftfugtighed", records[0].Name)
}

func TestTransformCKANRecords_GarbageValueSkipsRecordOnly(t *testing.T) {
	t.Parallel()

	body := `{"success": true, "result": {"records": [
		{"type": "temperature", "value": "N/A"},
		{"type": "humidity", "value": 48.2}
	]}}`
	records := transformCKANRecords(decodeCKAN(t, body), "", translate.Default())

	require.Len(t, records, 1)
	assert.Equal(t, "Luftfugtighed", records[0].Name)
}

func TestTransformCSVRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"name", "unit", "value", "timestamp"}, // header: non-numeric value
		{"Temperatur", "°C", "21.5", "1500000000"},
		{"Luftfugtighed", "%", "55"},
		{"broken", "x"}, // too few columns
	}
	records := transformCSVRows(rows)

	require.Len(t, records, 2)
	assert.Equal(t, "Temperatur", records[0].Name)
	assert.Equal(t, 21.5, records[0].Value)
	require.NotNil(t, records[0].Timestamp)
	assert.Equal(t, int64(1500000000), *records[0].Timestamp)

	assert.Equal(t, "Luftfugtighed", records[1].Name)
	assert.Nil(t, records[1].Timestamp)
}
