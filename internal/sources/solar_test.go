package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itk-os2display/aarhus-data-bundle/internal/parser"
	"github.com/itk-os2display/aarhus-data-bundle/internal/translate"
)

func TestTransformSolar_SumsAndFloors(t *testing.T) {
	t.Parallel()

	var records []solarRecord
	require.NoError(t, parser.DecodeJSON(
		[]byte(`[{"current": 1000, "daily": 500}, {"current": 2000, "daily": 1500}]`), &records))

	out := transformSolar(records, translate.Default())

	require.Len(t, out, 2)
	assert.Equal(t, "Aktuel produktion", out[0].Name)
	assert.Equal(t, "kW", out[0].Unit)
	assert.Equal(t, float64(3), out[0].Value, "floor(3000/1000)")

	assert.Equal(t, "Produktion i dag", out[1].Name)
	assert.Equal(t, "kWh", out[1].Unit)
	assert.Equal(t, float64(2), out[1].Value, "floor(2000/1000)")
}

func TestTransformSolar_MissingFieldsCountAsZero(t *testing.T) {
	t.Parallel()

	var records []solarRecord
	require.NoError(t, parser.DecodeJSON(
		[]byte(`[{"current": 2500}, {"daily": 1800}]`), &records))

	out := transformSolar(records, translate.Default())

	require.Len(t, out, 2)
	assert.Equal(t, float64(2), out[0].Value)
	assert.Equal(t, float64(1), out[1].Value)
}

func TestTransformSolar_EmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, transformSolar(nil, translate.Default()))
}
