package csdm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
)

const sampleCSDM = `{
	"csdm": {
		"version": "1.0",
		"dimensions": [
			{
				"type": "linear",
				"count": 4096,
				"increment": "10.0 Hz",
				"coordinates_offset": "-5 kHz",
				"origin_offset": "400 MHz"
			}
		],
		"dependent_variables": [
			{"type": "internal", "numeric_type": "float64", "components": [[]]}
		]
	}
}`

func TestDecodeLinearDimension(t *testing.T) {
	spectrum, err := NewDecoder().Decode([]byte(sampleCSDM))
	require.NoError(t, err)

	require.Len(t, spectrum.Dimensions, 1)
	dim := spectrum.Dimensions[0]
	assert.Equal(t, 4096, dim.Count)
	assert.Equal(t, 10.0, dim.IncrementHz)
	assert.Equal(t, -5000.0, dim.CoordinatesOffsetHz)
	assert.Equal(t, 4e8, dim.OriginOffsetHz)

	// The full dictionary travels with the decoded geometry.
	require.Contains(t, spectrum.Dict, "csdm")
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := NewDecoder().Decode([]byte(`{broken`))
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestDecodeMissingEnvelope(t *testing.T) {
	_, err := NewDecoder().Decode([]byte(`{"other": {}}`))
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestDecodeSkipsNonLinearDimensions(t *testing.T) {
	raw := `{
		"csdm": {
			"version": "1.0",
			"dimensions": [
				{"type": "labeled", "labels": ["a", "b"]},
				{"type": "linear", "count": 128, "increment": "100 Hz"}
			]
		}
	}`

	spectrum, err := NewDecoder().Decode([]byte(raw))
	require.NoError(t, err)
	require.Len(t, spectrum.Dimensions, 1)
	assert.Equal(t, 128, spectrum.Dimensions[0].Count)
}

func TestDecodeNoLinearDimensions(t *testing.T) {
	raw := `{"csdm": {"version": "1.0", "dimensions": [{"type": "labeled"}]}}`
	_, err := NewDecoder().Decode([]byte(raw))
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestDecodeBadCount(t *testing.T) {
	raw := `{"csdm": {"version": "1.0", "dimensions": [{"type": "linear", "count": 0, "increment": "1 Hz"}]}}`
	_, err := NewDecoder().Decode([]byte(raw))
	assert.ErrorIs(t, err, domain.ErrParse)
}
