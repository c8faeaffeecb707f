package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat_JSON(t *testing.T) {
	data, err := json.Marshal([]Float{1.5, Float(math.NaN()), Float(math.Inf(1)), 0})
	require.NoError(t, err)
	require.JSONEq(t, `[1.5, null, null, 0]`, string(data))

	var back []Float
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, Float(1.5), back[0])
	require.True(t, math.IsNaN(float64(back[1])))
}

func TestStats_MarshalConstantPopulation(t *testing.T) {
	s := Compute([]float64{5, 5}, Identity)
	require.True(t, math.IsNaN(s.Skewness))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":2,"min":5,"max":5,"mean":5,"variance":0,"skewness":null,"kurtosis":null}`, string(data))

	var back Stats
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, 2, back.N)
	require.Equal(t, 5.0, back.Mean)
	require.True(t, math.IsNaN(back.Kurtosis))
}

func TestStats_MarshalEmptyPopulation(t *testing.T) {
	data, err := json.Marshal(Compute([]float64{}, Identity))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Equal(t, 0.0, fields["n"])
	require.Nil(t, fields["mean"])
}
