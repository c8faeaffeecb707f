package report

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlot(t *testing.T) {
	chart := Plot("load_imbalance", []float64{3, 1.5, 0.5, 0.25}, WithHeight(5), WithWidth(20))

	require.Contains(t, chart, "load_imbalance")
	lines := strings.Split(chart, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
}

func TestPlot_SkipsNonFinite(t *testing.T) {
	require.Empty(t, Plot("skewness", []float64{math.NaN(), math.NaN()}))
	require.Empty(t, Plot("empty", nil))
	require.NotEmpty(t, Plot("partial", []float64{math.NaN(), 1, math.Inf(1), 2}))
}

func TestPlotRanks(t *testing.T) {
	chart := PlotRanks([][]float64{{10, 0}, {6, 4}, {5, 5}}, WithHeight(4))

	require.Contains(t, chart, "rank loads")
	require.Empty(t, PlotRanks(nil))
}

func TestTranspose(t *testing.T) {
	series := Transpose([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, series)

	padded := Transpose([][]float64{{1, 2}, {3}})
	require.Equal(t, 3.0, padded[0][1])
	require.True(t, math.IsNaN(padded[1][1]))

	require.Nil(t, Transpose([][]float64{{}}))
}

func TestWriteHistory(t *testing.T) {
	history := map[string][]float64{
		"maximum_load": {10, 6, 5},
		"skewness":     {math.NaN(), math.NaN(), math.NaN()},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, history, []string{"maximum_load", "skewness", "missing"}))

	out := buf.String()
	require.Contains(t, out, "maximum_load")
	require.NotContains(t, out, "skewness")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteHistory_PropagatesWriteError(t *testing.T) {
	err := WriteHistory(failingWriter{}, map[string][]float64{"a": {1, 2}}, []string{"a"})
	require.ErrorContains(t, err, "disk full")
}
