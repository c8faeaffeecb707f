package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

const (
	defaultHeight = 15
	defaultWidth  = 80
)

// PlotOption configures plot rendering.
type PlotOption func(*plotOptions)

type plotOptions struct {
	height int
	width  int
}

// WithHeight sets the plot height in rows.
func WithHeight(h int) PlotOption {
	return func(o *plotOptions) {
		o.height = h
	}
}

// WithWidth sets the plot width in columns. Shorter series are interpolated.
func WithWidth(w int) PlotOption {
	return func(o *plotOptions) {
		o.width = w
	}
}

func resolve(opts []PlotOption) plotOptions {
	o := plotOptions{height: defaultHeight, width: defaultWidth}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// Plot renders one metric history as an ASCII line chart.
//
// Non-finite values are drawn as gaps. A history without any finite value
// renders as an empty string.
//
// Parameters:
//   - name: Caption
//   - values: Metric value per iteration
//   - opts: Height and width
//
// Returns:
//   - string: Rendered chart
func Plot(name string, values []float64, opts ...PlotOption) string {
	if !hasFinite(values) {
		return ""
	}
	o := resolve(opts)

	return asciigraph.Plot(gaps(values),
		asciigraph.Caption(name),
		asciigraph.Height(o.height),
		asciigraph.Width(o.width),
	)
}

// PlotRanks renders one line per rank across iterations.
//
// Parameters:
//   - distributions: Load distribution per iteration (as returned by Runtime.LoadDistributions)
//   - opts: Height and width
//
// Returns:
//   - string: Rendered chart, empty for an empty history
func PlotRanks(distributions [][]float64, opts ...PlotOption) string {
	series := Transpose(distributions)
	if len(series) == 0 {
		return ""
	}
	o := resolve(opts)

	return asciigraph.PlotMany(series,
		asciigraph.Caption("rank loads"),
		asciigraph.Height(o.height),
		asciigraph.Width(o.width),
	)
}

// WriteHistory writes a chart for every named metric in order.
//
// Parameters:
//   - w: Destination
//   - history: Metric name → values (as returned by Runtime.Statistics)
//   - names: Metrics to plot; missing or all-NaN metrics are skipped
//   - opts: Height and width
//
// Returns:
//   - error: Write error
func WriteHistory(w io.Writer, history map[string][]float64, names []string, opts ...PlotOption) error {
	var buf strings.Builder
	for _, name := range names {
		chart := Plot(name, history[name], opts...)
		if chart == "" {
			continue
		}
		buf.WriteString("\n")
		buf.WriteString(chart)
		buf.WriteString("\n")
	}

	if _, err := io.WriteString(w, buf.String()); err != nil {
		return fmt.Errorf("write plots: %w", err)
	}

	return nil
}

// Transpose turns per-iteration rank loads into per-rank series.
//
// Rows shorter than the first are padded with NaN.
func Transpose(distributions [][]float64) [][]float64 {
	if len(distributions) == 0 || len(distributions[0]) == 0 {
		return nil
	}

	series := make([][]float64, len(distributions[0]))
	for r := range series {
		series[r] = make([]float64, len(distributions))
		for i, loads := range distributions {
			if r < len(loads) {
				series[r][i] = loads[r]
			} else {
				series[r][i] = math.NaN()
			}
		}
	}

	return series
}

func hasFinite(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return true
		}
	}

	return false
}

// gaps maps infinities to NaN, which asciigraph leaves blank.
func gaps(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		out[i] = v
	}

	return out
}
