package effects

import (
	"fmt"
	"strings"
)

// defaultExprPoints caps how many control points a reactive expression keeps.
// ffmpeg evaluates the expression per frame, so long inputs get downsampled.
const defaultExprPoints = 64

// SeriesExpr renders a sampled time series as an ffmpeg expression in t that
// linearly interpolates between control points. Series longer than maxPoints
// are downsampled first (maxPoints <= 0 selects the default cap).
func SeriesExpr(times, values []float64, maxPoints int) string {
	if len(times) == 0 || len(values) == 0 {
		return "0"
	}
	if len(values) < len(times) {
		times = times[:len(values)]
	} else if len(times) < len(values) {
		values = values[:len(times)]
	}
	if maxPoints <= 0 {
		maxPoints = defaultExprPoints
	}
	times, values = downsample(times, values, maxPoints)

	if len(times) == 1 {
		return formatNum(values[0])
	}

	// Build inside-out: the final else branch holds the last value, and each
	// earlier segment wraps it in if(lt(t, t_next), lerp, rest).
	expr := formatNum(values[len(values)-1])
	for i := len(times) - 2; i >= 0; i-- {
		t0, t1 := times[i], times[i+1]
		v0, v1 := values[i], values[i+1]
		dt := t1 - t0
		if dt <= 0 {
			continue
		}
		seg := fmt.Sprintf("(%s+%s*(t-%s)/%s)",
			formatNum(v0), formatNum(v1-v0), formatNum(t0), formatNum(dt))
		expr = fmt.Sprintf("if(lt(t,%s),%s,%s)", formatNum(t1), seg, expr)
	}
	return expr
}

func downsample(times, values []float64, max int) ([]float64, []float64) {
	n := len(times)
	if n <= max {
		return times, values
	}
	outT := make([]float64, 0, max)
	outV := make([]float64, 0, max)
	step := float64(n-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(float64(i)*step + 0.5)
		if idx >= n {
			idx = n - 1
		}
		outT = append(outT, times[idx])
		outV = append(outV, values[idx])
	}
	return outT, outV
}

// formatNum renders a float compactly without scientific notation, which
// ffmpeg's expression parser does not accept.
func formatNum(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
