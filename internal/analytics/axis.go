package analytics

import "math"

// Target label counts of the equity chart axis.
const (
	AxisLabels         = 6
	AxisLabelsEnlarged = 10
)

// AxisRange is a chart value axis with round bounds.
type AxisRange struct {
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Step     float64   `json:"step"`
	Ticks    []float64 `json:"ticks"`
	ZeroLine bool      `json:"zero_line"`
	// ZeroPosition is where 0 sits within [Min, Max], as a fraction from the bottom.
	ZeroPosition float64 `json:"zero_position"`
}

// NiceAxis derives the equity chart axis for values in [min, max]. The raw
// range over targetLabels-1 intervals is normalized to 1, 2, 5 or 10 times a
// power of ten; the bounds are min and max floored and ceiled to that step.
func NiceAxis(min, max float64, targetLabels int) AxisRange {
	if targetLabels < 2 {
		targetLabels = 2
	}
	if min > max {
		min, max = max, min
	}
	span := max - min
	if span == 0 {
		span = math.Abs(max)
		if span == 0 {
			span = 1
		}
	}

	step := niceStep(span / float64(targetLabels-1))
	lo := math.Floor(min/step) * step
	hi := math.Ceil(max/step) * step
	if hi <= lo {
		hi = lo + step
	}

	axis := AxisRange{Min: lo, Max: hi, Step: step}
	n := int(math.Round((hi - lo) / step))
	axis.Ticks = make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		axis.Ticks = append(axis.Ticks, lo+float64(i)*step)
	}
	if min < 0 {
		axis.ZeroLine = true
		axis.ZeroPosition = math.Min(1, math.Max(0, -lo/(hi-lo)))
	}
	return axis
}

func niceStep(rough float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(rough)))
	switch norm := rough / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

var barAxisThresholds = []float64{5, 10, 25, 50, 100, 250, 500, 1000}

// BarAxisMax picks the bar chart axis maximum from a fixed threshold table;
// above 1000 it rounds up to the next multiple of 500. This is deliberately
// not NiceAxis: the two charts keep their own scales.
func BarAxisMax(v float64) float64 {
	for _, th := range barAxisThresholds {
		if v <= th {
			return th
		}
	}
	return math.Ceil(v/500) * 500
}
