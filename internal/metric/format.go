package metric

import (
	"math"
	"strconv"

	"github.com/sells-group/dealer-scorecard/internal/model"
)

// FormatValue renders an observed value for display.
func FormatValue(v float64, f model.FormatType) string {
	switch f {
	case model.FormatFloat:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case model.FormatInteger:
		return strconv.FormatFloat(roundHalfUp(v), 'f', -1, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// roundHalfUp rounds ties toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// FormatTarget renders a target for display.
func FormatTarget(v float64, f model.FormatType) string {
	if f == model.FormatFloat {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tag renders a failure as "label: value unit/target unit". Contributor tags
// omit the target.
func Tag(fm model.FailedMetric, withTarget bool) string {
	s := fm.Label + ": " + FormatValue(fm.Value, fm.Format) + fm.Unit
	if withTarget {
		s += "/" + FormatTarget(fm.Target, fm.Format) + fm.Unit
	}
	return s
}
