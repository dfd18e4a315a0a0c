package metric

import "github.com/sells-group/dealer-scorecard/internal/model"

// Failed reports whether v is below target. Missing data never fails.
func Failed(v *float64, target float64) bool {
	return v != nil && *v < target
}

// Evaluate scores one row. values holds every configured metric keyed by
// MetricConfig.Key (nil for no data); failures lists failing metrics in
// table order.
func Evaluate(row []string, table []model.MetricConfig) (values map[string]*float64, failures []model.FailedMetric) {
	values = make(map[string]*float64, len(table))
	failures = []model.FailedMetric{}
	for _, cfg := range table {
		v := ParseValue(Cell(row, cfg.ColumnIndex))
		values[cfg.Key] = v
		if Failed(v, cfg.Target) {
			failures = append(failures, model.FailedMetric{
				Label:  cfg.Label,
				Value:  *v,
				Target: cfg.Target,
				Unit:   cfg.Unit,
				Format: cfg.Format,
			})
		}
	}
	return values, failures
}
