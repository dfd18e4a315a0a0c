package model

// ReportType selects which metric table and category grouping a CSV is scored against.
type ReportType string

const (
	ReportTypePerformance ReportType = "performance"
	ReportTypeObservation ReportType = "observation"
)

// Valid reports whether t is one of the known report types.
func (t ReportType) Valid() bool {
	return t == ReportTypePerformance || t == ReportTypeObservation
}

// FormatType governs how a metric value is displayed. It never affects comparison.
type FormatType string

const (
	FormatPercent FormatType = "percent"
	FormatInteger FormatType = "integer"
	FormatFloat   FormatType = "float"
)

// MetricConfig describes one targeted, column-addressed metric.
type MetricConfig struct {
	Key         string     `json:"key" yaml:"key"`
	Label       string     `json:"label" yaml:"label"`
	Target      float64    `json:"target" yaml:"target"`
	ColumnIndex int        `json:"column_index" yaml:"column_index"`
	Format      FormatType `json:"format" yaml:"format"`
	Unit        string     `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// FailedMetric is a metric whose observed value is strictly below its target.
type FailedMetric struct {
	Label  string     `json:"label" yaml:"label"`
	Value  float64    `json:"value" yaml:"value"`
	Target float64    `json:"target" yaml:"target"`
	Unit   string     `json:"unit" yaml:"unit"`
	Format FormatType `json:"format" yaml:"format"`
}

// Category groups metric labels under a named theme for prose synthesis.
type Category struct {
	Name   string   `json:"name" yaml:"name"`
	Badge  string   `json:"badge" yaml:"badge"`
	Labels []string `json:"labels" yaml:"labels"`
}

// Contains reports whether label belongs to the category.
func (c Category) Contains(label string) bool {
	for _, l := range c.Labels {
		if l == label {
			return true
		}
	}
	return false
}
