package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealer-scorecard/internal/model"
)

func TestFailed_Threshold(t *testing.T) {
	assert.True(t, Failed(ptr(89.99), 90))
	assert.False(t, Failed(ptr(90), 90))
	assert.False(t, Failed(ptr(90.01), 90))
	assert.False(t, Failed(nil, 90))
}

func TestEvaluate(t *testing.T) {
	table := []model.MetricConfig{
		{Key: "a", Label: "A", Target: 90, ColumnIndex: 2, Format: model.FormatPercent, Unit: "%"},
		{Key: "b", Label: "B", Target: 4.8, ColumnIndex: 3, Format: model.FormatFloat},
		{Key: "c", Label: "C", Target: 50, ColumnIndex: 4, Format: model.FormatInteger},
		{Key: "d", Label: "D", Target: 10, ColumnIndex: 9, Format: model.FormatInteger},
	}
	row := []string{"代理商", "小计", "85%", "4.90", "-"}

	values, failures := Evaluate(row, table)

	require.Len(t, values, 4)
	assert.InDelta(t, 85, *values["a"], 1e-9)
	assert.InDelta(t, 4.9, *values["b"], 1e-9)
	assert.Nil(t, values["c"])
	assert.Nil(t, values["d"])

	require.Len(t, failures, 1)
	assert.Equal(t, model.FailedMetric{Label: "A", Value: 85, Target: 90, Unit: "%", Format: model.FormatPercent}, failures[0])
}

func TestEvaluate_PreservesTableOrder(t *testing.T) {
	table := Table(model.ReportTypePerformance)
	row := make([]string, 22)
	for i := range row {
		row[i] = "0"
	}
	_, failures := Evaluate(row, table)
	require.Len(t, failures, len(table))
	for i, f := range failures {
		assert.Equal(t, table[i].Label, f.Label)
		assert.Less(t, f.Value, f.Target)
	}
}

func TestEvaluate_EmptyRow(t *testing.T) {
	values, failures := Evaluate(nil, Table(model.ReportTypeObservation))
	assert.Len(t, values, 10)
	assert.Empty(t, failures)
	assert.NotNil(t, failures)
}
