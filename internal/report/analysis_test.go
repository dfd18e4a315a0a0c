package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/dealer-scorecard/internal/metric"
	"github.com/sells-group/dealer-scorecard/internal/model"
)

func fails(labels ...string) []model.FailedMetric {
	out := make([]model.FailedMetric, len(labels))
	for i, l := range labels {
		out[i] = model.FailedMetric{Label: l, Value: 1, Target: 2}
	}
	return out
}

func TestIssues(t *testing.T) {
	cats := metric.Categories(model.ReportTypePerformance)

	tests := []struct {
		name     string
		failures []model.FailedMetric
		want     []string
	}{
		{"none", nil, []string{}},
		{"single", fails("DCC首呼"), []string{"线索邀约方面（DCC首呼）"}},
		{
			"first seen category order",
			fails("交易协助满意度", "DCC首呼", "车辆交付满意度", "加微开口率"),
			[]string{"客户满意度方面（交易协助满意度、车辆交付满意度）", "线索邀约方面（DCC首呼、加微开口率）"},
		},
		{"excluded metric", fails("试乘试驾满意度"), []string{}},
		{"uncategorised", fails("未知指标"), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Issues(tt.failures, cats))
		})
	}
}

func TestIssues_FirstMatchingCategory(t *testing.T) {
	cats := []model.Category{
		{Name: "甲", Labels: []string{"x"}},
		{Name: "乙", Labels: []string{"x", "y"}},
	}
	assert.Equal(t, []string{"甲方面（x）", "乙方面（y）"}, Issues(fails("x", "y"), cats))
}

func TestAnalyze(t *testing.T) {
	cats := metric.Categories(model.ReportTypePerformance)

	t.Run("all good", func(t *testing.T) {
		assert.Equal(t, "店A：各项指标达成情况良好，无明显短板，请保持。", Analyze("店A", nil, nil, cats))
	})

	t.Run("only excluded failure reads as good", func(t *testing.T) {
		got := Analyze("店A", fails("试乘试驾满意度"), nil, cats)
		assert.Equal(t, "店A：各项指标达成情况良好，无明显短板，请保持。", got)
	})

	t.Run("dealer and contributors", func(t *testing.T) {
		contributors := []model.ManagerData{
			{Name: "甲", FailedMetrics: fails("DCC首呼", "试驾排程率")},
			{Name: "乙", FailedMetrics: fails("试乘试驾满意度")},
			{Name: "丙", FailedMetrics: fails("车辆交付满意度")},
		}
		got := Analyze("店A", fails("DCC二呼", "次日回访率"), contributors, cats)
		want := "店A：主要问题集中在线索邀约方面（DCC二呼）；试乘试驾方面（次日回访率）。" +
			"\n需重点关注管家：\n" +
			"甲（线索邀约方面（DCC首呼）；试乘试驾方面（试驾排程率））；\n" +
			"丙（客户满意度方面（车辆交付满意度））。"
		assert.Equal(t, want, got)
	})
}

func TestDominantCategory(t *testing.T) {
	all := metric.AllCategories()
	assert.Equal(t, "", DominantCategory(nil, all))
	assert.Equal(t, "", DominantCategory(fails("试乘试驾满意度"), all))
	assert.Equal(t, "试乘试驾", DominantCategory(fails("DCC首呼", "试驾排程率", "次日回访率"), all))
	assert.Equal(t, "客户满意度", DominantCategory(fails("交易协助满意度", "DCC首呼"), all))
	assert.Equal(t, "接待和跟进相关", DominantCategory(fails("工牌佩戴率", "排程履约率", "DCC三呼"), all))
}

func TestBadge(t *testing.T) {
	assert.Equal(t, "线索", Badge("线索邀约"))
	assert.Equal(t, "接待", Badge("接待和跟进相关"))
	assert.Equal(t, "", Badge(""))
}
