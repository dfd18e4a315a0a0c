package metric

import "github.com/sells-group/dealer-scorecard/internal/model"

// Column indices match the layout of the source spreadsheets and must not move.
var performanceMetrics = []model.MetricConfig{
	{Key: "dccFirst", Label: "DCC首呼", Target: 95, ColumnIndex: 4, Format: model.FormatPercent, Unit: "%"},
	{Key: "dccSecond", Label: "DCC二呼", Target: 90, ColumnIndex: 7, Format: model.FormatPercent, Unit: "%"},
	{Key: "inviteOpen", Label: "邀约开口率", Target: 80, ColumnIndex: 8, Format: model.FormatInteger, Unit: "%"},
	{Key: "wechatOpen", Label: "加微开口率", Target: 80, ColumnIndex: 9, Format: model.FormatInteger, Unit: "%"},
	{Key: "testDriveSat", Label: "试乘试驾满意度", Target: 4.80, ColumnIndex: 10, Format: model.FormatFloat},
	{Key: "scheduleRate", Label: "试驾排程率", Target: 90, ColumnIndex: 13, Format: model.FormatPercent, Unit: "%"},
	{Key: "returnVisit", Label: "次日回访率", Target: 90, ColumnIndex: 16, Format: model.FormatPercent, Unit: "%"},
	{Key: "satSurvey", Label: "满意度4.5分占比", Target: 90, ColumnIndex: 19, Format: model.FormatPercent, Unit: "%"},
	{Key: "transSat", Label: "交易协助满意度", Target: 4.80, ColumnIndex: 20, Format: model.FormatFloat},
	{Key: "deliverySat", Label: "车辆交付满意度", Target: 4.80, ColumnIndex: 21, Format: model.FormatFloat},
}

var observationMetrics = []model.MetricConfig{
	{Key: "dccThird", Label: "DCC三呼", Target: 50, ColumnIndex: 4, Format: model.FormatPercent, Unit: "%"},
	{Key: "modelQA", Label: "车型信息质检", Target: 85, ColumnIndex: 5, Format: model.FormatInteger},
	{Key: "policyQA", Label: "政策相关质检", Target: 85, ColumnIndex: 6, Format: model.FormatInteger},
	{Key: "prospectWechat", Label: "潜客加微率", Target: 20, ColumnIndex: 9, Format: model.FormatPercent, Unit: "%"},
	{Key: "badgeRate", Label: "工牌佩戴率", Target: 90, ColumnIndex: 12, Format: model.FormatPercent, Unit: "%"},
	{Key: "privateLeadFollow", Label: "私域留资试驾及时跟进率", Target: 95, ColumnIndex: 15, Format: model.FormatPercent, Unit: "%"},
	{Key: "testDriveRemind", Label: "试驾预约提醒率", Target: 95, ColumnIndex: 18, Format: model.FormatPercent, Unit: "%"},
	{Key: "scheduleFulfill", Label: "排程履约率", Target: 40, ColumnIndex: 24, Format: model.FormatPercent, Unit: "%"},
	{Key: "speechExec", Label: "试驾话术必说执行率（卖点）", Target: 100, ColumnIndex: 27, Format: model.FormatPercent, Unit: "%"},
	{Key: "effectiveTestDrive", Label: "有效试驾率_试驾单维度", Target: 95, ColumnIndex: 30, Format: model.FormatPercent, Unit: "%"},
}

var performanceCategories = []model.Category{
	{Name: "线索邀约", Badge: "线索", Labels: []string{"DCC首呼", "DCC二呼", "邀约开口率", "加微开口率"}},
	{Name: "试乘试驾", Badge: "试驾", Labels: []string{"试驾排程率", "次日回访率", "满意度4.5分占比"}},
	{Name: "客户满意度", Badge: "满意度", Labels: []string{"交易协助满意度", "车辆交付满意度"}},
}

var observationCategories = []model.Category{
	{Name: "邀约相关", Badge: "邀约", Labels: []string{"DCC三呼", "车型信息质检", "政策相关质检", "潜客加微率", "私域留资试驾及时跟进率", "试驾预约提醒率"}},
	{Name: "接待和跟进相关", Badge: "接待", Labels: []string{"工牌佩戴率", "排程履约率", "试驾话术必说执行率（卖点）", "有效试驾率_试驾单维度"}},
}

// NarrativeExcluded is tracked numerically but never named in analysis prose.
const NarrativeExcluded = "试乘试驾满意度"

// Table returns the metric configuration for t in declaration order.
// The returned slice is a copy.
func Table(t model.ReportType) []model.MetricConfig {
	src := performanceMetrics
	if t == model.ReportTypeObservation {
		src = observationMetrics
	}
	out := make([]model.MetricConfig, len(src))
	copy(out, src)
	return out
}

// Categories returns the category grouping for t in declaration order.
func Categories(t model.ReportType) []model.Category {
	src := performanceCategories
	if t == model.ReportTypeObservation {
		src = observationCategories
	}
	return cloneCategories(src)
}

// AllCategories returns performance categories followed by observation categories.
func AllCategories() []model.Category {
	return append(cloneCategories(performanceCategories), cloneCategories(observationCategories)...)
}

func cloneCategories(src []model.Category) []model.Category {
	out := make([]model.Category, len(src))
	for i, c := range src {
		out[i] = model.Category{Name: c.Name, Badge: c.Badge, Labels: append([]string(nil), c.Labels...)}
	}
	return out
}
