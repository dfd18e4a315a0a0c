package report

import (
	"strings"

	"github.com/sells-group/dealer-scorecard/internal/metric"
	"github.com/sells-group/dealer-scorecard/internal/model"
)

// Issues groups failures by category and renders each group as
// "{category}方面（label、label）". Categories keep first-seen order.
// Uncategorised failures and the narrative-excluded metric are ignored.
func Issues(failures []model.FailedMetric, categories []model.Category) []string {
	var order []string
	labels := map[string][]string{}

	for _, f := range failures {
		if f.Label == metric.NarrativeExcluded {
			continue
		}
		for _, c := range categories {
			if !c.Contains(f.Label) {
				continue
			}
			if _, ok := labels[c.Name]; !ok {
				order = append(order, c.Name)
			}
			labels[c.Name] = append(labels[c.Name], f.Label)
			break
		}
	}

	parts := make([]string, 0, len(order))
	for _, name := range order {
		parts = append(parts, name+"方面（"+strings.Join(labels[name], "、")+"）")
	}
	return parts
}

// Analyze writes the analysis paragraph for one dealer.
func Analyze(name string, dealerFailures []model.FailedMetric, contributors []model.ManagerData, categories []model.Category) string {
	var b strings.Builder

	if parts := Issues(dealerFailures, categories); len(parts) > 0 {
		b.WriteString(name + "：主要问题集中在" + strings.Join(parts, "；") + "。")
	} else {
		b.WriteString(name + "：各项指标达成情况良好，无明显短板，请保持。")
	}

	var flagged []string
	for _, c := range contributors {
		if parts := Issues(c.FailedMetrics, categories); len(parts) > 0 {
			flagged = append(flagged, c.Name+"（"+strings.Join(parts, "；")+"）")
		}
	}
	if len(flagged) > 0 {
		b.WriteString("\n需重点关注管家：\n" + strings.Join(flagged, "；\n") + "。")
	}
	return b.String()
}

// DominantCategory returns the category matching the most failures. A
// failure counts toward every category containing it. Ties go to the
// category counted first. Returns "" when nothing matches.
func DominantCategory(failures []model.FailedMetric, categories []model.Category) string {
	var order []string
	counts := map[string]int{}
	for _, f := range failures {
		for _, c := range categories {
			if !c.Contains(f.Label) {
				continue
			}
			if _, ok := counts[c.Name]; !ok {
				order = append(order, c.Name)
			}
			counts[c.Name]++
		}
	}

	best, top := "", 0
	for _, name := range order {
		if counts[name] > top {
			best, top = name, counts[name]
		}
	}
	return best
}

// Badge returns the short label for a category name, or "".
func Badge(category string) string {
	for _, c := range metric.AllCategories() {
		if c.Name == category {
			return c.Badge
		}
	}
	return ""
}
