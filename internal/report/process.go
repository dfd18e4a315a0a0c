// Package report turns dealer performance CSV text into per-city dealer
// records with pass/fail detail and analysis prose.
package report

import (
	"github.com/sells-group/dealer-scorecard/internal/attribution"
	"github.com/sells-group/dealer-scorecard/internal/csvline"
	"github.com/sells-group/dealer-scorecard/internal/metric"
	"github.com/sells-group/dealer-scorecard/internal/model"
)

// IsSkippedDealer reports whether a cleaned dealer-name cell is a header or
// grand-total marker rather than a dealer.
func IsSkippedDealer(name string) bool {
	return name == "" || name == "总计" || attribution.IsHeader(name)
}

// IsSummaryRow reports whether a cleaned contributor cell marks the dealer's
// aggregate row.
func IsSummaryRow(name string) bool {
	return name == "小计" || name == "合计"
}

type dealerGroup struct {
	name string
	city string
	rows [][]string
}

// Process scores csvText against the metric table for reportType and returns
// dealers owned by activeManager, grouped by their attributed city.
//
// Rows for unattributed dealers, dealers of other managers, header and total
// rows are skipped. A dealer without a subtotal row is dropped.
func Process(csvText string, reportType model.ReportType, attr model.AttributionMap, activeManager string) *model.CityReport {
	table := metric.Table(reportType)
	categories := metric.Categories(reportType)

	var groups []*dealerGroup
	index := map[string]*dealerGroup{}

	for _, line := range csvline.Lines(csvText) {
		row := csvline.Split(line)
		name := csvline.Field(row, 0)
		if IsSkippedDealer(name) {
			continue
		}
		a, ok := attribution.Resolve(attr, name)
		if !ok || !attribution.BelongsTo(a, activeManager) {
			continue
		}
		g, ok := index[name]
		if !ok {
			g = &dealerGroup{name: name, city: a.City}
			index[name] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, row)
	}

	out := model.NewCityReport()
	for _, g := range groups {
		d, ok := buildDealer(g, table, categories)
		if !ok {
			continue
		}
		out.Append(g.city, d)
	}
	return out
}

func buildDealer(g *dealerGroup, table []model.MetricConfig, categories []model.Category) (model.DealerData, bool) {
	var summary *model.ManagerData
	managers := []model.ManagerData{}
	for _, row := range g.rows {
		who := csvline.Field(row, 1)
		values, failures := metric.Evaluate(row, table)
		md := model.ManagerData{Name: who, Metrics: values, FailedMetrics: failures}

		switch {
		case IsSummaryRow(who):
			summary = &md
		case who == "":
			// unnamed contributor rows are not reported
		case len(failures) > 0:
			managers = append(managers, md)
		}
	}
	if summary == nil {
		return model.DealerData{}, false
	}

	d := model.DealerData{
		Name:           g.name,
		Summary:        *summary,
		Managers:       managers,
		IsPassing:      len(summary.FailedMetrics) == 0,
		DealerFailures: summary.FailedMetrics,
	}
	if !d.IsPassing {
		d.DominantCategory = DominantCategory(d.DealerFailures, metric.AllCategories())
	}
	d.Analysis = Analyze(d.Name, d.DealerFailures, d.Managers, categories)
	return d, true
}
