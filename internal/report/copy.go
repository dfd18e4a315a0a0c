package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/dealer-scorecard/internal/metric"
	"github.com/sells-group/dealer-scorecard/internal/model"
)

// TypeLabel names the report type in copy titles.
func TypeLabel(t model.ReportType) string {
	if t == model.ReportTypeObservation {
		return "观察数据"
	}
	return "考核数据"
}

// Subtitle is the heading printed under the city name.
func Subtitle(t model.ReportType) string {
	if t == model.ReportTypeObservation {
		return "代理商打铁日报过程观察指标"
	}
	return "代理商打铁日报过程考核指标"
}

// DateRange renders "M/D", or "M/D-M/D" when the dates differ.
func DateRange(start, end time.Time) string {
	s := fmt.Sprintf("%d/%d", int(start.Month()), start.Day())
	if sameDay(start, end) {
		return s
	}
	return s + fmt.Sprintf("-%d/%d", int(end.Month()), end.Day())
}

// Title is the first line of the copy-all payload for one city.
func Title(city string, t model.ReportType, start, end time.Time) string {
	return city + "打铁日报" + TypeLabel(t) + " （数据范围：" + DateRange(start, end) + "）"
}

// CopyAll joins every dealer's analysis under the city title, separated by
// blank lines. It returns "" when there are no dealers.
func CopyAll(city string, dealers []model.DealerData, t model.ReportType, start, end time.Time) string {
	if len(dealers) == 0 {
		return ""
	}
	parts := make([]string, len(dealers))
	for i, d := range dealers {
		parts[i] = d.Analysis
	}
	return Title(city, t, start, end) + "\n\n" + strings.Join(parts, "\n\n")
}

// RenderText prints a city's dealers as a plain-text scorecard.
func RenderText(city string, dealers []model.DealerData, t model.ReportType, start, end time.Time) string {
	var b strings.Builder
	header := start.Format(time.DateOnly)
	if !sameDay(start, end) {
		header += " - " + end.Format(time.DateOnly)
	}
	fmt.Fprintf(&b, "DATA REPORT %s\n%s\n%s\n", header, city, Subtitle(t))

	for _, d := range dealers {
		status := "达标"
		if !d.IsPassing {
			status = "未达标"
		}
		fmt.Fprintf(&b, "\n%s [%s]", d.Name, status)
		if badge := Badge(d.DominantCategory); badge != "" {
			fmt.Fprintf(&b, " %s需关注", badge)
		}
		b.WriteString("\n")

		if d.AllGood() {
			b.WriteString("  所有管家均达标\n")
			continue
		}
		if !d.IsPassing {
			b.WriteString("  代理商维度 · 不达标项\n")
			for _, f := range d.DealerFailures {
				b.WriteString("    " + metric.Tag(f, true) + "\n")
			}
		}
		if len(d.Managers) > 0 {
			fmt.Fprintf(&b, "  需关注管家 (%d人)\n", len(d.Managers))
			for _, m := range d.Managers {
				tags := make([]string, len(m.FailedMetrics))
				for i, f := range m.FailedMetrics {
					tags[i] = metric.Tag(f, false)
				}
				fmt.Fprintf(&b, "    %s: %s\n", m.Name, strings.Join(tags, "  "))
			}
		}
	}
	return b.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
