package dashboard

import "github.com/sells-group/dealer-scorecard/internal/model"

// Built-in CSV used when nothing has been uploaded for a manager and report type.
const (
	SamplePerformanceCSV = `代理商,管家,分子,分母,指标,分子,分母,指标,指标,指标,指标,分子,分母,指标,分子,分母,指标,分子,分母,指标,指标,指标
示例代理商,小计,100,100,100%,80,80,100%,90,90,4.90,10,10,100%,10,10,100%,10,10,100%,5.00,5.00`

	SampleObservationCSV = `代理商,管家,分子,分母,指标,指标,指标,分子,分母,指标,分子,分母,指标,分子,分母,指标,分子,分母,指标,分子,分母,指标,分子,分母,指标,分子,分母,指标,分子,分母,指标,指标
示例代理商,小计,50,50,100%,90,90,100,200,50%,10,10,100%,1,1,100%,4,4,100%,10,10,100%,10,10,100%,50,50,100%,10,10,100%,5.00`
)

// SampleCSV returns the built-in CSV for rt.
func SampleCSV(rt model.ReportType) string {
	if rt == model.ReportTypeObservation {
		return SampleObservationCSV
	}
	return SamplePerformanceCSV
}
