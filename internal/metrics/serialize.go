package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Converts internal metric type to export (JSON) metric
func (inMetric Metric) Convert() (outMetric JMetric) {
	outMetric.Name = inMetric.Name
	outMetric.Description = inMetric.Description
	outMetric.Value.Unit = inMetric.Value.Unit

	outMetric.Namespace = strings.Join(inMetric.Namespace, "/")
	outMetric.Type = string(inMetric.Type)
	outMetric.Value.Interval = inMetric.Value.Interval.String()

	outMetric.Timestamp = inMetric.Timestamp.Format(time.RFC3339Nano)
	outMetric.Value.Raw = fmt.Sprintf("%v", inMetric.Value.Raw)
	return
}

// Converts a batch for export
func Export(metrics []Metric) (exported []JMetric) {
	exported = make([]JMetric, 0, len(metrics))
	for _, metric := range metrics {
		exported = append(exported, metric.Convert())
	}
	return
}
