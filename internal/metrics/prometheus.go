package metrics

import (
	"deduplog/internal/global"

	"github.com/prometheus/client_golang/prometheus"
)

// Exposes logger stats to a Prometheus registry, read on every scrape
type Collector struct {
	source     StatsSource
	emitted    *prometheus.Desc
	suppressed *prometheus.Desc
	dropped    *prometheus.Desc
	sinkErrors *prometheus.Desc
	queued     *prometheus.Desc
	entries    *prometheus.Desc
}

// Creates collector labelled with the application name and logger identifier
func NewCollector(app string, source StatsSource) (collector *Collector) {
	labels := prometheus.Labels{"app": app, "logger": source.Stats().ID}
	desc := func(subsystem, name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(global.PrometheusNamespace, subsystem, name), help, nil, labels)
	}

	collector = &Collector{
		source:     source,
		emitted:    desc("emitter", "lines_total", "Lines written to the sink."),
		suppressed: desc("dedup", "suppressed_total", "Calls suppressed as duplicates."),
		dropped:    desc("emitter", "dropped_total", "Calls lost to argument panics or a closed logger."),
		sinkErrors: desc("sink", "errors_total", "Lines the sink failed to accept."),
		queued:     desc("emitter", "queue_depth", "Events waiting to be written."),
		entries:    desc("dedup", "cache_entries", "Signatures currently remembered."),
	}
	return
}

func (collector *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.emitted
	ch <- collector.suppressed
	ch <- collector.dropped
	ch <- collector.sinkErrors
	ch <- collector.queued
	ch <- collector.entries
}

func (collector *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := collector.source.Stats()

	ch <- prometheus.MustNewConstMetric(collector.emitted, prometheus.CounterValue, float64(stats.Emitted))
	ch <- prometheus.MustNewConstMetric(collector.suppressed, prometheus.CounterValue, float64(stats.Suppressed))
	ch <- prometheus.MustNewConstMetric(collector.dropped, prometheus.CounterValue, float64(stats.Dropped))
	ch <- prometheus.MustNewConstMetric(collector.sinkErrors, prometheus.CounterValue, float64(stats.SinkErrors))
	ch <- prometheus.MustNewConstMetric(collector.queued, prometheus.GaugeValue, float64(stats.Queued))
	ch <- prometheus.MustNewConstMetric(collector.entries, prometheus.GaugeValue, float64(stats.CacheEntries))
}
