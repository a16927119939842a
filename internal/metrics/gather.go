package metrics

import (
	"context"
	"deduplog/internal/global"
	"deduplog/pkg/logctx"
	"time"
)

// Creates a gatherer with its own registry
func NewGatherer(source StatsSource, interval time.Duration, retention time.Duration) (new *Gatherer) {
	if interval <= 0 {
		interval = global.DefaultMetricInterval
	}
	if retention <= 0 {
		retention = global.DefaultMetricRetention
	}
	new = &Gatherer{
		Registry:  New(),
		Source:    source,
		Interval:  interval,
		Retention: retention,
	}
	return
}

// Records source stats every interval until ctx is cancelled
func (gatherer *Gatherer) Run(ctx context.Context) {
	ticker := time.NewTicker(gatherer.Interval)
	defer ticker.Stop()

	// Counter to track how many ticks have passed (for retention)
	var tickCount int

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			gatherer.Collect(now)

			tickCount++
			if tickCount >= 30 {
				gatherer.Registry.Prune(now, gatherer.Retention)
				tickCount = 0
			}
		}
	}
}

// Snapshots the source into the time slice for now
func (gatherer *Gatherer) Collect(now time.Time) (timeSlice time.Time) {
	timeSlice = gatherer.Registry.NewTimeSlice(now, gatherer.Interval)
	gatherer.Registry.Add(timeSlice, FromStats(gatherer.Source.Stats(), timeSlice, gatherer.Interval))
	return
}

// Converts logger stats into registry metrics
func FromStats(stats logctx.Stats, timestamp time.Time, interval time.Duration) (collection []Metric) {
	emitterNS := []string{global.NSLogger, global.NSEmitter}
	dedupNS := []string{global.NSLogger, global.NSDedup}
	sinkNS := []string{global.NSLogger, global.NSSink}

	add := func(name, description string, namespace []string, metricType MetricType, unit string, raw interface{}) {
		collection = append(collection, Metric{
			Name:        name,
			Description: description,
			Namespace:   namespace,
			Type:        metricType,
			Timestamp:   timestamp,
			Value: MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
		})
	}

	add("uptime", "Time since the logger was created", emitterNS, Gauge, "ms", stats.Uptime.Milliseconds())
	add("emitted", "Lines written to the sink", emitterNS, Counter, "lines", stats.Emitted)
	add("dropped", "Calls lost to argument panics or a closed logger", emitterNS, Counter, "calls", stats.Dropped)
	add("queue_depth", "Events waiting to be written", emitterNS, Gauge, "events", stats.Queued)
	add("suppressed", "Calls suppressed as duplicates", dedupNS, Counter, "calls", stats.Suppressed)
	add("cache_entries", "Signatures currently remembered", dedupNS, Gauge, "count", stats.CacheEntries)
	add("cache_capacity", "Maximum remembered signatures", dedupNS, Gauge, "count", stats.CacheCapacity)
	add("cache_ttl", "Time-to-live of new signatures", dedupNS, Gauge, "ms", stats.CacheTTL)
	add("sink_errors", "Lines the sink failed to accept", sinkNS, Counter, "lines", stats.SinkErrors)
	return
}
