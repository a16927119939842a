package metrics

import (
	"deduplog/pkg/logctx"
	"sync"
	"time"
)

type Registry struct {
	mu      sync.RWMutex
	metrics map[time.Time]map[string]map[string]Metric // key0=timestamp, key1=namespace, key2=name
}

type MetricType string

const (
	Counter MetricType = "counter" // always increasing
	Gauge   MetricType = "gauge"   // can go up/down
)

// Container for a metric and associated data
type Metric struct {
	Name        string // e.g. emitted, queue_depth
	Description string
	Namespace   []string // e.g. "Logger/Dedup"
	Value       MetricValue
	Type        MetricType
	Timestamp   time.Time // time when the metric was recorded
}

// Specific value of a metric
type MetricValue struct {
	Raw      interface{} // uint64, int
	Unit     string      // e.g. "lines", "count", "ms"
	Interval time.Duration
}

// JSON version
type JMetric struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Namespace   string       `json:"namespace"`
	Value       JMetricValue `json:"value"`
	Type        string       `json:"type"`
	Timestamp   string       `json:"timestamp"`
}

// Specific value of a metric
type JMetricValue struct {
	Raw      string `json:"raw"`
	Unit     string `json:"unit"`
	Interval string `json:"interval"`
}

// Anything reporting logger activity, normally *logctx.Logger
type StatsSource interface {
	Stats() logctx.Stats
}

// Periodically snapshots a stats source into a registry
type Gatherer struct {
	Registry  *Registry
	Source    StatsSource
	Interval  time.Duration
	Retention time.Duration
}
