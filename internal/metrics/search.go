package metrics

import (
	"sort"
	"strings"
	"time"
)

// Supports exact match or prefix match. Empty query matches all.
func matchesNamespace(metricNS, queryNS []string) (matches bool) {
	if len(queryNS) == 0 {
		matches = true
		return
	}
	if len(metricNS) < len(queryNS) {
		return
	}
	for i := 0; i < len(queryNS); i++ {
		if metricNS[i] != queryNS[i] {
			return
		}
	}
	matches = true
	return
}

// Returns all metrics matching given name and namespace prefix, oldest first.
// Empty name or namespacePrefix match everything. Zero start/end leave the window open.
func (registry *Registry) Search(name string, namespacePrefix []string, start, end time.Time) (results []Metric) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	var timestamps []time.Time
	for ts := range registry.metrics {
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if !end.IsZero() && ts.After(end) {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].Before(timestamps[j])
	})

	for _, ts := range timestamps {
		var slice []Metric
		for nsStr, metricsMap := range registry.metrics[ts] {
			if !matchesNamespace(strings.Split(nsStr, "/"), namespacePrefix) {
				continue
			}
			for metricName, metric := range metricsMap {
				if name == "" || metricName == name {
					slice = append(slice, metric)
				}
			}
		}

		// Stable order inside a slice
		sort.Slice(slice, func(i, j int) bool {
			left, right := strings.Join(slice[i].Namespace, "/"), strings.Join(slice[j].Namespace, "/")
			if left != right {
				return left < right
			}
			return slice[i].Name < slice[j].Name
		})
		results = append(results, slice...)
	}
	return
}

// Metrics of the newest time slice only
func (registry *Registry) Latest() (results []Metric) {
	registry.mu.RLock()
	var newest time.Time
	for ts := range registry.metrics {
		if ts.After(newest) {
			newest = ts
		}
	}
	registry.mu.RUnlock()

	if newest.IsZero() {
		return
	}
	results = registry.Search("", nil, newest, newest)
	return
}
