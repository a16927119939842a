// Ordered severity names and the threshold gate applied before any log call is processed
package severity

import (
	"deduplog/internal/global"
	"strings"
)

// Descriptive names for available severity levels, lowest to highest
const (
	Trace string = "trace"
	Debug string = "debug"
	Info  string = "info"
	Warn  string = "warn"
	Error string = "error"
)

// Order of severities, index is the rank used for threshold comparisons
var Names = []string{Trace, Debug, Info, Warn, Error}

// Immutable threshold configuration
type Config struct {
	threshold int
}

// Resolves threshold name to its configuration.
// Unknown or empty names fall back to the default level.
func Parse(name string) (config Config) {
	index := Index(name)
	if index < 0 {
		index = Index(global.DefaultLevel)
	}
	config.threshold = index
	return
}

// Returns rank of the named level or -1 when unknown
func Index(name string) (index int) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range Names {
		if candidate == name {
			index = i
			return
		}
	}
	index = -1
	return
}

// Reports whether a call at the given level passes the threshold
func (config Config) ShouldProcess(level string) (process bool) {
	index := Index(level)
	if index < 0 {
		return
	}
	process = index >= config.threshold
	return
}

// Active threshold name
func (config Config) Threshold() (name string) {
	name = Names[config.threshold]
	return
}
