package global

import "time"

const (
	ProgVersion string = "v0.1.0"

	// Context keys
	LoggerKey CtxKey = "logger" // Process-wide logger state

	// Environment variable names read at startup
	EnvAppName       string = "APP_NAME"
	EnvLogLevel      string = "LOG_LEVEL"
	EnvDedupTTL      string = "LOG_DEDUP_TTL_MS"
	EnvDedupCapacity string = "LOG_DEDUP_CAPACITY"

	// Logger defaults
	DefaultAppName       string        = "UnknownAppName"
	DefaultLevel         string        = "info"
	DefaultDedupTTL      int64         = 1000 // milliseconds
	DefaultDedupCapacity int           = 50000
	DisabledDedupTTL     int64         = -1
	CloseTimeout         time.Duration = 5 * time.Second

	// Rough per-entry footprint of the dedup cache (digest key, list element, expiry heap slot)
	DedupEntryBytes uint64 = 256

	// Metric collection
	DefaultMetricInterval  time.Duration = 1 * time.Second
	DefaultMetricRetention time.Duration = 5 * time.Minute
	PrometheusNamespace    string        = "deduplog"

	// Record field names
	FieldApp   string = "app"
	FieldTime  string = "time"
	FieldLevel string = "level"
	FieldMsg   string = "msg"
	FieldErr   string = "err"
	FieldData  string = "data"

	// Namespacing Name Components
	NSLogger  string = "Logger"
	NSEmitter string = "Emitter"
	NSDedup   string = "Dedup"
	NSSink    string = "Sink"
	NSTest    string = "Test"
	NSCLI     string = "CLI"
)
