package logctx

import (
	"context"
	"deduplog/internal/config"
	"deduplog/internal/dedup"
	"deduplog/internal/global"
	"deduplog/pkg/record"
	"deduplog/pkg/severity"
	"io"
	"os"
	"sync"
	"time"
)

// Defaults matching an unset environment
func DefaultConfig() (cfg Config) {
	cfg = Config{
		AppName:       global.DefaultAppName,
		Level:         global.DefaultLevel,
		DedupTTL:      global.DefaultDedupTTL,
		DedupCapacity: global.DefaultDedupCapacity,
		Output:        os.Stdout,
	}
	return
}

// Configuration resolved from the process environment (APP_NAME, LOG_LEVEL, ...)
func ConfigFromEnvironment(output io.Writer) (cfg Config) {
	settings := config.FromEnvironment(os.LookupEnv, config.Defaults())
	cfg = Config{
		AppName:       settings.AppName,
		Level:         settings.Level,
		DedupTTL:      settings.DedupTTL,
		DedupCapacity: settings.DedupCapacity,
		Output:        output,
	}
	return
}

// Logger Constructor.
// Starts the watcher goroutine that writes emitted records to cfg.Output.
func NewLogger(id string, cfg Config) (logger *Logger) {
	if cfg.AppName == "" {
		cfg.AppName = global.DefaultAppName
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	logger = &Logger{
		ID:        id,
		CreatedAt: time.Now(),
		skeleton:  record.NewSkeleton(cfg.AppName),
		severity:  severity.Parse(cfg.Level),
		dedup:     dedup.New(dedup.CapacityFor(cfg.DedupCapacity), cfg.DedupTTL),
		output:    cfg.Output,
		queue:     make([]Event, 0),
		wg:        &sync.WaitGroup{},
	}
	logger.cond = sync.NewCond(&logger.mutex)
	logger.drained = sync.NewCond(&logger.mutex)

	startWatcher(logger)
	return
}

// Logger Constructor.
// Embeds logger in returned context using provided context as base.
func New(baseCtx context.Context, id string, cfg Config) (ctxLogger context.Context) {
	logger := NewLogger(id, cfg)
	ctxLogger = WithLogger(baseCtx, logger)
	return
}

// Attach the logger to context
func WithLogger(ctx context.Context, logger *Logger) (ctxLogger context.Context) {
	ctxLogger = context.WithValue(ctx, global.LoggerKey, logger)
	return
}

// Extracts Logger from context or returns nil
func GetLogger(ctx context.Context) (logger *Logger) {
	logger, ok := ctx.Value(global.LoggerKey).(*Logger)
	if ok {
		return
	}
	logger = nil
	return
}
