// Central logging system. Gates, deduplicates and buffers log calls, then
// writes one JSON record per line to the configured output.
package logctx

import (
	"context"
	"deduplog/pkg/severity"
	"time"
)

func (logger *Logger) Trace(args ...any) { logger.log(severity.Trace, args) }
func (logger *Logger) Debug(args ...any) { logger.log(severity.Debug, args) }
func (logger *Logger) Info(args ...any)  { logger.log(severity.Info, args) }
func (logger *Logger) Warn(args ...any)  { logger.log(severity.Warn, args) }
func (logger *Logger) Error(args ...any) { logger.log(severity.Error, args) }

// Logs args at the named level. Unknown level names are never emitted.
func (logger *Logger) Log(level string, args ...any) {
	logger.log(level, args)
}

// Entry for logging events through a logger carried by ctx. No-op without one.
func LogEvent(ctx context.Context, level string, args ...any) {
	logger := GetLogger(ctx)
	if logger != nil {
		logger.log(level, args)
	}
}

func Trace(ctx context.Context, args ...any) { LogEvent(ctx, severity.Trace, args...) }
func Debug(ctx context.Context, args ...any) { LogEvent(ctx, severity.Debug, args...) }
func Info(ctx context.Context, args ...any)  { LogEvent(ctx, severity.Info, args...) }
func Warn(ctx context.Context, args ...any)  { LogEvent(ctx, severity.Warn, args...) }
func Error(ctx context.Context, args ...any) { LogEvent(ctx, severity.Error, args...) }

// Changes the dedup time-to-live for entries inserted from now on.
// Milliseconds, -1 disables suppression.
func (logger *Logger) SetCacheTTL(ttl int64) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()
	logger.dedup.SetTTL(ttl)
}

// Forgets every remembered signature
func (logger *Logger) ResetCache() {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()
	logger.dedup.Reset()
}

// Current threshold name
func (logger *Logger) Level() (level string) {
	level = logger.severity.Threshold()
	return
}

// Blocks until every queued event has been written
func (logger *Logger) Sync() {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()
	for (len(logger.queue) > 0 || logger.writing) && !logger.stopped {
		logger.drained.Wait()
	}
}

// Stops accepting events, drains the queue and waits for the watcher to exit
func (logger *Logger) Close() {
	logger.closeOnce.Do(func() {
		logger.mutex.Lock()
		logger.closed = true
		logger.cond.Broadcast()
		logger.mutex.Unlock()
	})
	logger.Wait()
}

// Hold main thread exit until logger is finished its work
func (logger *Logger) Wait() {
	logger.wg.Wait()
}

// Snapshot of logger counters and cache state
func (logger *Logger) Stats() (stats Stats) {
	logger.mutex.Lock()
	stats.Queued = len(logger.queue)
	stats.CacheEntries = logger.dedup.Len()
	stats.CacheCapacity = logger.dedup.Capacity()
	stats.CacheTTL = logger.dedup.TTL()
	logger.mutex.Unlock()

	stats.ID = logger.ID
	stats.Uptime = time.Since(logger.CreatedAt)
	stats.Emitted = logger.counters.emitted.Load()
	stats.Suppressed = logger.counters.suppressed.Load()
	stats.Dropped = logger.counters.dropped.Load()
	stats.SinkErrors = logger.counters.sinkErrors.Load()
	return
}
