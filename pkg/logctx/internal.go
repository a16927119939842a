package logctx

import (
	"deduplog/pkg/record"
	"deduplog/pkg/severity"
)

// Logs event
func (logger *Logger) log(level string, args []any) {
	if logger == nil {
		return
	}
	if !logger.severity.ShouldProcess(level) {
		return
	}

	// Records and signatures always carry the canonical spelling
	level = severity.Names[severity.Index(level)]

	values, signature, ok := logger.prepare(level, args)
	if !ok {
		return
	}

	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	if logger.closed {
		logger.counters.dropped.Add(1)
		return
	}

	// Cache faults are not recovered
	if !logger.dedup.ShouldEmit(signature) {
		logger.counters.suppressed.Add(1)
		return
	}

	logger.queue = append(logger.queue, Event{Severity: level, Values: values})
	logger.cond.Signal()
}

// Detaches args from caller memory and derives their dedup key.
// A panic in user-supplied methods (Error, MarshalJSON, String) drops the call.
func (logger *Logger) prepare(level string, args []any) (values []record.Value, signature string, ok bool) {
	defer func() {
		if recover() != nil {
			logger.counters.dropped.Add(1)
			ok = false
		}
	}()

	values = make([]record.Value, len(args))
	for i, arg := range args {
		values[i] = record.Classify(arg)
	}
	signature = record.Signature(level, values)
	ok = true
	return
}
