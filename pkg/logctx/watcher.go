package logctx

import (
	"deduplog/pkg/safejson"
	"time"
)

// Starts a go routine that builds queued events and writes them to the logger output.
// Stops once the logger is closed and the queue is empty.
func startWatcher(logger *Logger) {
	logger.wg.Add(1)

	go func() {
		defer logger.wg.Done()

		for {
			logger.mutex.Lock()

			// Wait for events
			for len(logger.queue) == 0 {
				if logger.closed {
					logger.stopped = true
					logger.drained.Broadcast()
					logger.mutex.Unlock()
					return
				}
				logger.cond.Wait()
			}

			// Pop one event from the front of the queue
			event := logger.queue[0]
			logger.queue[0] = Event{}
			logger.queue = logger.queue[1:]
			logger.writing = true
			logger.mutex.Unlock()

			logger.emit(event)

			logger.mutex.Lock()
			logger.writing = false
			if len(logger.queue) == 0 {
				logger.drained.Broadcast()
			}
			logger.mutex.Unlock()
		}
	}()
}

// Builds, serializes and writes a single record
func (logger *Logger) emit(event Event) {
	defer func() {
		if recover() != nil {
			logger.counters.dropped.Add(1)
		}
	}()

	rec := logger.skeleton.Build(event.Severity, event.Values, time.Now())

	line, err := safejson.Marshal(rec)
	if err != nil {
		logger.counters.dropped.Add(1)
		return
	}
	line = append(line, '\n')

	_, err = logger.output.Write(line)
	if err != nil {
		logger.counters.sinkErrors.Add(1)
		return
	}
	logger.counters.emitted.Add(1)
}
