package logctx

import (
	"deduplog/internal/dedup"
	"deduplog/pkg/record"
	"deduplog/pkg/severity"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Log Event Structure, arguments already detached from caller memory
type Event struct {
	Severity string
	Values   []record.Value
}

// Logger construction options. Start from DefaultConfig.
type Config struct {
	AppName       string
	Level         string    // threshold, unknown names fall back to info
	DedupTTL      int64     // milliseconds, -1 disables suppression, 0 never expires
	DedupCapacity int       // maximum remembered signatures
	Output        io.Writer // line sink, stdout when nil
}

// Logger Struct, the process-wide logging state
type Logger struct {
	ID        string
	CreatedAt time.Time
	skeleton  record.Skeleton
	severity  severity.Config
	dedup     *dedup.Cache
	output    io.Writer
	queue     []Event         // event buffer
	mutex     sync.Mutex      // protects buffer and closed/writing/stopped
	cond      *sync.Cond      // condition to signal new events
	drained   *sync.Cond      // condition to signal an empty buffer
	writing   bool            // watcher is emitting a popped event
	closed    bool            // no more events accepted
	stopped   bool            // watcher exited
	closeOnce sync.Once       // guards closed transition
	wg        *sync.WaitGroup // Holds Close until the watcher is done handling events
	counters  counters
}

type counters struct {
	emitted    atomic.Uint64
	suppressed atomic.Uint64
	dropped    atomic.Uint64
	sinkErrors atomic.Uint64
}

// Point in time view of logger activity
type Stats struct {
	ID            string        // logger identifier given at construction
	Uptime        time.Duration // time since construction
	Emitted       uint64        // lines written to the sink
	Suppressed    uint64        // calls dropped as duplicates
	Dropped       uint64        // calls lost to a panic in argument handling or after Close
	SinkErrors    uint64        // lines the sink failed to accept
	Queued        int           // events waiting for the watcher
	CacheEntries  int           // signatures currently remembered
	CacheCapacity int
	CacheTTL      int64
}
