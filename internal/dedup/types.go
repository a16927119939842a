package dedup

import (
	"deduplog/internal/crypto/hash"
	"sync"

	"github.com/jellydator/ttlcache/v3"
)

// Bounded record of recently emitted signatures
type Cache struct {
	mutex    sync.Mutex // makes check-then-insert atomic
	entries  *ttlcache.Cache[hash.Key, struct{}]
	ttl      int64 // milliseconds, negative disables suppression, 0 never expires
	capacity int
}
