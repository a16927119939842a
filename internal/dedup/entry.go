// Duplicate suppression backed by a capacity and TTL bounded LRU cache
package dedup

import (
	"deduplog/internal/crypto/hash"
	"deduplog/internal/global"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pbnjay/memory"
)

// Creates a cache holding at most capacity signatures for ttl milliseconds each
func New(capacity int, ttl int64) (cache *Cache) {
	if capacity <= 0 {
		capacity = global.DefaultDedupCapacity
	}

	cache = &Cache{
		entries: ttlcache.New[hash.Key, struct{}](
			ttlcache.WithCapacity[hash.Key, struct{}](uint64(capacity)),
			ttlcache.WithDisableTouchOnHit[hash.Key, struct{}](),
		),
		ttl:      ttl,
		capacity: capacity,
	}
	return
}

// Clamps requested capacity so a full cache stays under 1/16 of free system memory.
// Hosts that do not report memory get the requested value.
func CapacityFor(requested int) (capacity int) {
	capacity = requested
	if capacity <= 0 {
		capacity = global.DefaultDedupCapacity
	}

	availMem := memory.FreeMemory()
	if availMem == 0 {
		return
	}

	limit := availMem / 16 / global.DedupEntryBytes
	if limit < uint64(capacity) {
		capacity = int(limit)
	}
	if capacity < 1 {
		capacity = 1
	}
	return
}

// Reports whether a call with this signature should be emitted.
// A true result records the signature for the current TTL.
func (cache *Cache) ShouldEmit(signature string) (emit bool) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	if cache.ttl < 0 {
		emit = true
		return
	}

	key := hash.Signature(signature)

	// Expired entries read as absent
	if cache.entries.Get(key) != nil {
		return
	}

	cache.entries.Set(key, struct{}{}, cache.expiry())
	emit = true
	return
}

// Changes TTL (milliseconds) for entries inserted from now on
func (cache *Cache) SetTTL(ttl int64) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.ttl = ttl
}

func (cache *Cache) TTL() (ttl int64) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	ttl = cache.ttl
	return
}

// Forgets every recorded signature
func (cache *Cache) Reset() {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.entries.DeleteAll()
}

// Number of stored entries, expired ones included until evicted
func (cache *Cache) Len() (entries int) {
	entries = cache.entries.Len()
	return
}

func (cache *Cache) Capacity() (capacity int) {
	capacity = cache.capacity
	return
}

// Must be called with mutex held
func (cache *Cache) expiry() (ttl time.Duration) {
	if cache.ttl == 0 {
		ttl = ttlcache.NoTTL
		return
	}
	ttl = time.Duration(cache.ttl) * time.Millisecond
	return
}
