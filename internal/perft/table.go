package perft

import (
	"sync"
	"sync/atomic"
)

// Number of shards for table locking (power of 2 for fast modulo)
const shardCount = 256
const shardMask = shardCount - 1

// entry is a cached subtree count.
type entry struct {
	Key   uint64 // Full Zobrist hash for verification
	Nodes uint64
	Depth int8
	Age   uint8  // Generation for replacement
}

// Table caches node counts by position hash and depth. It is safe for use by
// the parallel Divide workers; locking is sharded by slot.
type Table struct {
	entries []entry
	shards  [shardCount]sync.RWMutex
	size    uint64
	mask    uint64
	age     atomic.Uint32

	// Statistics
	hits    atomic.Uint64
	lookups atomic.Uint64
}

// NewTable creates a table of roughly sizeMB megabytes.
func NewTable(sizeMB int) *Table {
	if sizeMB < 1 {
		sizeMB = 1
	}
	entrySize := uint64(24)
	numEntries := roundDownToPowerOf2((uint64(sizeMB) * 1024 * 1024) / entrySize)

	return &Table{
		entries: make([]entry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Lookup returns the count stored for hash at exactly depth.
func (t *Table) Lookup(hash uint64, depth int) (uint64, bool) {
	t.lookups.Add(1)

	idx := hash & t.mask
	shard := &t.shards[idx&shardMask]

	shard.RLock()
	e := t.entries[idx]
	shard.RUnlock()

	if e.Key == hash && int(e.Depth) == depth && depth > 0 {
		t.hits.Add(1)
		return e.Nodes, true
	}
	return 0, false
}

// Store records the count below hash. An entry from the current generation
// is only replaced by one of equal or greater depth.
func (t *Table) Store(hash uint64, depth int, nodes uint64) {
	idx := hash & t.mask
	shard := &t.shards[idx&shardMask]

	shard.Lock()
	e := &t.entries[idx]
	currentAge := uint8(t.age.Load())
	if e.Age != currentAge || depth >= int(e.Depth) {
		*e = entry{Key: hash, Nodes: nodes, Depth: int8(depth), Age: currentAge}
	}
	shard.Unlock()
}

// NewRun starts a new generation, letting old entries be replaced freely.
func (t *Table) NewRun() {
	t.age.Add(1)
}

// Clear empties the table and resets its statistics.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = entry{}
	}
	t.age.Store(0)
	t.hits.Store(0)
	t.lookups.Store(0)
}

// HitRate returns the share of successful lookups as a percentage.
func (t *Table) HitRate() float64 {
	lookups := t.lookups.Load()
	if lookups == 0 {
		return 0
	}
	return float64(t.hits.Load()) / float64(lookups) * 100
}

// Size returns the number of entries in the table.
func (t *Table) Size() uint64 {
	return t.size
}
