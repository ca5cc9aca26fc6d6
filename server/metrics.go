package server

import (
	"sync"

	"github.com/brentp/intintmap"
	"github.com/df-mc/groundcover/server/world/detail"
)

// ChunkStats holds counters of a single chunk or the sum over all chunks.
type ChunkStats struct {
	// Generated is the number of results committed.
	Generated int64
	// Failed is the number of attempts that did not commit a result.
	Failed int64
	// Cells is the number of non-empty density cells of the last result.
	Cells int64
}

// Metrics counts detail generation per chunk. A nil *Metrics discards all
// updates.
type Metrics struct {
	mu        sync.Mutex
	generated *intintmap.Map
	failed    *intintmap.Map
	cells     *intintmap.Map
}

// NewMetrics returns empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		generated: intintmap.New(256, 0.6),
		failed:    intintmap.New(64, 0.6),
		cells:     intintmap.New(256, 0.6),
	}
}

// chunkKey packs a chunk position into a single map key.
func chunkKey(pos detail.ChunkPos) int64 {
	return int64(pos.X())<<32 | int64(uint32(pos.Z()))
}

func add(m *intintmap.Map, key, delta int64) {
	v, _ := m.Get(key)
	m.Put(key, v+delta)
}

func (m *Metrics) success(pos detail.ChunkPos, cells int) {
	if m == nil {
		return
	}
	key := chunkKey(pos)
	m.mu.Lock()
	defer m.mu.Unlock()
	add(m.generated, key, 1)
	m.cells.Put(key, int64(cells))
}

func (m *Metrics) failure(pos detail.ChunkPos) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	add(m.failed, chunkKey(pos), 1)
}

// forget drops the counters of the chunk at pos.
func (m *Metrics) forget(pos detail.ChunkPos) {
	if m == nil {
		return
	}
	key := chunkKey(pos)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generated.Del(key)
	m.failed.Del(key)
	m.cells.Del(key)
}

// Chunk returns the counters of the chunk at pos.
func (m *Metrics) Chunk(pos detail.ChunkPos) ChunkStats {
	if m == nil {
		return ChunkStats{}
	}
	key := chunkKey(pos)
	m.mu.Lock()
	defer m.mu.Unlock()
	var s ChunkStats
	s.Generated, _ = m.generated.Get(key)
	s.Failed, _ = m.failed.Get(key)
	s.Cells, _ = m.cells.Get(key)
	return s
}

// Chunks returns the number of chunks that have had a result committed.
func (m *Metrics) Chunks() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generated.Size()
}

// Totals returns the sum of the counters of all chunks.
func (m *Metrics) Totals() ChunkStats {
	if m == nil {
		return ChunkStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var s ChunkStats
	for kv := range m.generated.Items() {
		s.Generated += kv[1]
	}
	for kv := range m.failed.Items() {
		s.Failed += kv[1]
	}
	for kv := range m.cells.Items() {
		s.Cells += kv[1]
	}
	return s
}
