package track

import (
	"sort"
	"sync"

	"github.com/banshee-data/radard/internal/kalman"
)

// Map owns the set of live Tracks, keyed by radar-reported identifier.
// It exclusively owns the Tracks it holds; callers borrow pointers with
// cycle-local lifetime.
type Map struct {
	mu     sync.RWMutex
	tracks map[int32]*Track
}

// NewMap returns an empty track Map.
func NewMap() *Map {
	return &Map{tracks: make(map[int32]*Track)}
}

// Evict destroys every track whose identifier is not present in the
// current radar frame. Must run before Upsert each cycle.
func (m *Map) Evict(present map[int32]struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.tracks {
		if _, ok := present[id]; !ok {
			delete(m.tracks, id)
		}
	}
}

// Upsert creates the track for id if missing (seeded at vLead) and then
// applies Update with the cycle's raw fields.
func (m *Map) Upsert(id int32, dRel, yRel, vRel, vLead float64, measured bool, params kalman.Params) *Track {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tracks[id]
	if !ok {
		t = Create(id, vLead, params)
		m.tracks[id] = t
	}
	t.Update(dRel, yRel, vRel, vLead, measured)
	return t
}

// Len returns the number of live tracks.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tracks)
}

// Snapshot returns all live tracks, sorted by ascending identifier.
func (m *Map) Snapshot() []*Track {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Track, 0, len(m.tracks))
	for _, t := range m.tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
