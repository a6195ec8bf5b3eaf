package pingdata

import "sync"

const DefaultCapacity = 60

// History is a fixed capacity FIFO of finished probes.
// Appending to a full history evicts the oldest entry.
type History struct {
	lock  sync.RWMutex
	items []Probe
	start int
	count int
}

// NewHistory creates a history holding up to capacity probes (at least 1)
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		items: make([]Probe, capacity),
	}
}

func (h *History) Append(p Probe) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.count < len(h.items) {
		h.items[(h.start+h.count)%len(h.items)] = p
		h.count++
		return
	}

	h.items[h.start] = p
	h.start = (h.start + 1) % len(h.items)
}

// Snapshot returns a copy of entries oldest first
func (h *History) Snapshot() []Probe {
	h.lock.RLock()
	defer h.lock.RUnlock()

	res := make([]Probe, h.count)
	for i := 0; i < h.count; i++ {
		res[i] = h.items[(h.start+i)%len(h.items)]
	}
	return res
}

// Stats calculates statistics of current entries
func (h *History) Stats() Stats {
	return Compute(h.Snapshot())
}
