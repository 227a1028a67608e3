package insights

import "sync/atomic"

// Holder publishes the current snapshot to concurrent readers. Rebuilds
// store a complete new snapshot; readers always observe either the old or
// the new one, never a partially updated mix.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder publishing the given snapshot.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// Current returns the published snapshot, nil if none was stored yet.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Publish atomically replaces the published snapshot.
func (h *Holder) Publish(s *Snapshot) {
	h.current.Store(s)
}
