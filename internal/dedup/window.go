// Package dedup suppresses reprocessing of webhook retries and bot echoes.
package dedup

// DefaultCapacity is the number of message ids remembered per customer
const DefaultCapacity = 500

// Direction tells whether an id was received from or sent to the customer
type Direction string

// Direction constants
const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// Window is a bounded FIFO set of recently seen message ids.
// The oldest id is evicted on overflow regardless of how often it was looked up.
// A Window is not safe for concurrent use; callers guard it with the session lock.
type Window struct {
	ring  []string
	head  int
	size  int
	index map[string]struct{}
}

// New creates a window holding at most capacity ids
func New(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		ring:  make([]string, capacity),
		index: make(map[string]struct{}, capacity),
	}
}

// ShouldProcess reports whether the message is new and records it.
// Messages without an id cannot be deduplicated and are always processed.
func (w *Window) ShouldProcess(messageID string, _ Direction) bool {
	if messageID == "" {
		return true
	}
	if _, seen := w.index[messageID]; seen {
		return false
	}
	w.add(messageID)
	return true
}

// Contains reports whether the id is currently remembered
func (w *Window) Contains(messageID string) bool {
	_, ok := w.index[messageID]
	return ok
}

// Len returns the number of remembered ids
func (w *Window) Len() int {
	return w.size
}

// Capacity returns the maximum number of remembered ids
func (w *Window) Capacity() int {
	return len(w.ring)
}

func (w *Window) add(id string) {
	if w.size == len(w.ring) {
		oldest := w.ring[w.head]
		delete(w.index, oldest)
		w.ring[w.head] = id
		w.head = (w.head + 1) % len(w.ring)
	} else {
		w.ring[(w.head+w.size)%len(w.ring)] = id
		w.size++
	}
	w.index[id] = struct{}{}
}
