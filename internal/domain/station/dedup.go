package station

// DedupWindow remembers the message IDs of recently applied deltas so that
// redeliveries on the at-least-once bus are not applied twice. The window is
// bounded: once capacity is reached the oldest ID is forgotten per new ID
// remembered. A duplicate arriving after its ID has been evicted is applied
// again; the journal keeps the full history for offline auditing.
type DedupWindow struct {
	capacity int
	order    []string
	next     int
	seen     map[string]struct{}
}

// NewDedupWindow creates a window remembering up to capacity IDs.
func NewDedupWindow(capacity int) *DedupWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &DedupWindow{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		seen:     make(map[string]struct{}, capacity),
	}
}

// Seen reports whether the ID is currently within the window.
func (w *DedupWindow) Seen(id string) bool {
	_, ok := w.seen[id]
	return ok
}

// Remember records an ID, evicting the oldest one when the window is full.
// Remembering an ID already in the window is a no-op.
func (w *DedupWindow) Remember(id string) {
	if id == "" || w.Seen(id) {
		return
	}

	if len(w.order) < w.capacity {
		w.order = append(w.order, id)
	} else {
		delete(w.seen, w.order[w.next])
		w.order[w.next] = id
		w.next = (w.next + 1) % w.capacity
	}
	w.seen[id] = struct{}{}
}

// Warm seeds the window from persisted IDs ordered newest first, so that a
// restarted consumer still rejects duplicates of recently applied deltas.
func (w *DedupWindow) Warm(newestFirst []string) {
	// Insert oldest first so eviction order matches application order.
	for i := len(newestFirst) - 1; i >= 0; i-- {
		w.Remember(newestFirst[i])
	}
}

// Clear forgets every remembered ID.
func (w *DedupWindow) Clear() {
	w.order = w.order[:0]
	w.next = 0
	w.seen = make(map[string]struct{}, w.capacity)
}

// Len returns the number of remembered IDs.
func (w *DedupWindow) Len() int {
	return len(w.order)
}
