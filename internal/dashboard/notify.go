package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is a notification's tone.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient toast.
type Notification struct {
	ID        string
	Message   string
	Kind      Kind
	CreatedAt time.Time
	TTL       time.Duration
}

// Expired reports whether the toast's lifetime has passed at now.
func (n Notification) Expired(now time.Time) bool {
	return n.TTL > 0 && !now.Before(n.CreatedAt.Add(n.TTL))
}

// Queue holds visible toasts. Each toast removes itself after its TTL; when
// more than Max are showing the oldest is dropped. Active also filters by
// clock, so a late timer never leaves a stale toast on screen.
type Queue struct {
	mu       sync.Mutex
	items    []Notification
	timers   map[string]*time.Timer
	ttl      time.Duration
	max      int
	now      func() time.Time
	onChange func()
	closed   bool
	metrics  *Metrics
}

// NewQueue creates a queue. ttl <= 0 defaults to 4s; max <= 0 means
// unbounded.
func NewQueue(ttl time.Duration, max int, metrics *Metrics) *Queue {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	return &Queue{
		timers:  make(map[string]*time.Timer),
		ttl:     ttl,
		max:     max,
		now:     time.Now,
		metrics: metrics,
	}
}

// SetOnChange registers a callback run (outside the lock) whenever a toast
// is added or removed. The TUI uses it to schedule a redraw.
func (q *Queue) SetOnChange(fn func()) {
	q.mu.Lock()
	q.onChange = fn
	q.mu.Unlock()
}

// Push shows a toast and returns its ID.
func (q *Queue) Push(message string, kind Kind) string {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ""
	}

	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: q.now(),
		TTL:       q.ttl,
	}
	q.items = append(q.items, n)
	q.timers[n.ID] = time.AfterFunc(n.TTL, func() { q.Dismiss(n.ID) })

	for q.max > 0 && len(q.items) > q.max {
		q.removeLocked(q.items[0].ID)
	}
	fn := q.onChange
	q.mu.Unlock()

	q.metrics.observeNotification(kind)
	if fn != nil {
		fn()
	}
	return n.ID
}

// Dismiss removes a toast early. It reports whether the toast was showing.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	ok := q.removeLocked(id)
	fn := q.onChange
	q.mu.Unlock()

	if ok && fn != nil {
		fn()
	}
	return ok
}

func (q *Queue) removeLocked(id string) bool {
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the unexpired toasts, oldest first.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	out := make([]Notification, 0, len(q.items))
	for _, n := range q.items {
		if !n.Expired(now) {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of toasts still held.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear dismisses every toast.
func (q *Queue) Clear() {
	q.mu.Lock()
	had := len(q.items) > 0
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.items = nil
	fn := q.onChange
	q.mu.Unlock()

	if had && fn != nil {
		fn()
	}
}

// Close clears the queue and rejects further pushes.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.onChange = nil
	q.mu.Unlock()
	q.Clear()
}
