// Package msgq implements the bounded queue that carries native
// notifications from the native context to the logic context.
package msgq

import (
	"sync"

	"cellwin/internal/platform"
)

// ring is a fixed capacity FIFO that drops its oldest entry when full.
type ring struct {
	buf   []platform.Notification
	head  int
	count int
}

func newRing(capacity int) ring {
	if capacity < 1 {
		capacity = 1
	}
	return ring{buf: make([]platform.Notification, capacity)}
}

func (r *ring) at(i int) *platform.Notification {
	return &r.buf[(r.head+i)%len(r.buf)]
}

// push appends n and reports whether an old entry was discarded.
func (r *ring) push(n platform.Notification) bool {
	dropped := false
	if r.count == len(r.buf) {
		r.head = (r.head + 1) % len(r.buf)
		r.count--
		dropped = true
	}
	*r.at(r.count) = n
	r.count++
	return dropped
}

func (r *ring) pop() (platform.Notification, bool) {
	if r.count == 0 {
		return platform.Notification{}, false
	}
	n := *r.at(0)
	*r.at(0) = platform.Notification{}
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return n, true
}

// find returns the pending entry of the given kind for window, or nil.
func (r *ring) find(window int, kind platform.Kind) *platform.Notification {
	for i := 0; i < r.count; i++ {
		if n := r.at(i); n.Window == window && n.Kind == kind {
			return n
		}
	}
	return nil
}

// Queue is safe for concurrent use by any number of producers and
// consumers. Producers never block.
type Queue struct {
	mu      sync.Mutex
	cond    sync.Cond
	main    ring
	control ring
	closed  bool
	dropped int
}

func New(capacity, controlCapacity int) *Queue {
	q := &Queue{main: newRing(capacity), control: newRing(controlCapacity)}
	q.cond.L = &q.mu
	return q
}

// Enqueue adds n to the main lane. Repaints coalesce with a pending repaint
// of the same window into the bounding rectangle, and resizes replace a
// pending resize of the same window.
func (q *Queue) Enqueue(n platform.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	switch n.Kind {
	case platform.KindRepaint:
		if p := q.main.find(n.Window, platform.KindRepaint); p != nil {
			r := platform.UnpackRect(p.A, p.B).Union(platform.UnpackRect(n.A, n.B))
			p.A, p.B = platform.PackRect(r)
			return
		}
	case platform.KindResize:
		if p := q.main.find(n.Window, platform.KindResize); p != nil {
			*p = n
			return
		}
	}
	if q.main.push(n) {
		q.dropped++
	}
	q.cond.Signal()
}

// EnqueueControl adds n to the control lane, which Dequeue drains first.
func (q *Queue) EnqueueControl(n platform.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	if q.control.push(n) {
		q.dropped++
	}
	q.cond.Signal()
}

// Dequeue blocks until a notification is available and removes the oldest,
// control lane first. It reports false once the queue is closed and empty.
func (q *Queue) Dequeue() (platform.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if n, ok := q.control.pop(); ok {
			return n, true
		}
		if n, ok := q.main.pop(); ok {
			return n, true
		}
		if q.closed {
			return platform.Notification{}, false
		}
		q.cond.Wait()
	}
}

func (q *Queue) TryDequeue() (platform.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n, ok := q.control.pop(); ok {
		return n, true
	}
	return q.main.pop()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.main.count + q.control.count
}

// Dropped returns how many notifications were discarded to make room.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Close wakes every blocked consumer. Entries already queued can still be
// dequeued.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
