// Package progress holds the copy run's progress state and renders it as a
// single status line that is overwritten in place.
package progress

import "sync/atomic"

// Counter tracks how many regular files a run expects to copy and how many it
// has copied. Increments are atomic, so copied <= total keeps holding once the
// scan has finished even if copies run concurrently.
type Counter struct {
	total  atomic.Uint64
	copied atomic.Uint64
}

// NewCounter returns a zeroed Counter.
func NewCounter() *Counter {
	return &Counter{}
}

// IncrementTotal records one more file found by the scan.
func (c *Counter) IncrementTotal() {
	c.total.Add(1)
}

// IncrementCopied records one more file copied in full.
func (c *Counter) IncrementCopied() {
	c.copied.Add(1)
}

// Reset zeroes both counts.
func (c *Counter) Reset() {
	c.total.Store(0)
	c.copied.Store(0)
}

// Snapshot returns the current counts.
func (c *Counter) Snapshot() (total, copied uint64) {
	return c.total.Load(), c.copied.Load()
}
