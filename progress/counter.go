package progress

import "sync/atomic"

// Max is the upper bound of every published percentage.
const Max uint32 = 100

// Counter is the raw installer progress shared between the log tail, the
// install driver and the presentation loop. It only ever moves forward.
type Counter struct {
	v atomic.Uint32
}

// Load returns the last published percentage.
func (c *Counter) Load() uint32 {
	return c.v.Load()
}

// Raise publishes max(current, p) and returns the resulting value.
func (c *Counter) Raise(p uint32) uint32 {
	if p > Max {
		p = Max
	}
	for {
		cur := c.v.Load()
		if p <= cur {
			return cur
		}
		if c.v.CompareAndSwap(cur, p) {
			return p
		}
	}
}

// Complete pins the counter to Max.
func (c *Counter) Complete() {
	c.v.Store(Max)
}
