package clock

import "sync"

// ManualClock only moves when told to. Used for replays and tests.
type ManualClock struct {
	mu       sync.Mutex
	position float64
	length   float64
	running  bool
	done     chan struct{}
	once     sync.Once
}

// NewManualClock creates a clock that finishes at length seconds,
// or never when length is 0.
func NewManualClock(length float64) *ManualClock {
	return &ManualClock{length: length, done: make(chan struct{})}
}

func (c *ManualClock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *ManualClock) Start() {
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
}

func (c *ManualClock) Stop() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func (c *ManualClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *ManualClock) Seek(seconds float64) error {
	c.mu.Lock()
	c.position = seconds
	c.mu.Unlock()
	c.checkEnd()
	return nil
}

// Advance moves a running clock forward.
func (c *ManualClock) Advance(seconds float64) {
	c.mu.Lock()
	if c.running {
		c.position += seconds
	}
	c.mu.Unlock()
	c.checkEnd()
}

func (c *ManualClock) checkEnd() {
	c.mu.Lock()
	ended := c.length > 0 && c.position >= c.length
	c.mu.Unlock()
	if ended {
		c.Finish()
	}
}

// Finish signals the end of the track.
func (c *ManualClock) Finish() {
	c.once.Do(func() { close(c.done) })
}

func (c *ManualClock) Done() <-chan struct{} {
	return c.done
}
