package shop

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// staticTokens is a TokenSource with a fixed credential.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

// fakeClock captures status-clear callbacks so tests can fire them
// deterministically instead of sleeping through the TTL.
type fakeClock struct {
	mu  sync.Mutex
	fns []func()
}

func (c *fakeClock) After(_ time.Duration, fn func()) *time.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
	return time.NewTimer(time.Hour)
}

// Fire runs every armed callback once.
func (c *fakeClock) Fire() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
