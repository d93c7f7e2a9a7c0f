package probe_test

import (
	"time"

	"go.jacobcolvin.com/haversine/probe"
)

// fakeClock is a cycle counter and wall clock that only move when told to.
type fakeClock struct {
	wall   time.Time
	cycles uint64
}

func newFakeClock() *fakeClock {
	return &fakeClock{wall: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Read() uint64 { return c.cycles }

func (c *fakeClock) Now() time.Time { return c.wall }

func (c *fakeClock) Advance(n uint64) { c.cycles += n }

func (c *fakeClock) Sleep(d time.Duration) { c.wall = c.wall.Add(d) }

func (c *fakeClock) Session() *probe.Session {
	return probe.NewSession(probe.WithClock(c.Read), probe.WithWallClock(c.Now))
}
