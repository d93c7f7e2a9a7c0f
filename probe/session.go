package probe

import (
	"errors"
	"fmt"
	"time"

	"go.jacobcolvin.com/haversine/cycles"
)

var (
	// ErrSessionEnded indicates [Session.End] was called more than once.
	ErrSessionEnded = errors.New("session already ended")
	// ErrOpenBlocks indicates [Session.End] was called while blocks were
	// still open.
	ErrOpenBlocks = errors.New("blocks still open")
)

// Session holds the slot table and the pending carries for one measured unit
// of work.
//
// Create instances with [NewSession]. A nil *Session is valid and measures
// nothing.
type Session struct {
	clock       func() uint64
	wall        func() time.Time
	substitute  string
	startWall   time.Time
	startCycles uint64
	depth       int
	childCarry  uint64
	byteCarry   uint64
	ended       bool
	table       Table
}

// Option configures a [Session].
type Option func(*Session)

// WithClock replaces the cycle counter. The default is [cycles.Read].
func WithClock(read func() uint64) Option {
	return func(s *Session) {
		s.clock = read
		s.substitute = ""
	}
}

// WithWallClock replaces the wall clock. The default is [cycles.Wall].
func WithWallClock(now func() time.Time) Option {
	return func(s *Session) {
		s.wall = now
	}
}

// NewSession starts a [Session], capturing the baseline wall clock and cycle
// counter readings.
func NewSession(opts ...Option) *Session {
	s := &Session{
		clock: cycles.Read,
		wall:  cycles.Wall,
	}
	if !cycles.Precise() {
		s.substitute = cycles.Source()
	}

	for _, opt := range opts {
		opt(s)
	}

	s.startWall = s.wall()
	s.startCycles = s.clock()

	return s
}

// Block opens a block named label in the given slot and returns the [Guard]
// that closes it. Callers defer [Guard.End] immediately.
//
// slot must be in [0, [Capacity]); anything else panics.
func (s *Session) Block(label string, slot int) Guard {
	if s == nil {
		return Guard{}
	}

	s.table[slot].Label = label
	s.depth++

	return Guard{
		s:     s,
		slot:  slot,
		start: s.clock(),
	}
}

// RecordBytes adds n bytes to the byte carry. They are attributed to the next
// block that closes as a root, so bytes recorded with no block open go to
// the next root.
func (s *Session) RecordBytes(n uint64) {
	if s == nil {
		return
	}

	s.byteCarry += n
}

// Depth returns the number of open blocks.
func (s *Session) Depth() int {
	if s == nil {
		return 0
	}

	return s.depth
}

// Slot returns a copy of the slot with the given id. A nil session returns
// the zero Slot.
func (s *Session) Slot(slot int) Slot {
	if s == nil {
		return Slot{}
	}

	return s.table[slot]
}

// End closes the session and returns its [Report]. The slot table and
// carries are discarded. A nil session returns an empty report.
func (s *Session) End() (*Report, error) {
	if s == nil {
		return &Report{}, nil
	}

	if s.ended {
		return nil, ErrSessionEnded
	}

	if s.depth != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOpenBlocks, s.depth)
	}

	totalCycles := s.clock() - s.startCycles
	totalWall := s.wall().Sub(s.startWall)

	r := &Report{
		TotalWall:   totalWall,
		TotalCycles: totalCycles,
		Frequency:   cycles.EstimateFrequency(totalCycles, totalWall),
		Substitute:  s.substitute,
		Entries:     s.table.Aggregate(),
	}

	s.ended = true
	s.table = Table{}
	s.childCarry = 0
	s.byteCarry = 0

	return r, nil
}
