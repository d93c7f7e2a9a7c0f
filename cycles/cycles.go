package cycles

import (
	"math"
	"math/bits"
	"time"
)

// TicksPerSecond is the denominator of [time.Duration].
const TicksPerSecond = uint64(time.Second)

// Read returns the current value of the free-running cycle counter.
func Read() uint64 {
	return readCounter()
}

// Wall returns the monotonic wall clock reading paired with [Read].
func Wall() time.Time {
	return time.Now()
}

// Source names the counter backing [Read].
func Source() string {
	return counterName
}

// Precise reports whether [Read] is backed by a hardware counter.
func Precise() bool {
	return counterPrecise
}

// EstimateFrequency returns cycleDelta * [TicksPerSecond] / wallDelta, the
// number of counter ticks per second observed over wallDelta.
//
// The product is computed in 128 bits so long sessions do not overflow.
// A non-positive wallDelta yields 0.
func EstimateFrequency(cycleDelta uint64, wallDelta time.Duration) uint64 {
	if wallDelta <= 0 {
		return 0
	}

	ns := uint64(wallDelta)

	hi, lo := bits.Mul64(cycleDelta, TicksPerSecond)
	if hi >= ns {
		return math.MaxUint64
	}

	q, _ := bits.Div64(hi, lo, ns)

	return q
}
