// Package cycles reads the hardware cycle counter and the wall clock, and
// estimates the effective frequency of the former from the latter.
//
// On amd64 [Read] executes RDTSC. On arm64 it reads the virtual counter
// (CNTVCT_EL0), which ticks at the fixed rate reported by CNTFRQ_EL0 rather
// than at the core clock. Every other platform substitutes the monotonic wall
// clock in nanoseconds, so the counter behaves like a 1 GHz clock; [Precise]
// reports false and [Source] names the substitution so callers can say so in
// their output.
//
// Frequency estimates are only ever used for reporting:
//
//	startCycles, startWall := cycles.Read(), cycles.Wall()
//	work()
//	freq := cycles.EstimateFrequency(cycles.Read()-startCycles, time.Since(startWall))
package cycles
