// Package slotgen assigns [probe] slot ids to instrumentation call sites.
//
// A call site is any call of the form
//
//	x.Block("label", 12)
//
// whose first argument is a string literal and whose second argument is an
// integer literal. [Assign] walks the non-test Go files of each directory in
// the order given, files in name order and call sites in source order, and
// numbers the sites 0, 1, 2, and so on. The integer literals are then
// rewritten in place, so ids are plain constants in the compiled program and
// cost nothing to look up.
//
// Numbering always restarts at 0, so every run is a full rebuild of the id
// space. It must therefore be given every instrumented directory of the
// program at once:
//
//	//go:generate go run ../slotgen -w ../../haversine .
//
// Running it over a subset is not supported. The subset is numbered from 0
// and can reuse ids already held by call sites outside it, which merges their
// measurements under whichever label entered last. Use [Result.Stale] (the
// -check flag of the command) in CI to detect a stale assignment.
//
// [probe]: go.jacobcolvin.com/haversine/probe
package slotgen
