// Package probe measures named code blocks with the hardware cycle counter.
//
// A [Session] owns a fixed [Table] of [Capacity] slots. Every instrumented
// call site passes a small integer slot id that is assigned ahead of time by
// the slotgen tool, so entering and leaving a block costs two counter reads
// and a handful of integer operations: no hashing, no locking, and no
// allocation.
//
// Blocks are opened with [Session.Block] and closed by deferring
// [Guard.End], which runs on every exit path:
//
//	func load(s *probe.Session, path string) ([]byte, error) {
//		defer s.Block("Read File", 3).End()
//
//		data, err := os.ReadFile(path)
//		if err != nil {
//			return nil, err
//		}
//
//		s.RecordBytes(uint64(len(data)))
//
//		return data, nil
//	}
//
// # Attribution
//
// Attribution is one level deep. Only a block that closes while no other
// block is open (a root close) records its own cycles, and those cycles are
// inclusive of everything nested inside it. A block that closes while exactly
// one block (the root) remains open adds its elapsed cycles to a single
// shared carry, which the root claims as its direct-children cycles when it
// closes. Blocks nested deeper than that never get an entry of their own:
// their time is already inside the elapsed cycles of the direct child that
// encloses them. Bytes recorded with [Session.RecordBytes] are likewise held
// in a carry and claimed by the next root close, wherever they were recorded.
//
// Replacing the scalar carries with a per-depth stack would give full call
// tree attribution at the cost of the O(1) bookkeeping.
//
// # Slot ids
//
// Slot ids must be unique per call site and lie in [0, [Capacity]). They are
// rewritten in place across the whole program by the slotgen tool. Ids are
// only consistent after slotgen has run over every instrumented package at
// once; running it over a subset can hand the same id to two call sites, and
// the report will then show whichever label entered last.
//
// A Session is confined to one goroutine. Concurrent use is not supported.
package probe
