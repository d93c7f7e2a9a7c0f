package probe

// Guard is an open block returned by [Session.Block].
//
// The zero Guard is valid and [Guard.End] on it does nothing.
type Guard struct {
	s     *Session
	slot  int
	start uint64
}

// End closes the block. It must run exactly once per [Session.Block], in
// LIFO order, which deferring it guarantees.
func (g Guard) End() {
	s := g.s
	if s == nil {
		return
	}

	end := s.clock()

	if s.depth == 0 {
		panic("probe: block ended with no block open")
	}

	s.depth--

	elapsed := end - g.start

	switch s.depth {
	case 0:
		// Root close: claim everything pending.
		slot := &s.table[g.slot]
		slot.Exclusive += elapsed
		slot.Children += s.childCarry
		slot.Bytes += s.byteCarry

		s.childCarry = 0
		s.byteCarry = 0

	case 1:
		s.childCarry += elapsed
	}
}
