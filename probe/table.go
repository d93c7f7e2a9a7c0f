package probe

// Capacity is the number of slots in a [Table].
const Capacity = 1024

// Slot accumulates measurements for one call site.
type Slot struct {
	// Label is the name passed to the most recent [Session.Block] call on
	// this slot.
	Label string
	// Exclusive is the sum of cycles spent in root closes of this slot,
	// inclusive of nested blocks.
	Exclusive uint64
	// Children is the sum of cycles spent in direct children of this slot's
	// root closes.
	Children uint64
	// Bytes is the sum of bytes claimed by this slot's root closes.
	Bytes uint64
}

// Table is the fixed set of slots addressed by slot id.
type Table [Capacity]Slot

// Entry is the sum of every [Slot] sharing one label.
type Entry struct {
	Label     string `yaml:"label"`
	Exclusive uint64 `yaml:"exclusive_cycles"`
	Children  uint64 `yaml:"child_cycles"`
	Bytes     uint64 `yaml:"bytes"`
}

// Aggregate sums every touched slot by label. Entries are ordered by the
// lowest slot id carrying each label.
func (t *Table) Aggregate() []Entry {
	var entries []Entry

	index := make(map[string]int)

	for i := range t {
		slot := &t[i]
		if slot.Label == "" {
			continue
		}

		j, ok := index[slot.Label]
		if !ok {
			j = len(entries)
			index[slot.Label] = j

			entries = append(entries, Entry{Label: slot.Label})
		}

		entries[j].Exclusive += slot.Exclusive
		entries[j].Children += slot.Children
		entries[j].Bytes += slot.Bytes
	}

	return entries
}
