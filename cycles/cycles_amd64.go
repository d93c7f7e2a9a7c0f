//go:build amd64

package cycles

const (
	counterName    = "rdtsc"
	counterPrecise = true
)

// rdtsc reads the time-stamp counter.
// Implemented in cycles_amd64.s.
//
//go:noescape
func rdtsc() uint64

func readCounter() uint64 {
	return rdtsc()
}
