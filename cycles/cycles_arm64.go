//go:build arm64

package cycles

const (
	counterName    = "cntvct_el0"
	counterPrecise = true
)

// cntvct reads the virtual counter.
// Implemented in cycles_arm64.s.
//
//go:noescape
func cntvct() uint64

func readCounter() uint64 {
	return cntvct()
}
