package probe

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	bytesPerMegabyte = 1024 * 1024
	bitsPerGigabit   = 1e9
)

// Report is the result of a [Session].
type Report struct {
	// PageFaults is the process page-fault delta over the session, when
	// known.
	PageFaults *uint64
	// Substitute names the clock standing in for a hardware cycle counter,
	// if any.
	Substitute  string
	Entries     []Entry
	TotalWall   time.Duration
	TotalCycles uint64
	// Frequency is the estimated cycle counter frequency in Hz.
	Frequency uint64
}

// TotalExclusive returns the sum of exclusive cycles across all entries.
func (r *Report) TotalExclusive() uint64 {
	var total uint64
	for _, e := range r.Entries {
		total += e.Exclusive
	}

	return total
}

// Throughput converts the bytes of e to megabytes and gigabits per second,
// using the time e spent as a root.
func (r *Report) Throughput(e Entry) (float64, float64) {
	mb := float64(e.Bytes) / bytesPerMegabyte
	if r.Frequency == 0 || e.Exclusive == 0 {
		return mb, 0
	}

	seconds := float64(e.Exclusive) / float64(r.Frequency)

	return mb, float64(e.Bytes) * 8 / seconds / bitsPerGigabit
}

// WriteText writes the human-readable summary to w. Entries that never closed
// as a root are omitted.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Total time: %.4fms (CPU freq %d)\n", milliseconds(r.TotalWall), r.Frequency)

	if r.Substitute != "" {
		fmt.Fprintf(&sb, "Cycle counter: %s\n", r.Substitute)
	}

	total := r.TotalExclusive()

	for _, e := range r.Entries {
		if e.Exclusive == 0 {
			continue
		}

		fmt.Fprintf(&sb, "%s: %d (%.2f%%)\n", e.Label, e.Exclusive, percent(e.Exclusive, total))

		if e.Children != 0 {
			fmt.Fprintf(&sb, "  direct children: %d (%.2f%%)\n", e.Children, percent(e.Children, total))
		}

		if e.Bytes != 0 {
			mb, gbps := r.Throughput(e)
			fmt.Fprintf(&sb, "  processed %.3fMB at %.2fGb/s\n", mb, gbps)
		}
	}

	if r.PageFaults != nil {
		fmt.Fprintf(&sb, "Page faults: %d\n", *r.PageFaults)
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

type yamlReport struct {
	PageFaults  *uint64     `yaml:"page_faults,omitempty"`
	Substitute  string      `yaml:"cycle_counter,omitempty"`
	Blocks      []yamlBlock `yaml:"blocks"`
	TotalMillis float64     `yaml:"total_ms"`
	TotalCycles uint64      `yaml:"total_cycles"`
	Frequency   uint64      `yaml:"cpu_freq"`
}

type yamlBlock struct {
	Label            string  `yaml:"label"`
	Exclusive        uint64  `yaml:"exclusive_cycles"`
	ExclusivePercent float64 `yaml:"exclusive_percent"`
	Children         uint64  `yaml:"child_cycles,omitempty"`
	ChildrenPercent  float64 `yaml:"child_percent,omitempty"`
	Bytes            uint64  `yaml:"bytes,omitempty"`
	Megabytes        float64 `yaml:"megabytes,omitempty"`
	Gbps             float64 `yaml:"gbps,omitempty"`
}

// WriteYAML writes the summary to w as a YAML document, with the same
// entries as [Report.WriteText].
func (r *Report) WriteYAML(w io.Writer) error {
	doc := yamlReport{
		PageFaults:  r.PageFaults,
		Substitute:  r.Substitute,
		Blocks:      []yamlBlock{},
		TotalMillis: milliseconds(r.TotalWall),
		TotalCycles: r.TotalCycles,
		Frequency:   r.Frequency,
	}

	total := r.TotalExclusive()

	for _, e := range r.Entries {
		if e.Exclusive == 0 {
			continue
		}

		b := yamlBlock{
			Label:            e.Label,
			Exclusive:        e.Exclusive,
			ExclusivePercent: percent(e.Exclusive, total),
			Children:         e.Children,
			ChildrenPercent:  percent(e.Children, total),
			Bytes:            e.Bytes,
		}
		if e.Bytes != 0 {
			b.Megabytes, b.Gbps = r.Throughput(e)
		}

		doc.Blocks = append(doc.Blocks, b)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return float64(part) / float64(total) * 100
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
