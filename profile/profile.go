package profile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"go.jacobcolvin.com/haversine/cycles"
	"go.jacobcolvin.com/haversine/probe"
)

// ReportFormat selects how block reports are rendered.
type ReportFormat string

const (
	// ReportText renders [probe.Report.WriteText].
	ReportText ReportFormat = "text"
	// ReportYAML renders [probe.Report.WriteYAML].
	ReportYAML ReportFormat = "yaml"
)

// ErrUnknownReportFormat indicates an unrecognized report format string.
var ErrUnknownReportFormat = errors.New("unknown report format")

var allReportFormats = []ReportFormat{ReportText, ReportYAML}

// ParseReportFormat parses a case-insensitive report format string.
// An empty string selects [ReportText].
func ParseReportFormat(format string) (ReportFormat, error) {
	if format == "" {
		return ReportText, nil
	}

	f := ReportFormat(strings.ToLower(format))
	if slices.Contains(allReportFormats, f) {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownReportFormat, format)
}

// GetAllReportFormatStrings returns every accepted report format.
func GetAllReportFormatStrings() []string {
	out := make([]string, 0, len(allReportFormats))
	for _, f := range allReportFormats {
		out = append(out, string(f))
	}

	return out
}

// Profiler controls the lifecycle of profiling for a command: an optional
// runtime/pprof CPU profile spanning [Profiler.Start] to [Profiler.Stop],
// and any number of [probe.Session]s in between, each reported when it ends.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	// Stdout receives reports when [Config.Report] is "-". Defaults to
	// [os.Stdout].
	Stdout io.Writer

	cpuFile    *os.File
	reportFile *os.File
	proc       *process.Process
	format     ReportFormat
	faults     uint64
	Config
}

// Start opens the report destination and starts CPU profiling if enabled.
// Call [Profiler.Stop] when profiling is complete.
func (c *Profiler) Start() error {
	slog.Debug("cycle counter",
		slog.String("source", cycles.Source()),
		slog.Bool("precise", cycles.Precise()),
	)

	if c.Report != "" && c.Report != "-" {
		f, err := os.Create(c.Report) //nolint:gosec // Report path from CLI flag is expected.
		if err != nil {
			return fmt.Errorf("creating report: %w", err)
		}

		c.reportFile = f
	}

	if c.PageFaults {
		proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // PIDs fit in int32.
		if err != nil {
			slog.Warn("page faults unavailable", slog.Any("err", err))
		} else {
			c.proc = proc
		}
	}

	if c.CPUProfile != "" {
		f, err := os.Create(c.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
		if err != nil {
			return errors.Join(fmt.Errorf("creating CPU profile: %w", err), c.closeReport())
		}

		c.cpuFile = f

		err = pprof.StartCPUProfile(f)
		if err != nil {
			must(c.cpuFile.Close())

			c.cpuFile = nil

			return errors.Join(fmt.Errorf("starting CPU profile: %w", err), c.closeReport())
		}
	}

	return nil
}

// Stop stops CPU profiling, writes the heap profile if enabled, and closes
// the report destination.
func (c *Profiler) Stop() error {
	var errs []error

	if c.cpuFile != nil {
		pprof.StopCPUProfile()

		err := c.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing CPU profile: %w", err))
		}

		c.cpuFile = nil
	}

	if c.HeapProfile != "" {
		errs = append(errs, writeHeapProfile(c.HeapProfile))
	}

	errs = append(errs, c.closeReport())

	return errors.Join(errs...)
}

// NewSession starts a [probe.Session] for one measured unit of work.
// End it with [Profiler.EndSession].
func (c *Profiler) NewSession(opts ...probe.Option) *probe.Session {
	c.faults = c.pageFaults()

	return probe.NewSession(opts...)
}

// EndSession ends s and writes its report to the configured destination.
func (c *Profiler) EndSession(s *probe.Session) error {
	r, err := s.End()
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}

	if c.proc != nil {
		after := c.pageFaults()
		if after >= c.faults {
			delta := after - c.faults
			r.PageFaults = &delta
		}
	}

	w := c.reportWriter()
	if w == nil {
		return nil
	}

	if c.format == ReportYAML {
		return r.WriteYAML(w)
	}

	return r.WriteText(w)
}

func (c *Profiler) reportWriter() io.Writer {
	switch {
	case c.reportFile != nil:
		return c.reportFile
	case c.Report != "-":
		return nil
	case c.Stdout != nil:
		return c.Stdout
	}

	return os.Stdout
}

// pageFaults returns the total minor and major page faults of the process,
// or zero when they cannot be read.
func (c *Profiler) pageFaults() uint64 {
	if c.proc == nil {
		return 0
	}

	stat, err := c.proc.PageFaults()
	if err != nil {
		slog.Debug("reading page faults", slog.Any("err", err))

		return 0
	}

	return stat.MinorFaults + stat.MajorFaults
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating heap profile: %w", err)
	}

	runtime.GC()

	err = pprof.Lookup("heap").WriteTo(f, 0)
	if err != nil {
		must(f.Close())

		return fmt.Errorf("writing heap profile: %w", err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("closing heap profile: %w", err)
	}

	return nil
}

func (c *Profiler) closeReport() error {
	if c.reportFile == nil {
		return nil
	}

	err := c.reportFile.Close()
	c.reportFile = nil

	if err != nil {
		return fmt.Errorf("closing report: %w", err)
	}

	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
