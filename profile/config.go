package profile

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Report       string
	ReportFormat string
	CPUProfile   string
	HeapProfile  string
	PageFaults   string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds profiling configuration: where block reports go, in which
// format, and which process-level extras to collect. A zero-value Config
// produces no output.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler].
type Config struct {
	Flags Flags

	// Report is the block report destination: "-" for stdout, a file path,
	// or empty to disable.
	Report       string
	ReportFormat string
	// CPUProfile is a runtime/pprof CPU profile path (empty = disabled).
	CPUProfile string
	// HeapProfile is a heap profile path written on [Profiler.Stop]
	// (empty = disabled).
	HeapProfile string
	// PageFaults adds the process page-fault delta to each report.
	PageFaults bool
}

// NewConfig creates a new [Config] with default flag names.
// Use [Config.RegisterFlags] to add CLI flags, or set fields directly.
func NewConfig() *Config {
	f := Flags{
		Report:       "report",
		ReportFormat: "report-format",
		CPUProfile:   "cpu-profile",
		HeapProfile:  "heap-profile",
		PageFaults:   "page-faults",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Report, c.Flags.Report, "-",
		"write block reports to file (- for stdout, empty to disable)")
	flags.StringVar(&c.ReportFormat, c.Flags.ReportFormat, string(ReportText),
		fmt.Sprintf("block report format, one of: %s", GetAllReportFormatStrings()))
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "",
		"write CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "",
		"write heap profile to file on exit")
	flags.BoolVar(&c.PageFaults, c.Flags.PageFaults, false,
		"include the process page-fault count in block reports")
}

// RegisterCompletions registers shell completions for profile flags on cmd.
// Path flags use default file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.ReportFormat,
		cobra.FixedCompletions(GetAllReportFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.ReportFormat, err)
	}

	return nil
}

// NewProfiler creates a new [Profiler] using this [Config].
func (c *Config) NewProfiler() (*Profiler, error) {
	f, err := ParseReportFormat(c.ReportFormat)
	if err != nil {
		return nil, err
	}

	return &Profiler{
		Config: *c,
		format: f,
	}, nil
}
