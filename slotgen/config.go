package slotgen

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for slot assignment, allowing callers to
// customize flag names while keeping sensible defaults.
type Flags struct {
	Write string
	List  string
	Check string
	Func  string
}

// Config holds CLI flag values for slot assignment.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	Flags Flags
	Func  string
	Write bool
	List  bool
	Check bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Write: "write",
		List:  "list",
		Check: "check",
		Func:  "func",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds slot assignment flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&c.Write, c.Flags.Write, "w", false,
		"rewrite files in place")
	flags.BoolVarP(&c.List, c.Flags.List, "l", false,
		"list files whose ids would change")
	flags.BoolVar(&c.Check, c.Flags.Check, false,
		"exit with an error if any file has stale ids")
	flags.StringVar(&c.Func, c.Flags.Func, DefaultFunc,
		"method name that marks an instrumentation call site")
}

// RegisterCompletions registers shell completions on cmd. Positional
// arguments complete to directories.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	cmd.ValidArgsFunction = func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	return cmd.RegisterFlagCompletionFunc(c.Flags.Func, cobra.NoFileCompletions)
}

// Options returns the [Assign] options selected by c.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Func != "" && c.Func != DefaultFunc {
		opts = append(opts, WithFunc(c.Func))
	}

	return opts
}
