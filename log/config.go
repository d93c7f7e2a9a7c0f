package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags names the logging flags. Commands that already use --log-level for
// something else can rename them here.
type Flags struct {
	Level  string
	Format string
}

// NewConfig returns a [Config] that registers flags under these names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config carries the raw --log-level and --log-format values until
// [Config.NewHandler] validates them.
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a [Config] using the --log-level and --log-format flag
// names.
func NewConfig() *Config {
	return Flags{
		Level:  "log-level",
		Format: "log-format",
	}.NewConfig()
}

// RegisterFlags adds the logging flags to flags. The level defaults to info;
// the format default comes from [DefaultFormat].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, string(LevelInfo),
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, string(DefaultFormat()),
		fmt.Sprintf("log format, one of: %s", GetAllFormatStrings()))
}

// RegisterCompletions completes both flags from their fixed value lists.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	for flag, values := range map[string][]string{
		c.Flags.Level:  GetAllLevelStrings(),
		c.Flags.Format: GetAllFormatStrings(),
	} {
		err := cmd.RegisterFlagCompletionFunc(flag,
			cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// NewHandler validates the configured level and format and returns a
// handler writing to w. Errors wrap [ErrInvalidArgument].
func (c *Config) NewHandler(w io.Writer) (slog.Handler, error) {
	return NewHandlerFromStrings(w, c.Level, c.Format)
}
