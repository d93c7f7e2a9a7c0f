// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatJSON], [FormatLogfmt], and
// [FormatText]) and severity levels ([LevelError], [LevelWarn], [LevelInfo],
// and [LevelDebug]). [FormatText] is rendered by [charm.land/log/v2] and is
// the default when stderr is a terminal.
//
// Use [NewHandler] to create a handler directly, or use [Config] with CLI
// flag integration via [github.com/spf13/pflag] and shell completion support
// via [github.com/spf13/cobra]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
package log
