package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	charmlog "charm.land/log/v2"
	"golang.org/x/term"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
	// FormatLogfmt outputs logs in logfmt format.
	FormatLogfmt Format = "logfmt"
	// FormatText outputs human-friendly, optionally colored lines.
	FormatText Format = "text"
)

// Level represents a log severity.
type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

var (
	allLevels  = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug}
	allFormats = []Format{FormatJSON, FormatLogfmt, FormatText}
)

// NewHandlerFromStrings creates a [slog.Handler] from level and format
// strings.
func NewHandlerFromStrings(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, lvl, f), nil
}

// NewHandler creates a [slog.Handler] with the specified level and format.
// Unknown formats fall back to [FormatLogfmt].
func NewHandler(w io.Writer, lvl Level, f Format) slog.Handler {
	switch f {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl.Slog(),
		})

	case FormatText:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(lvl.Slog()),
			ReportTimestamp: true,
		})
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl.Slog(),
	})
}

// Slog returns the [slog.Level] for l. Unknown levels map to
// [slog.LevelInfo].
func (l Level) Slog() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelDebug:
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

// ParseLevel parses a case-insensitive log level string. "warning" is
// accepted as [LevelWarn].
func ParseLevel(level string) (Level, error) {
	lvl := Level(strings.ToLower(level))
	if lvl == "warning" {
		return LevelWarn, nil
	}

	if slices.Contains(allLevels, lvl) {
		return lvl, nil
	}

	return "", ErrUnknownLogLevel
}

// ParseFormat parses a case-insensitive log format string.
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if slices.Contains(allFormats, f) {
		return f, nil
	}

	return "", ErrUnknownLogFormat
}

// GetAllLevelStrings returns every accepted level, most severe first.
func GetAllLevelStrings() []string {
	out := make([]string, 0, len(allLevels))
	for _, l := range allLevels {
		out = append(out, string(l))
	}

	return out
}

// GetAllFormatStrings returns every accepted format.
func GetAllFormatStrings() []string {
	out := make([]string, 0, len(allFormats))
	for _, f := range allFormats {
		out = append(out, string(f))
	}

	return out
}

// DefaultFormat returns [FormatText] when stderr is a terminal and
// [FormatLogfmt] otherwise.
func DefaultFormat() Format {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return FormatText
	}

	return FormatLogfmt
}
