package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/haversine/haversine"
	"go.jacobcolvin.com/haversine/probe"
	"go.jacobcolvin.com/haversine/profile"
)

// Decoder names accepted by --decoder.
const (
	decoderStream = "stream"
	decoderSonnet = "sonnet"
)

var (
	errUnknownDecoder = errors.New("unknown decoder")
	errInvalidRepeat  = errors.New("repeat must be at least 1")
	errRepeatStdin    = errors.New("repeat needs a file, stdin can only be read once")
)

var allDecoders = []string{decoderStream, decoderSonnet}

type calculateOptions struct {
	decoder string
	repeat  int
}

func (a *app) newCalculateCmd() *cobra.Command {
	opts := &calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate [flags] <file.json>",
		Short: "Average the distances of coordinate pairs",
		Long: `calculate reads coordinate pairs from the given file, or from stdin for
"-", prints their average haversine distance, and reports the cycles spent
in each block. --repeat runs the whole measurement several times, reporting
each run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			decoder := strings.ToLower(opts.decoder)
			if !slices.Contains(allDecoders, decoder) {
				return fmt.Errorf("%w: %q", errUnknownDecoder, opts.decoder)
			}

			if opts.repeat < 1 {
				return fmt.Errorf("%w: %d", errInvalidRepeat, opts.repeat)
			}

			if opts.repeat > 1 && args[0] == "-" {
				return errRepeatStdin
			}

			return a.profiled(func(p *profile.Profiler) error {
				for i := range opts.repeat {
					slog.Debug("calculate", slog.Int("run", i+1), slog.String("decoder", decoder))

					err := a.calculate(p, decoder, args[0])
					if err != nil {
						return err
					}
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.decoder, "decoder", decoderStream,
		fmt.Sprintf("JSON decoder, one of: %s", allDecoders))
	cmd.Flags().IntVar(&opts.repeat, "repeat", 1, "number of measured runs")

	err := cmd.RegisterFlagCompletionFunc("decoder",
		cobra.FixedCompletions(allDecoders, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

func (a *app) calculate(p *profile.Profiler, decoder, path string) error {
	s := p.NewSession()

	in := setup(s, path, a.stdin)

	data, err := readInput(s, in)
	if err != nil {
		return errors.Join(err, endQuietly(s))
	}

	pairs, err := decode(s, decoder, data)
	if err != nil {
		return errors.Join(err, endQuietly(s))
	}

	avg := haversine.Average(pairs, s)

	err = a.printOutput(s, len(data), len(pairs), avg)
	if err != nil {
		return errors.Join(err, endQuietly(s))
	}

	return p.EndSession(s)
}

// input names the source of the pairs. r is set when reading stdin.
type input struct {
	r    io.Reader
	path string
}

func setup(s *probe.Session, path string, stdin io.Reader) input {
	defer s.Block("Initial Setup", 8).End()

	if path == "-" {
		return input{r: stdin, path: path}
	}

	return input{path: path}
}

func readInput(s *probe.Session, in input) ([]byte, error) {
	defer s.Block("Read File", 9).End()

	var (
		data []byte
		err  error
	)

	if in.r != nil {
		data, err = io.ReadAll(in.r)
	} else {
		data, err = os.ReadFile(in.path)
	}

	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	s.RecordBytes(uint64(len(data)))

	return data, nil
}

func decode(s *probe.Session, decoder string, data []byte) ([]haversine.CoordPair, error) {
	defer s.Block("Deserialize Json", 10).End()

	var (
		pairs []haversine.CoordPair
		err   error
	)

	switch decoder {
	case decoderSonnet:
		pairs, err = haversine.DecodeAll(data, s)
	default:
		pairs, err = haversine.NewDecoder(bytes.NewReader(data), haversine.WithSession(s)).Decode()
	}

	if err != nil {
		return nil, fmt.Errorf("decoding pairs: %w", err)
	}

	return pairs, nil
}

func (a *app) printOutput(s *probe.Session, size, count int, avg float64) error {
	defer s.Block("Print Output", 11).End()

	_, err := fmt.Fprintf(a.stdout, "Input size: %d\nPair count: %d\nHaversine average: %.16f\n",
		size, count, avg)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// endQuietly discards the report of a session that failed part way.
func endQuietly(s *probe.Session) error {
	_, err := s.End()
	return err
}
