package main

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/haversine/haversine"
	"go.jacobcolvin.com/haversine/profile"
)

const (
	defaultCount = 10000
	defaultSeed  = 1212121212
)

var errInvalidCount = errors.New("count must not be negative")

type generateOptions struct {
	count   int
	seed    uint64
	uniform bool
}

func (a *app) newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [flags] <file.json>",
		Short: "Write random coordinate pairs as JSON",
		Long: `generate writes --count random coordinate pairs to the given file, or to
stdout for "-". When writing to a file it also prints the expected average
distance. Pairs are drawn from random clusters unless --uniform is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.profiled(func(p *profile.Profiler) error {
				return a.generate(p, opts, args[0])
			})
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", defaultCount, "number of pairs to generate")
	cmd.Flags().Uint64Var(&opts.seed, "seed", defaultSeed, "random seed")
	cmd.Flags().BoolVar(&opts.uniform, "uniform", false, "draw every point from the whole globe")

	return cmd
}

func (a *app) generate(p *profile.Profiler, opts *generateOptions, path string) error {
	if opts.count < 0 {
		return fmt.Errorf("%w: %d", errInvalidCount, opts.count)
	}

	out := a.stdout
	if path == "-" {
		// Keep the data stream parseable.
		p.Stdout = a.stderr
	}

	var file *os.File

	if path != "-" {
		f, err := os.Create(path) //nolint:gosec // Output path from CLI argument is expected.
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close() //nolint:errcheck // Closed explicitly below on success.

		file = f
		out = f
	}

	gen := haversine.NewGenerator(opts.seed, opts.count, !opts.uniform)

	var sum float64

	var pairs iter.Seq[haversine.CoordPair] = func(yield func(haversine.CoordPair) bool) {
		for pair := range gen.All() {
			sum += haversine.Haversine(pair, haversine.EarthRadius)
			if !yield(pair) {
				return
			}
		}
	}

	s := p.NewSession()

	err := haversine.Encode(out, pairs, s)
	if err != nil {
		return errors.Join(fmt.Errorf("encoding pairs: %w", err), endQuietly(s))
	}

	if file != nil {
		err = file.Close()
		if err != nil {
			return errors.Join(fmt.Errorf("closing output: %w", err), endQuietly(s))
		}
	}

	method := "cluster"
	if opts.uniform {
		method = "uniform"
	}

	slog.Info("generated pairs",
		slog.String("path", path),
		slog.String("method", method),
		slog.Uint64("seed", opts.seed),
		slog.Int("count", opts.count),
	)

	var avg float64
	if opts.count > 0 {
		avg = sum / float64(opts.count)
	}

	if path != "-" {
		fmt.Fprintf(a.stdout, "Method: %s\nSeed: %d\nPair count: %d\nExpected average: %.16f\n",
			method, opts.seed, opts.count, avg)
	}

	return p.EndSession(s)
}
