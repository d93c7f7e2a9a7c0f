// Command slotgen assigns probe slot ids to every instrumentation call site
// of a program.
//
// # Usage
//
//	slotgen [flags] <dir> [dir ...]
//
// Without flags it prints the assignment. Pass every instrumented directory
// of the program in one invocation: ids restart at 0 on every run, so running
// over a subset can reuse ids that other directories already hold.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/haversine/slotgen"
)

var errStale = errors.New("stale slot ids")

func main() {
	cfg := slotgen.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "slotgen [flags] <dir> [dir ...]",
		Short: "Assign probe slot ids to instrumentation call sites",
		Long: `slotgen numbers every x.Block("label", N) call site in the given
directories, in argument, file name, and source order, and rewrites N with
the assigned id.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), cfg, args)
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())

	completionErr := cfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, cfg *slotgen.Config, dirs []string) error {
	res, err := slotgen.Assign(dirs, cfg.Options()...)
	if err != nil {
		return err
	}

	stale := res.Stale()

	switch {
	case cfg.Write:
		return res.Write()

	case cfg.List, cfg.Check:
		for _, f := range stale {
			fmt.Fprintln(w, f.Path)
		}

		if cfg.Check && len(stale) > 0 {
			return fmt.Errorf("%w: %d files, run slotgen -w", errStale, len(stale))
		}

		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range res.Sites() {
		fmt.Fprintf(tw, "%d\t%s\t%s:%d\n", s.ID, s.Label, s.Pos.Filename, s.Pos.Line)
	}

	err = tw.Flush()
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}
