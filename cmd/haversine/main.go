// Command haversine generates coordinate-pair inputs and measures how long
// each phase of computing their average haversine distance takes.
//
// # Usage
//
//	haversine generate [flags] <file.json>
//	haversine calculate [flags] <file.json>
//	haversine schema
//
// Block reports go to stdout unless --report says otherwise. When generate
// writes its data to stdout, reports written to "-" go to stderr instead.
package main

//go:generate go run ../slotgen -w ../../haversine .

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/haversine/log"
	"go.jacobcolvin.com/haversine/profile"
	"go.jacobcolvin.com/haversine/version"
)

func main() {
	rootCmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type app struct {
	log     *log.Config
	profile *profile.Config
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		log:     log.NewConfig(),
		profile: profile.NewConfig(),
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "haversine",
		Short: "Haversine distance benchmark with block profiling",
		Long: `haversine generates random coordinate pairs as JSON, then reads them back
and averages their great-circle distances, reporting the cycles spent in
each instrumented block.`,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			h, err := a.log.NewHandler(a.stderr)
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(h))

			return nil
		},
	}

	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	a.log.RegisterFlags(rootCmd.PersistentFlags())
	a.profile.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		a.newGenerateCmd(),
		a.newCalculateCmd(),
		a.newSchemaCmd(),
	)

	for _, register := range []func(*cobra.Command) error{
		a.log.RegisterCompletions,
		a.profile.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(stderr, "register completions: %v\n", err)
		}
	}

	return rootCmd
}

// profiled runs fn between [profile.Profiler.Start] and
// [profile.Profiler.Stop].
func (a *app) profiled(fn func(*profile.Profiler) error) error {
	p, err := a.profile.NewProfiler()
	if err != nil {
		return err
	}

	p.Stdout = a.stdout

	err = p.Start()
	if err != nil {
		return err
	}

	return errors.Join(fn(p), p.Stop())
}
