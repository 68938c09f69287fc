// Package main provides a profiling wrapper for TomaSim to identify
// performance bottlenecks in the scheduler.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/loader"
	"github.com/sarchlab/tomasim/timing/core"
)

type profileOptions struct {
	cpuProfile string
	memProfile string
	iterations int
	duration   time.Duration
}

type profileResult struct {
	runs    int
	cycles  uint64
	elapsed time.Duration
}

func main() {
	cmd := newRootCmd(os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var o profileOptions

	cmd := &cobra.Command{
		Use:           "profile [flags] <program>",
		Short:         "Run a program repeatedly under pprof",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], o, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.cpuProfile, "cpuprofile", "", "write cpu profile to file")
	flags.StringVar(&o.memProfile, "memprofile", "", "write memory profile to file")
	flags.IntVar(&o.iterations, "iterations", 1000, "number of simulations to run")
	flags.DurationVar(&o.duration, "duration", 30*time.Second, "stop starting new runs after this long")

	return cmd
}

func run(path string, o profileOptions, out io.Writer) error {
	prog, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("error loading program: %w", err)
	}

	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			return fmt.Errorf("error creating CPU profile: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("error starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	fmt.Fprintf(out, "Loaded: %s (%d instructions)\n", path, len(prog.Instructions))

	c := core.NewCore(prog.Instructions)
	res := simulate(c, o.iterations, o.duration)

	if o.memProfile != "" {
		f, err := os.Create(o.memProfile)
		if err != nil {
			return fmt.Errorf("error creating memory profile: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("error writing memory profile: %w", err)
		}
	}

	fmt.Fprintf(out, "\nProfiling Results:\n")
	fmt.Fprintf(out, "Runs: %d\n", res.runs)
	fmt.Fprintf(out, "Cycles simulated: %d\n", res.cycles)
	fmt.Fprintf(out, "Elapsed time: %v\n", res.elapsed)
	if res.elapsed > 0 {
		fmt.Fprintf(out, "Cycles/second: %.0f\n", float64(res.cycles)/res.elapsed.Seconds())
	}
	return nil
}

// simulate runs c to completion up to iterations times, resetting between
// runs, and stops early once limit has passed.
func simulate(c *core.Core, iterations int, limit time.Duration) profileResult {
	var res profileResult
	start := time.Now()

	for res.runs < iterations {
		if res.runs > 0 {
			c.Reset()
		}
		c.Run()
		res.cycles += c.Stats().Cycles
		res.runs++

		if limit > 0 && time.Since(start) >= limit {
			break
		}
	}

	res.elapsed = time.Since(start)
	return res
}
