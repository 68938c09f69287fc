// Package main provides the entry point for TomaSim.
// TomaSim is a cycle-accurate simulator of Tomasulo's algorithm for a small
// double-precision instruction set.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/loader"
	"github.com/sarchlab/tomasim/report"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// Exit codes.
const (
	exitOK      = 0
	exitSetup   = 1
	exitStopped = 2
)

type options struct {
	output    string
	config    string
	chart     string
	maxCycles uint64
	freqGHz   float64
	tree      bool
	verbose   bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := newRootCmd(stdout, stderr, &code)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if code == exitOK {
			code = exitSetup
		}
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "tomasim [flags] <program>",
		Short: "Simulate a floating-point program with Tomasulo's algorithm",
		Long: "tomasim issues the program one instruction per cycle into reservation\n" +
			"stations and load/store buffers, and writes the machine state after\n" +
			"every cycle to the report file.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			*code, err = run(args[0], o, stdout, stderr)
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVarP(&o.output, "output", "o", "output.txt", "report file")
	flags.StringVar(&o.config, "config", "", "timing configuration JSON file")
	flags.StringVar(&o.chart, "chart", "", "write an HTML timeline chart to this file")
	flags.Uint64Var(&o.maxCycles, "max-cycles", pipeline.DefaultMaxCycles, "safety cap on simulated cycles")
	flags.Float64Var(&o.freqGHz, "freq", 1, "core clock frequency in GHz")
	flags.BoolVar(&o.tree, "tree", false, "append a tree view of the slots to every cycle")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log pipeline events")

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run simulates the program at input and returns the process exit code.
func run(input string, o options, stdout, stderr io.Writer) (int, error) {
	logger := newLogger(stderr, o.verbose)

	if o.freqGHz <= 0 {
		return exitSetup, fmt.Errorf("invalid frequency %v GHz", o.freqGHz)
	}

	prog, err := loader.Load(input, loader.WithLogger(logger))
	if err != nil {
		return exitSetup, fmt.Errorf("failed to load %q: %w", input, err)
	}
	if len(prog.Skipped) > 0 {
		logger.Info("dropped malformed lines", "count", len(prog.Skipped))
	}

	timingConfig := latency.DefaultTimingConfig()
	if o.config != "" {
		timingConfig, err = latency.LoadConfig(o.config)
		if err != nil {
			return exitSetup, fmt.Errorf("error loading timing config: %w", err)
		}
	}

	out, err := os.Create(o.output)
	if err != nil {
		return exitSetup, fmt.Errorf("failed to create report: %w", err)
	}
	defer func() { _ = out.Close() }()
	w := bufio.NewWriter(out)

	c := core.NewCore(prog.Instructions,
		core.WithFreq(sim.Freq(o.freqGHz)*sim.GHz),
		core.WithTimingConfig(timingConfig),
		core.WithMaxCycles(o.maxCycles),
		core.WithLogger(logger),
	)
	reporter := report.NewReporter(w, report.WithStateTree(o.tree))
	c.Observe(reporter.Observe)

	result := c.Run()

	if err := report.WriteSummary(w, result, c.Pipeline.Stats()); err != nil {
		return exitSetup, err
	}
	if err := errors.Join(reporter.Err(), w.Flush()); err != nil {
		return exitSetup, fmt.Errorf("failed to write report: %w", err)
	}

	if o.chart != "" {
		if err := writeChart(o.chart, input, c.Pipeline.Records()); err != nil {
			return exitSetup, err
		}
	}

	stats := c.Stats()
	fmt.Fprintf(stdout, "Program: %s\n", input)
	fmt.Fprintf(stdout, "Instructions: %d\n", len(prog.Instructions))
	fmt.Fprintf(stdout, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(stdout, "CPI: %.2f\n", stats.CPI)
	fmt.Fprintf(stdout, "Simulated time: %.2f ns\n", float64(stats.SimulatedTime)*1e9)
	fmt.Fprintf(stdout, "Report: %s\n", o.output)

	if !result.Completed {
		return exitStopped, result.Err
	}
	return exitOK, nil
}

func writeChart(path, title string, records []pipeline.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}
	defer func() { _ = f.Close() }()

	return report.WriteTimeline(f, title, records)
}
