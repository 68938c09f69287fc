// Command benchmark runs the TomaSim timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	--format    Output format: text, csv or json (default: text)
//	--config    Timing configuration JSON file
//	--core      Run only the core kernels
//
// Example:
//
//	# Run all kernels with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark --format csv > results.csv
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/benchmarks"
	"github.com/sarchlab/tomasim/timing/latency"
)

func main() {
	cmd := newRootCmd(os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		format     string
		configPath string
		coreOnly   bool
		maxCycles  uint64
	)

	cmd := &cobra.Command{
		Use:           "benchmark",
		Short:         "Run the TomaSim scheduler kernels",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := benchmarks.DefaultConfig()
			config.Output = out
			config.MaxCycles = maxCycles
			if configPath != "" {
				timing, err := latency.LoadConfig(configPath)
				if err != nil {
					return fmt.Errorf("error loading timing config: %w", err)
				}
				config.Timing = timing
			}

			harness := benchmarks.NewHarness(config)
			if coreOnly {
				harness.AddBenchmarks(benchmarks.GetCoreKernels())
			} else {
				harness.AddBenchmarks(benchmarks.GetKernels())
			}

			switch format {
			case "text":
				fmt.Fprintln(out, "TomaSim Timing Benchmark Harness")
				fmt.Fprintln(out, "================================")
				fmt.Fprintf(out, "Latencies: %+v\n", *config.Timing)
				fmt.Fprintln(out, "")
				harness.PrintResults(harness.RunAll())
			case "csv":
				harness.PrintCSV(harness.RunAll())
			case "json":
				return harness.PrintJSON(harness.RunAll())
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			return nil
		},
	}
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.StringVar(&format, "format", "text", "output format: text, csv or json")
	flags.StringVar(&configPath, "config", "", "timing configuration JSON file")
	flags.BoolVar(&coreOnly, "core", false, "run only the core kernels")
	flags.Uint64Var(&maxCycles, "max-cycles", 0, "safety cap per kernel (0 for the default)")

	return cmd
}
