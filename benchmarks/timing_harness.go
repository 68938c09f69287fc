// Package benchmarks provides timing benchmark infrastructure for TomaSim.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the timing simulator
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of instructions written back
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// StructuralStalls is the number of cycles issue waited for a free slot
	StructuralStalls uint64 `json:"structural_stalls"`

	// RenamedOperands is the number of operands that waited on a tag
	RenamedOperands uint64 `json:"renamed_operands"`

	// Broadcasts is the number of results put on the common data bus
	Broadcasts uint64 `json:"broadcasts"`

	// SupersededWrites counts broadcasts that lost their register to a
	// younger writer
	SupersededWrites uint64 `json:"superseded_writes"`

	// StoreDataWaits counts cycles completed stores waited for their data
	StoreDataWaits uint64 `json:"store_data_waits"`

	// Completed is true when every instruction was written back
	Completed bool `json:"completed"`

	// Error describes why an incomplete run stopped
	Error string `json:"error,omitempty"`

	// InvariantViolation is the first scheduler invariant that failed, if
	// invariant checking was enabled
	InvariantViolation string `json:"invariant_violation,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the architectural state (e.g., initialize registers, memory)
	Setup func(regFile *emu.RegFile, memory *emu.Memory)

	// Source is the assembly program to simulate
	Source string
}

// Program decodes the benchmark source.
func (b Benchmark) Program() []insts.Instruction {
	return insts.NewDecoder().DecodeString(b.Source)
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Timing sets the instruction latencies (default: latency.DefaultTimingConfig)
	Timing *latency.TimingConfig

	// MaxCycles is the safety cap per benchmark
	MaxCycles uint64

	// CheckInvariants verifies the scheduler invariants after every cycle
	CheckInvariants bool

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Timing:          latency.DefaultTimingConfig(),
		MaxCycles:       pipeline.DefaultMaxCycles,
		CheckInvariants: true,
		Output:          os.Stdout,
		Verbose:         false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Timing == nil {
		config.Timing = latency.DefaultTimingConfig()
	}
	if config.MaxCycles == 0 {
		config.MaxCycles = pipeline.DefaultMaxCycles
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	// Create fresh state
	regFile := emu.NewRegFile()
	memory := emu.NewMemory()

	if bench.Setup != nil {
		bench.Setup(regFile, memory)
	}

	c := core.NewCore(bench.Program(),
		core.WithRegFile(regFile),
		core.WithMemory(memory),
		core.WithTimingConfig(h.config.Timing),
		core.WithMaxCycles(h.config.MaxCycles),
	)

	var violation error
	if h.config.CheckInvariants {
		c.Observe(func(snap pipeline.Snapshot) {
			if violation != nil {
				return
			}
			if err := snap.CheckInvariants(); err != nil {
				violation = fmt.Errorf("cycle %d: %w", snap.Cycle, err)
			}
		})
	}

	// Run simulation and measure time
	start := time.Now()
	outcome := c.Run()
	wallTime := time.Since(start)

	stats := c.Pipeline.Stats()
	result := BenchmarkResult{
		Name:                bench.Name,
		Description:         bench.Description,
		SimulatedCycles:     stats.Cycles,
		InstructionsRetired: stats.Instructions,
		CPI:                 stats.CPI(),
		StructuralStalls:    stats.StructuralStalls,
		RenamedOperands:     stats.RenamedOperands,
		Broadcasts:          stats.Broadcasts,
		SupersededWrites:    stats.SupersededWrites,
		StoreDataWaits:      stats.StoreDataWaits,
		Completed:           outcome.Completed,
		WallTime:            wallTime,
	}
	if outcome.Err != nil {
		result.Error = outcome.Err.Error()
	}
	if violation != nil {
		result.InvariantViolation = violation.Error()
	}

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d cycles\n", bench.Name, stats.Cycles)
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== TomaSim Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Completed: %v\n", r.Completed)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Scheduler ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Structural Stalls:    %d\n", r.StructuralStalls)
		_, _ = fmt.Fprintf(h.config.Output, "  Renamed Operands:     %d\n", r.RenamedOperands)
		_, _ = fmt.Fprintf(h.config.Output, "  Broadcasts:           %d\n", r.Broadcasts)
		_, _ = fmt.Fprintf(h.config.Output, "  Superseded Writes:    %d\n", r.SupersededWrites)
		_, _ = fmt.Fprintf(h.config.Output, "  Store Data Waits:     %d\n", r.StoreDataWaits)
		if r.InvariantViolation != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Invariant Violation:  %s\n", r.InvariantViolation)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,structural_stalls,renamed_operands,broadcasts,superseded_writes,store_data_waits,completed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%d,%t\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.StructuralStalls,
			r.RenamedOperands,
			r.Broadcasts,
			r.SupersededWrites,
			r.StoreDataWaits,
			r.Completed,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// Timing is the latency configuration used
	Timing latency.TimingConfig `json:"timing"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalInstructions is the sum of all instructions retired
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageCPI is the average cycles per instruction
	AverageCPI float64 `json:"average_cpi"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// Version is reported in the JSON metadata.
const Version = "0.1.0"

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalCycles, totalInstructions uint64
	var totalWallTime time.Duration
	for _, r := range results {
		totalCycles += r.SimulatedCycles
		totalInstructions += r.InstructionsRetired
		totalWallTime += r.WallTime
	}

	avgCPI := float64(0)
	if totalInstructions > 0 {
		avgCPI = float64(totalCycles) / float64(totalInstructions)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
			Timing:    *h.config.Timing,
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks:   len(results),
			TotalCycles:       totalCycles,
			TotalInstructions: totalInstructions,
			AverageCPI:        avgCPI,
			TotalWallTime:     totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
