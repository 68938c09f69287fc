// Package core provides the cycle-accurate Tomasulo core model.
// It wraps the scheduler in timing/pipeline and adds a clock frequency,
// per-cycle observers and converted statistics.
package core

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// DefaultFreq is the clock frequency used when none is configured.
const DefaultFreq = 1 * sim.GHz

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions written back.
	Instructions uint64
	// Stalls is the number of structural stall cycles at issue.
	Stalls uint64
	// Broadcasts is the number of results put on the common data bus.
	Broadcasts uint64
	// CPI is cycles per written-back instruction.
	CPI float64
	// SimulatedTime is the virtual time the cycles take at the core clock.
	SimulatedTime sim.VTimeInSec
}

// Observer is called with a snapshot at the end of every cycle.
type Observer func(pipeline.Snapshot)

// Config collects the settings used to build a Core.
type Config struct {
	Freq      sim.Freq
	Timing    *latency.TimingConfig
	MaxCycles uint64
	RegFile   *emu.RegFile
	Memory    *emu.Memory
	Logger    *slog.Logger
}

// Option is a functional option for configuring the Core.
type Option func(*Config)

// WithFreq sets the core clock frequency.
func WithFreq(freq sim.Freq) Option {
	return func(c *Config) {
		c.Freq = freq
	}
}

// WithTimingConfig sets the instruction latencies.
func WithTimingConfig(cfg *latency.TimingConfig) Option {
	return func(c *Config) {
		c.Timing = cfg
	}
}

// WithMaxCycles sets the safety cap on simulated cycles.
func WithMaxCycles(n uint64) Option {
	return func(c *Config) {
		c.MaxCycles = n
	}
}

// WithRegFile sets the initial register file.
func WithRegFile(regFile *emu.RegFile) Option {
	return func(c *Config) {
		c.RegFile = regFile
	}
}

// WithMemory sets the initial memory.
func WithMemory(memory *emu.Memory) Option {
	return func(c *Config) {
		c.Memory = memory
	}
}

// WithLogger sets the structured logger passed to the scheduler.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Core represents a cycle-accurate Tomasulo core running one program.
type Core struct {
	// Pipeline is the underlying scheduler.
	Pipeline *pipeline.Pipeline

	freq      sim.Freq
	observers []Observer
}

// NewCore creates a Core for program.
func NewCore(program []insts.Instruction, opts ...Option) *Core {
	cfg := Config{
		Freq:      DefaultFreq,
		MaxCycles: pipeline.DefaultMaxCycles,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Freq <= 0 {
		cfg.Freq = DefaultFreq
	}

	pipeOpts := []pipeline.PipelineOption{
		pipeline.WithMaxCycles(cfg.MaxCycles),
	}
	if cfg.Timing != nil {
		pipeOpts = append(pipeOpts,
			pipeline.WithLatencyTable(latency.NewTableWithConfig(cfg.Timing)))
	}
	if cfg.RegFile != nil {
		pipeOpts = append(pipeOpts, pipeline.WithRegFile(cfg.RegFile))
	}
	if cfg.Memory != nil {
		pipeOpts = append(pipeOpts, pipeline.WithMemory(cfg.Memory))
	}
	if cfg.Logger != nil {
		pipeOpts = append(pipeOpts, pipeline.WithLogger(cfg.Logger))
	}

	return &Core{
		Pipeline: pipeline.NewPipeline(program, pipeOpts...),
		freq:     cfg.Freq,
	}
}

// Freq returns the core clock frequency.
func (c *Core) Freq() sim.Freq {
	return c.freq
}

// Observe registers fn to receive a snapshot after every cycle.
func (c *Core) Observe(fn Observer) {
	c.observers = append(c.observers, fn)
}

// Tick executes one cycle and notifies the observers.
func (c *Core) Tick() {
	if c.Pipeline.Halted() {
		return
	}
	c.Pipeline.Tick()
	c.notify()
}

func (c *Core) notify() {
	if len(c.observers) == 0 {
		return
	}
	snap := c.Pipeline.Snapshot()
	for _, fn := range c.observers {
		fn(snap)
	}
}

// Halted returns true once the run has finished or stopped early.
func (c *Core) Halted() bool {
	return c.Pipeline.Halted()
}

// Run executes the core until it halts and returns the outcome.
func (c *Core) Run() pipeline.Result {
	for !c.Pipeline.Halted() {
		if c.Pipeline.Done() {
			return c.Pipeline.Run()
		}
		c.Tick()
	}
	return c.Pipeline.Result()
}

// RunCycles executes the core for the specified number of cycles.
// Returns true if still running, false if halted.
func (c *Core) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles && !c.Pipeline.Halted(); i++ {
		c.Tick()
	}
	return !c.Pipeline.Halted()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Cycles:        pipeStats.Cycles,
		Instructions:  pipeStats.Instructions,
		Stalls:        pipeStats.StructuralStalls,
		Broadcasts:    pipeStats.Broadcasts,
		CPI:           pipeStats.CPI(),
		SimulatedTime: c.freq.NCyclesLater(int(pipeStats.Cycles), 0),
	}
}

// Reset restores the initial state. Observers stay registered.
func (c *Core) Reset() {
	c.Pipeline.Reset()
}
