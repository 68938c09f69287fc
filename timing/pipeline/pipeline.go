// Package pipeline provides a cycle-stepped Tomasulo scheduler for the
// floating-point instruction subset.
//
// Each cycle runs Issue, Execute and Writeback in that order. Issue is
// in-order and renames source registers through the register-result status
// table. Execute counts down every slot whose operands are ready. Writeback
// computes all finished results from the state at the start of the stage,
// then broadcasts them as one batch and releases their slots.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

// DefaultMaxCycles is the safety cap on simulated cycles.
const DefaultMaxCycles = 2000

// ErrCycleLimit reports that the safety cap stopped the simulation.
var ErrCycleLimit = errors.New("cycle limit reached")

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions written back.
	Instructions uint64
	// Issued is the number of instructions issued.
	Issued uint64
	// StructuralStalls is the number of cycles issue stalled on a full pool.
	StructuralStalls uint64
	// RenamedOperands is the number of source operands that received a tag
	// instead of a value at issue.
	RenamedOperands uint64
	// Broadcasts is the number of results broadcast.
	Broadcasts uint64
	// SupersededWrites is the number of broadcasts that did not update the
	// register file because a later instruction had claimed the register.
	SupersededWrites uint64
	// StoreDataWaits counts cycles a completed store waited for its data.
	StoreDataWaits uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Result describes how a run ended.
type Result struct {
	// Cycles is the last simulated cycle.
	Cycles uint64
	// Completed is true when every instruction was written back.
	Completed bool
	// Unfinished lists the instructions lacking a write-back, in program order.
	Unfinished []int
	// Err is non-nil when the run stopped early: it wraps ErrCycleLimit or
	// emu.ErrAddressOutOfRange.
	Err error
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLatencyTable sets a custom latency table for instruction timing.
func WithLatencyTable(table *latency.Table) PipelineOption {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// WithMaxCycles sets the safety cap on simulated cycles.
func WithMaxCycles(n uint64) PipelineOption {
	return func(p *Pipeline) {
		p.maxCycles = n
	}
}

// WithRegFile sets the initial register file. The pipeline takes ownership.
func WithRegFile(regFile *emu.RegFile) PipelineOption {
	return func(p *Pipeline) {
		p.regFile = regFile
	}
}

// WithMemory sets the initial memory. The pipeline takes ownership.
func WithMemory(memory *emu.Memory) PipelineOption {
	return func(p *Pipeline) {
		p.memory = memory
	}
}

// WithLogger sets the structured logger for pipeline events.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline is a Tomasulo scheduler for one program.
// All state is owned by the Pipeline for the duration of the run.
type Pipeline struct {
	records   []Record
	nextIssue int

	addStations  [NumAddStations]ReservationStation
	mulStations  [NumMulStations]ReservationStation
	loadBuffers  [NumLoadBuffers]LoadBuffer
	storeBuffers [NumStoreBuffers]StoreBuffer

	regStatus RegisterStatus

	// Shared resources
	regFile *emu.RegFile
	memory  *emu.Memory
	lsu     *emu.LoadStoreUnit

	// Reset state
	initRegFile *emu.RegFile
	initMemory  *emu.Memory

	latencyTable *latency.Table
	maxCycles    uint64
	logger       *slog.Logger

	cycle  uint64
	stats  Statistics
	halted bool
	result Result
}

// NewPipeline creates a pipeline for program. Each instruction must pass
// insts.Instruction.Validate; the decoder guarantees this, so an invalid
// record is a programming error and NewPipeline panics.
func NewPipeline(program []insts.Instruction, opts ...PipelineOption) *Pipeline {
	for i, inst := range program {
		if err := inst.Validate(); err != nil {
			panic(fmt.Sprintf("pipeline: instruction %d (%v): %v", i, inst, err))
		}
	}

	p := &Pipeline{
		records:   make([]Record, len(program)),
		maxCycles: DefaultMaxCycles,
	}
	for i, inst := range program {
		p.records[i].Inst = inst
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.regFile == nil {
		p.regFile = emu.NewRegFile()
	}
	if p.memory == nil {
		p.memory = emu.NewMemory()
	}
	if p.latencyTable == nil {
		p.latencyTable = latency.NewTable()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}

	p.lsu = emu.NewLoadStoreUnit(p.regFile, p.memory)
	p.initRegFile = p.regFile.Clone()
	p.initMemory = p.memory.Clone()
	p.initSlots()

	return p
}

func (p *Pipeline) initSlots() {
	for i := range p.addStations {
		p.addStations[i].Name = Tag{Kind: UnitAdd, Index: uint8(i)}
		p.addStations[i].Clear()
	}
	for i := range p.mulStations {
		p.mulStations[i].Name = Tag{Kind: UnitMul, Index: uint8(i)}
		p.mulStations[i].Clear()
	}
	for i := range p.loadBuffers {
		p.loadBuffers[i].Name = Tag{Kind: UnitLoad, Index: uint8(i)}
		p.loadBuffers[i].Clear()
	}
	for i := range p.storeBuffers {
		p.storeBuffers[i].Name = Tag{Kind: UnitStore, Index: uint8(i)}
		p.storeBuffers[i].Clear()
	}
}

// Cycle returns the current cycle. It is 0 before the first Tick.
func (p *Pipeline) Cycle() uint64 {
	return p.cycle
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Halted returns true once the run has ended.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Result returns how the run ended. Valid once Halted returns true.
func (p *Pipeline) Result() Result {
	return p.result
}

// Records returns a copy of the instruction records.
func (p *Pipeline) Records() []Record {
	out := make([]Record, len(p.records))
	copy(out, p.records)
	return out
}

// RegFile returns the live register file.
func (p *Pipeline) RegFile() *emu.RegFile {
	return p.regFile
}

// Memory returns the live memory.
func (p *Pipeline) Memory() *emu.Memory {
	return p.memory
}

// MaxCycles returns the safety cap.
func (p *Pipeline) MaxCycles() uint64 {
	return p.maxCycles
}

// Done returns true when every instruction has been written back.
func (p *Pipeline) Done() bool {
	for i := range p.records {
		if !p.records[i].Times.WrittenBack() {
			return false
		}
	}
	return true
}

// Unfinished returns the indices of instructions lacking a write-back.
func (p *Pipeline) Unfinished() []int {
	var out []int
	for i := range p.records {
		if !p.records[i].Times.WrittenBack() {
			out = append(out, i)
		}
	}
	return out
}

// Run executes the pipeline until every instruction is written back or the
// run halts early.
func (p *Pipeline) Run() Result {
	for !p.halted {
		if p.Done() {
			p.finish()
			break
		}
		p.Tick()
	}
	return p.result
}

// RunCycles executes the pipeline for the specified number of cycles.
// Returns true if still running, false if halted.
func (p *Pipeline) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles && !p.halted; i++ {
		p.Tick()
	}
	return !p.halted
}

// Tick executes one cycle: advance the clock, then Issue, Execute and
// Writeback, then check for completion and the safety cap.
func (p *Pipeline) Tick() {
	if p.halted {
		return
	}

	p.cycle++
	p.stats.Cycles++

	p.issue()
	p.execute()
	if err := p.writeback(); err != nil {
		p.stop(err)
		return
	}

	if p.Done() {
		p.finish()
		return
	}

	if p.cycle >= p.maxCycles {
		unfinished := p.Unfinished()
		p.logger.Warn("cycle limit reached",
			"cycle", p.cycle, "limit", p.maxCycles, "unfinished", unfinished)
		p.stop(fmt.Errorf("%w after %d cycles: unfinished instructions %v",
			ErrCycleLimit, p.cycle, unfinished))
	}
}

func (p *Pipeline) finish() {
	p.halted = true
	p.result = Result{Cycles: p.cycle, Completed: true}
	p.logger.Debug("all instructions written back", "cycle", p.cycle)
}

func (p *Pipeline) stop(err error) {
	p.halted = true
	p.result = Result{
		Cycles:     p.cycle,
		Unfinished: p.Unfinished(),
		Err:        err,
	}
}

// Reset restores the state the pipeline was created with.
func (p *Pipeline) Reset() {
	for i := range p.records {
		p.records[i].Times = Timestamps{}
	}
	p.nextIssue = 0
	p.regStatus = RegisterStatus{}
	*p.regFile = *p.initRegFile
	*p.memory = *p.initMemory
	p.initSlots()
	p.cycle = 0
	p.stats = Statistics{}
	p.halted = false
	p.result = Result{}
}
