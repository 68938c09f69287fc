// Package latency provides instruction timing models for cycle-accurate simulation.
//
// The latency values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/tomasim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given opcode.
func (t *Table) GetLatency(op insts.Op) uint64 {
	switch op {
	case insts.OpLD:
		return t.config.LoadLatency
	case insts.OpSD:
		return t.config.StoreLatency
	case insts.OpADDD, insts.OpSUBD:
		return t.config.AddLatency
	case insts.OpMULD:
		return t.config.MultiplyLatency
	case insts.OpDIVD:
		return t.config.DivideLatency
	default:
		return 1
	}
}

// CountdownAfterStart returns how many countdown ticks follow the cycle
// execution starts in. The start cycle is the first execution cycle, so an
// op of latency L completes L-1 cycles after it starts. The count is never
// below 1: completion always falls strictly after the start cycle.
func (t *Table) CountdownAfterStart(op insts.Op) uint64 {
	lat := t.GetLatency(op)
	if lat <= 1 {
		return 1
	}
	return lat - 1
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
