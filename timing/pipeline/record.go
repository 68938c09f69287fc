package pipeline

import (
	"fmt"

	"github.com/sarchlab/tomasim/insts"
)

// Timestamps holds the cycles an instruction reached each stage.
// Cycles start at 1, so a zero field means the stage has not been reached.
type Timestamps struct {
	Issue     uint64
	ExecStart uint64
	Complete  uint64
	WriteBack uint64
}

// Issued returns true once the instruction has issued.
func (t Timestamps) Issued() bool { return t.Issue != 0 }

// Started returns true once execution has started.
func (t Timestamps) Started() bool { return t.ExecStart != 0 }

// Completed returns true once execution has completed.
func (t Timestamps) Completed() bool { return t.Complete != 0 }

// WrittenBack returns true once the result has been written back.
func (t Timestamps) WrittenBack() bool { return t.WriteBack != 0 }

// Record is an instruction together with its stage timestamps.
type Record struct {
	Inst  insts.Instruction
	Times Timestamps
}

// stamp sets a timestamp field. Each field is written once.
func stamp(field *uint64, cycle uint64, what string, idx int) {
	if *field != 0 {
		panic(fmt.Sprintf("pipeline: %s of instruction %d already recorded at cycle %d", what, idx, *field))
	}
	*field = cycle
}
