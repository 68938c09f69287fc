// Package insts provides the floating-point instruction subset simulated by
// TomaSim and a decoder for its assembly-like text form.
//
// It supports:
//   - Memory: L.D, S.D with a base+offset operand
//   - Arithmetic: ADD.D, SUB.D, MUL.D, DIV.D on three FP registers
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, ok := decoder.DecodeLine("L.D F6, 32(R2)")
//	fmt.Printf("Op: %v, Rd: %v, Base: R%d, Offset: %d\n", inst.Op, inst.Rd, inst.Base, inst.Offset)
package insts

import (
	"errors"
	"fmt"
)

// Op represents a floating-point opcode.
type Op uint8

// Floating-point opcodes.
const (
	OpUnknown Op = iota
	OpLD         // L.D
	OpSD         // S.D
	OpADDD       // ADD.D
	OpSUBD       // SUB.D
	OpMULD       // MUL.D
	OpDIVD       // DIV.D
)

var opNames = [...]string{
	OpUnknown: "???",
	OpLD:      "L.D",
	OpSD:      "S.D",
	OpADDD:    "ADD.D",
	OpSUBD:    "SUB.D",
	OpMULD:    "MUL.D",
	OpDIVD:    "DIV.D",
}

// String returns the assembler mnemonic.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OpUnknown]
}

// Category groups opcodes by the functional-unit pool that executes them.
type Category uint8

// Functional-unit categories.
const (
	CategoryNone  Category = iota
	CategoryLoad           // load buffers
	CategoryStore          // store buffers
	CategoryAdd            // add/subtract reservation stations
	CategoryMul            // multiply/divide reservation stations
)

// Category returns the pool category that executes the opcode.
func (op Op) Category() Category {
	switch op {
	case OpLD:
		return CategoryLoad
	case OpSD:
		return CategoryStore
	case OpADDD, OpSUBD:
		return CategoryAdd
	case OpMULD, OpDIVD:
		return CategoryMul
	default:
		return CategoryNone
	}
}


// NumFPRegs is the number of architectural floating-point registers.
// Register i is written F(2*i) in assembly.
const NumFPRegs = 16

// NumIntRegs is the number of integer registers.
const NumIntRegs = 32

// FReg is an architectural floating-point register index in [0, NumFPRegs).
type FReg uint8

// NoReg marks an absent register operand.
const NoReg FReg = 0xFF

// Valid returns true if r names an architectural register.
func (r FReg) Valid() bool {
	return r < NumFPRegs
}

// String renders the register with its assembly numeral (F0, F2, ... F30).
func (r FReg) String() string {
	if !r.Valid() {
		return "-"
	}
	return fmt.Sprintf("F%d", int(r)*2)
}

// IntReg is an integer register index in [0, NumIntRegs).
type IntReg uint8

// NoIntReg marks an absent base register.
const NoIntReg IntReg = 0xFF

// Valid returns true if r names an integer register.
func (r IntReg) Valid() bool {
	return r < NumIntRegs
}

// String renders the register as R<n>.
func (r IntReg) String() string {
	if !r.Valid() {
		return "-"
	}
	return fmt.Sprintf("R%d", r)
}

// Instruction represents a decoded floating-point instruction.
//
// L.D writes Rd from memory; S.D reads Rs and writes memory. Arithmetic
// instructions compute Rd = Rs op Rt. Unused operands hold NoReg/NoIntReg.
type Instruction struct {
	Op Op

	Rd FReg // Destination register
	Rs FReg // First source register (store data for S.D)
	Rt FReg // Second source register

	Base   IntReg // Base register for memory operands
	Offset int32  // Byte offset for memory operands
}

// NewLoad builds an L.D instruction.
func NewLoad(rd FReg, offset int32, base IntReg) Instruction {
	return Instruction{Op: OpLD, Rd: rd, Rs: NoReg, Rt: NoReg, Base: base, Offset: offset}
}

// NewStore builds an S.D instruction.
func NewStore(rs FReg, offset int32, base IntReg) Instruction {
	return Instruction{Op: OpSD, Rd: NoReg, Rs: rs, Rt: NoReg, Base: base, Offset: offset}
}

// NewArith builds one of ADD.D, SUB.D, MUL.D, DIV.D.
func NewArith(op Op, rd, rs, rt FReg) Instruction {
	return Instruction{Op: op, Rd: rd, Rs: rs, Rt: rt, Base: NoIntReg}
}

// HasDest returns true if the instruction writes a floating-point register.
func (i Instruction) HasDest() bool {
	return i.Op != OpSD && i.Rd.Valid()
}

// ErrInvalidInstruction is returned by Validate for malformed records.
var ErrInvalidInstruction = errors.New("invalid instruction")

// Validate checks that every operand the opcode requires is present.
func (i Instruction) Validate() error {
	switch i.Op {
	case OpLD:
		if !i.Rd.Valid() || !i.Base.Valid() {
			return fmt.Errorf("%w: L.D needs a destination and a base register", ErrInvalidInstruction)
		}
	case OpSD:
		if !i.Rs.Valid() || !i.Base.Valid() {
			return fmt.Errorf("%w: S.D needs a data and a base register", ErrInvalidInstruction)
		}
	case OpADDD, OpSUBD, OpMULD, OpDIVD:
		if !i.Rd.Valid() || !i.Rs.Valid() || !i.Rt.Valid() {
			return fmt.Errorf("%w: %v needs three FP registers", ErrInvalidInstruction, i.Op)
		}
	default:
		return fmt.Errorf("%w: unknown opcode %d", ErrInvalidInstruction, i.Op)
	}
	return nil
}

// String renders the instruction in assembly form, e.g. "L.D F6, 32(R2)".
func (i Instruction) String() string {
	switch i.Op {
	case OpLD:
		return fmt.Sprintf("%s %v, %d(%v)", i.Op, i.Rd, i.Offset, i.Base)
	case OpSD:
		return fmt.Sprintf("%s %v, %d(%v)", i.Op, i.Rs, i.Offset, i.Base)
	case OpADDD, OpSUBD, OpMULD, OpDIVD:
		return fmt.Sprintf("%s %v, %v, %v", i.Op, i.Rd, i.Rs, i.Rt)
	default:
		return i.Op.String()
	}
}
