// Package emu provides the architectural state of the simulated machine:
// the register file and the flat double-precision memory.
package emu

import "github.com/sarchlab/tomasim/insts"

// BasePointerReg is the integer register preset as a base pointer.
const BasePointerReg insts.IntReg = 1

// BasePointerValue is the reset value of BasePointerReg.
const BasePointerValue int32 = 16

// FPResetValue is the reset value of every floating-point register.
const FPResetValue = 1.0

// RegFile represents the register file.
// It contains 32 integer registers (R0-R31) and 16 architectural
// floating-point registers (F0, F2, ..., F30).
type RegFile struct {
	// R holds integer registers R0-R31.
	R [insts.NumIntRegs]int32

	// F holds floating-point registers; F[i] is written F(2*i) in assembly.
	F [insts.NumFPRegs]float64
}

// NewRegFile returns a register file in its reset state: every FP register
// holds 1.0 and R1 holds the base pointer 16.
func NewRegFile() *RegFile {
	r := &RegFile{}
	r.Reset()
	return r
}

// Reset restores the reset state.
func (r *RegFile) Reset() {
	*r = RegFile{}
	r.R[BasePointerReg] = BasePointerValue
	for i := range r.F {
		r.F[i] = FPResetValue
	}
}

// ReadInt reads an integer register. Invalid registers read as 0.
func (r *RegFile) ReadInt(reg insts.IntReg) int32 {
	if !reg.Valid() {
		return 0
	}
	return r.R[reg]
}

// WriteInt writes an integer register. Writes to invalid registers are ignored.
func (r *RegFile) WriteInt(reg insts.IntReg, value int32) {
	if !reg.Valid() {
		return
	}
	r.R[reg] = value
}

// ReadFP reads a floating-point register. Invalid registers read as 0.
func (r *RegFile) ReadFP(reg insts.FReg) float64 {
	if !reg.Valid() {
		return 0
	}
	return r.F[reg]
}

// WriteFP writes a floating-point register. Writes to invalid registers are ignored.
func (r *RegFile) WriteFP(reg insts.FReg, value float64) {
	if !reg.Valid() {
		return
	}
	r.F[reg] = value
}

// Clone returns a copy of the register file.
func (r *RegFile) Clone() *RegFile {
	c := *r
	return &c
}
