package pipeline

import (
	"fmt"

	"github.com/sarchlab/tomasim/insts"
)

// Pool capacities.
const (
	NumAddStations  = 3
	NumMulStations  = 2
	NumLoadBuffers  = 2
	NumStoreBuffers = 2
)

// UnitKind identifies a functional-unit pool.
type UnitKind uint8

// Functional-unit pools.
const (
	UnitNone UnitKind = iota
	UnitAdd
	UnitMul
	UnitLoad
	UnitStore
)

var unitKindNames = [...]string{
	UnitNone:  "None",
	UnitAdd:   "Add",
	UnitMul:   "Mul",
	UnitLoad:  "Load",
	UnitStore: "Store",
}

// String returns the pool name used as a slot-name prefix.
func (k UnitKind) String() string {
	if int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return unitKindNames[UnitNone]
}

// Tag names a producer slot. The zero Tag names nothing.
type Tag struct {
	Kind  UnitKind
	Index uint8
}

// NoTag is the empty tag.
var NoTag = Tag{}

// Valid returns true if the tag names a slot.
func (t Tag) Valid() bool {
	return t.Kind != UnitNone
}

// String renders the slot name, e.g. "Add1" or "Store2". NoTag renders "-".
func (t Tag) String() string {
	if !t.Valid() {
		return "-"
	}
	return fmt.Sprintf("%s%d", t.Kind, t.Index+1)
}

// Operand holds either a ready value or the tag of its pending producer.
type Operand struct {
	Value float64
	Tag   Tag
}

// Ready returns true when the value is available.
func (o Operand) Ready() bool {
	return !o.Tag.Valid()
}

// Resolve delivers value if the operand waits on producer.
// Returns true if the operand was waiting on producer.
func (o *Operand) Resolve(producer Tag, value float64) bool {
	if !o.Tag.Valid() || o.Tag != producer {
		return false
	}
	o.Value = value
	o.Tag = NoTag
	return true
}

// String renders the value, or the pending tag.
func (o Operand) String() string {
	if o.Ready() {
		return fmt.Sprintf("%.2f", o.Value)
	}
	return o.Tag.String()
}

// Slot is the state shared by reservation stations and load/store buffers.
type Slot struct {
	// Name is the stable identity of the slot.
	Name Tag

	// Busy indicates the slot holds an issued instruction.
	Busy bool

	// Op is the operation of the owning instruction.
	Op insts.Op

	// InstIdx is the index of the owning instruction in program order.
	InstIdx int

	// Remaining counts the execution cycles left after the start cycle.
	Remaining uint64

	// IssuedAt is the cycle the owning instruction issued in.
	IssuedAt uint64
}

func (s *Slot) claim(op insts.Op, instIdx int, countdown, cycle uint64) {
	s.Busy = true
	s.Op = op
	s.InstIdx = instIdx
	s.Remaining = countdown
	s.IssuedAt = cycle
}

func (s *Slot) clear() {
	*s = Slot{Name: s.Name, InstIdx: -1}
}

// ReservationStation holds an arithmetic operation and its two operands.
type ReservationStation struct {
	Slot

	// J and K are the first and second source operands (Vj/Qj, Vk/Qk).
	J Operand
	K Operand

	// Dest is the FP register the result is broadcast for.
	Dest insts.FReg
}

// OperandsReady returns true when neither operand waits on a producer.
func (rs *ReservationStation) OperandsReady() bool {
	return rs.J.Ready() && rs.K.Ready()
}

// Clear resets the station to empty state.
func (rs *ReservationStation) Clear() {
	rs.Slot.clear()
	rs.J = Operand{}
	rs.K = Operand{}
	rs.Dest = insts.NoReg
}

// LoadBuffer holds an L.D address and its destination register.
type LoadBuffer struct {
	Slot

	Base   insts.IntReg
	Offset int32
	Dest   insts.FReg
}

// Clear resets the buffer to empty state.
func (lb *LoadBuffer) Clear() {
	lb.Slot.clear()
	lb.Base = insts.NoIntReg
	lb.Offset = 0
	lb.Dest = insts.NoReg
}

// StoreBuffer holds an S.D address and the data to be written.
type StoreBuffer struct {
	Slot

	Base   insts.IntReg
	Offset int32

	// Data is the value to store, or the tag of its pending producer.
	Data Operand
}

// Clear resets the buffer to empty state.
func (sb *StoreBuffer) Clear() {
	sb.Slot.clear()
	sb.Base = insts.NoIntReg
	sb.Offset = 0
	sb.Data = Operand{}
}
