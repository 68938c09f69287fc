package pipeline

import (
	"fmt"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
)

// Snapshot is a read-only copy of the pipeline state at the end of a cycle.
type Snapshot struct {
	Cycle uint64

	Records []Record

	AddStations  []ReservationStation
	MulStations  []ReservationStation
	LoadBuffers  []LoadBuffer
	StoreBuffers []StoreBuffer

	RegStatus RegisterStatus
	RegFile   emu.RegFile
	Memory    [emu.MemoryCells]float64

	Stats Statistics
}

// Snapshot copies the current state.
func (p *Pipeline) Snapshot() Snapshot {
	return Snapshot{
		Cycle:        p.cycle,
		Records:      p.Records(),
		AddStations:  append([]ReservationStation(nil), p.addStations[:]...),
		MulStations:  append([]ReservationStation(nil), p.mulStations[:]...),
		LoadBuffers:  append([]LoadBuffer(nil), p.loadBuffers[:]...),
		StoreBuffers: append([]StoreBuffer(nil), p.storeBuffers[:]...),
		RegStatus:    p.regStatus,
		RegFile:      *p.regFile,
		Memory:       p.memory.Cells(),
		Stats:        p.stats,
	}
}

// BusyCount returns the number of busy slots in the pool of kind.
func (s *Snapshot) BusyCount(kind UnitKind) int {
	n := 0
	switch kind {
	case UnitAdd:
		for i := range s.AddStations {
			if s.AddStations[i].Busy {
				n++
			}
		}
	case UnitMul:
		for i := range s.MulStations {
			if s.MulStations[i].Busy {
				n++
			}
		}
	case UnitLoad:
		for i := range s.LoadBuffers {
			if s.LoadBuffers[i].Busy {
				n++
			}
		}
	case UnitStore:
		for i := range s.StoreBuffers {
			if s.StoreBuffers[i].Busy {
				n++
			}
		}
	}
	return n
}

// slot returns the shared state of the slot named by tag.
func (s *Snapshot) slot(tag Tag) *Slot {
	i := int(tag.Index)
	switch tag.Kind {
	case UnitAdd:
		if i < len(s.AddStations) {
			return &s.AddStations[i].Slot
		}
	case UnitMul:
		if i < len(s.MulStations) {
			return &s.MulStations[i].Slot
		}
	case UnitLoad:
		if i < len(s.LoadBuffers) {
			return &s.LoadBuffers[i].Slot
		}
	case UnitStore:
		if i < len(s.StoreBuffers) {
			return &s.StoreBuffers[i].Slot
		}
	}
	return nil
}

// CheckInvariants verifies the scheduler invariants on the snapshot:
// every tag names a busy slot that has not written back, every
// register-result entry names the busy slot targeting that register, and
// every busy slot belongs to an issued, unfinished instruction.
func (s *Snapshot) CheckInvariants() error {
	live := func(tag Tag) error {
		sl := s.slot(tag)
		if sl == nil || !sl.Busy {
			return fmt.Errorf("tag %v names an idle slot", tag)
		}
		if s.Records[sl.InstIdx].Times.WrittenBack() {
			return fmt.Errorf("tag %v names a slot that already wrote back", tag)
		}
		return nil
	}

	for reg, tag := range s.RegStatus {
		if !tag.Valid() {
			continue
		}
		if err := live(tag); err != nil {
			return fmt.Errorf("register %v: %w", insts.FReg(reg), err)
		}
		inst := s.Records[s.slot(tag).InstIdx].Inst
		if !inst.HasDest() || inst.Rd != insts.FReg(reg) {
			return fmt.Errorf("register %v names %v, which does not write it", insts.FReg(reg), tag)
		}
	}

	stations := append(append([]ReservationStation(nil), s.AddStations...), s.MulStations...)
	for i := range stations {
		rs := &stations[i]
		if !rs.Busy {
			continue
		}
		for _, op := range []Operand{rs.J, rs.K} {
			if op.Ready() {
				continue
			}
			if err := live(op.Tag); err != nil {
				return fmt.Errorf("%v operand: %w", rs.Name, err)
			}
		}
	}
	for i := range s.StoreBuffers {
		sb := &s.StoreBuffers[i]
		if sb.Busy && !sb.Data.Ready() {
			if err := live(sb.Data.Tag); err != nil {
				return fmt.Errorf("%v data: %w", sb.Name, err)
			}
		}
	}

	owners := map[int]Tag{}
	check := func(sl *Slot) error {
		if !sl.Busy {
			return nil
		}
		times := s.Records[sl.InstIdx].Times
		if !times.Issued() || times.WrittenBack() {
			return fmt.Errorf("%v holds instruction %d outside its issue window", sl.Name, sl.InstIdx)
		}
		if other, dup := owners[sl.InstIdx]; dup {
			return fmt.Errorf("instruction %d occupies both %v and %v", sl.InstIdx, other, sl.Name)
		}
		owners[sl.InstIdx] = sl.Name
		return nil
	}
	for i := range s.AddStations {
		if err := check(&s.AddStations[i].Slot); err != nil {
			return err
		}
	}
	for i := range s.MulStations {
		if err := check(&s.MulStations[i].Slot); err != nil {
			return err
		}
	}
	for i := range s.LoadBuffers {
		if err := check(&s.LoadBuffers[i].Slot); err != nil {
			return err
		}
	}
	for i := range s.StoreBuffers {
		if err := check(&s.StoreBuffers[i].Slot); err != nil {
			return err
		}
	}

	return nil
}
