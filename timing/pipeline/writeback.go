package pipeline

import (
	"fmt"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
)

// broadcast is one result on the common data bus.
type broadcast struct {
	producer Tag
	value    float64
	dest     insts.FReg
}

// memWrite is one store committed to memory this cycle.
type memWrite struct {
	base   insts.IntReg
	offset int32
	value  float64
}

// writeback finishes every slot whose completion precedes this cycle.
//
// All results are computed from the state at the start of the stage:
// loads read memory before any store of this cycle lands, and a store
// whose data arrives by broadcast this cycle writes next cycle. Memory
// writes and broadcasts are then applied as one batch, and the finished
// slots are released last, so no slot is reused before every broadcast
// naming it has been delivered.
func (p *Pipeline) writeback() error {
	var (
		broadcasts []broadcast
		writes     []memWrite
		released   []*Slot
	)

	for i := range p.addStations {
		rs := &p.addStations[i]
		if !p.canWriteBack(&rs.Slot) {
			continue
		}
		broadcasts = append(broadcasts, broadcast{rs.Name, compute(rs.Op, rs.J.Value, rs.K.Value), rs.Dest})
		released = append(released, &rs.Slot)
	}
	for i := range p.mulStations {
		rs := &p.mulStations[i]
		if !p.canWriteBack(&rs.Slot) {
			continue
		}
		broadcasts = append(broadcasts, broadcast{rs.Name, compute(rs.Op, rs.J.Value, rs.K.Value), rs.Dest})
		released = append(released, &rs.Slot)
	}
	for i := range p.loadBuffers {
		lb := &p.loadBuffers[i]
		if !p.canWriteBack(&lb.Slot) {
			continue
		}
		value, err := p.lsu.Load(lb.Base, lb.Offset)
		if err != nil {
			return fmt.Errorf("instruction %d (%v): %w", lb.InstIdx, p.records[lb.InstIdx].Inst, err)
		}
		broadcasts = append(broadcasts, broadcast{lb.Name, value, lb.Dest})
		released = append(released, &lb.Slot)
	}
	for i := range p.storeBuffers {
		sb := &p.storeBuffers[i]
		if !p.canWriteBack(&sb.Slot) {
			continue
		}
		if !sb.Data.Ready() {
			p.stats.StoreDataWaits++
			continue
		}
		addr := p.lsu.EffectiveAddress(sb.Base, sb.Offset)
		if _, err := emu.CellIndex(addr); err != nil {
			return fmt.Errorf("instruction %d (%v): %w", sb.InstIdx, p.records[sb.InstIdx].Inst, err)
		}
		writes = append(writes, memWrite{sb.Base, sb.Offset, sb.Data.Value})
		released = append(released, &sb.Slot)
	}

	for _, s := range released {
		stamp(&p.records[s.InstIdx].Times.WriteBack, p.cycle, "write-back", s.InstIdx)
		p.stats.Instructions++
		p.logger.Debug("write-back", "cycle", p.cycle, "inst", s.InstIdx, "slot", s.Name.String())
	}

	for _, w := range writes {
		if err := p.lsu.Store(w.base, w.offset, w.value); err != nil {
			return err
		}
	}
	for _, b := range broadcasts {
		p.deliver(b)
	}

	for _, s := range released {
		p.release(s)
	}

	return nil
}

// canWriteBack reports whether s completed in an earlier cycle and has not
// written back yet.
func (p *Pipeline) canWriteBack(s *Slot) bool {
	if !s.Busy {
		return false
	}
	times := p.records[s.InstIdx].Times
	return times.Completed() && times.Complete < p.cycle && !times.WrittenBack()
}

// deliver applies one broadcast to the register file, the register-result
// status table and every waiting operand.
func (p *Pipeline) deliver(b broadcast) {
	p.stats.Broadcasts++

	if p.regStatus.Release(b.dest, b.producer) {
		p.regFile.WriteFP(b.dest, b.value)
	} else {
		p.stats.SupersededWrites++
	}

	for i := range p.addStations {
		p.resolveStation(&p.addStations[i], b)
	}
	for i := range p.mulStations {
		p.resolveStation(&p.mulStations[i], b)
	}
	for i := range p.storeBuffers {
		sb := &p.storeBuffers[i]
		if sb.Busy {
			sb.Data.Resolve(b.producer, b.value)
		}
	}

	p.logger.Debug("broadcast", "cycle", p.cycle, "producer", b.producer.String(),
		"dest", b.dest.String(), "value", b.value)
}

func (p *Pipeline) resolveStation(rs *ReservationStation, b broadcast) {
	if !rs.Busy {
		return
	}
	rs.J.Resolve(b.producer, b.value)
	rs.K.Resolve(b.producer, b.value)
}

func (p *Pipeline) release(s *Slot) {
	switch s.Name.Kind {
	case UnitAdd:
		p.addStations[s.Name.Index].Clear()
	case UnitMul:
		p.mulStations[s.Name.Index].Clear()
	case UnitLoad:
		p.loadBuffers[s.Name.Index].Clear()
	case UnitStore:
		p.storeBuffers[s.Name.Index].Clear()
	}
}

// compute evaluates an arithmetic op.
func compute(op insts.Op, j, k float64) float64 {
	switch op {
	case insts.OpADDD:
		return j + k
	case insts.OpSUBD:
		return j - k
	case insts.OpMULD:
		return j * k
	case insts.OpDIVD:
		return j / k
	default:
		panic(fmt.Sprintf("pipeline: %v is not an arithmetic op", op))
	}
}
