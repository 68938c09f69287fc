package pipeline

import (
	"github.com/sarchlab/tomasim/insts"
)

// issue dispatches the oldest unissued instruction if its pool has a free
// slot. A full pool stalls issue for this cycle; no younger instruction may
// bypass it.
func (p *Pipeline) issue() {
	if p.nextIssue >= len(p.records) {
		return
	}

	idx := p.nextIssue
	rec := &p.records[idx]
	inst := rec.Inst

	var name Tag
	switch inst.Op.Category() {
	case insts.CategoryLoad:
		lb := p.freeLoadBuffer()
		if lb == nil {
			p.stall(idx, inst)
			return
		}
		p.claim(&lb.Slot, inst.Op, idx)
		lb.Base = inst.Base
		lb.Offset = inst.Offset
		lb.Dest = inst.Rd
		name = lb.Name

	case insts.CategoryStore:
		sb := p.freeStoreBuffer()
		if sb == nil {
			p.stall(idx, inst)
			return
		}
		p.claim(&sb.Slot, inst.Op, idx)
		sb.Base = inst.Base
		sb.Offset = inst.Offset
		sb.Data = p.readOperand(inst.Rs)
		name = sb.Name

	case insts.CategoryAdd, insts.CategoryMul:
		rs := p.freeStation(inst.Op.Category())
		if rs == nil {
			p.stall(idx, inst)
			return
		}
		p.claim(&rs.Slot, inst.Op, idx)
		rs.J = p.readOperand(inst.Rs)
		rs.K = p.readOperand(inst.Rt)
		rs.Dest = inst.Rd
		name = rs.Name

	default:
		panic("pipeline: unreachable opcode category")
	}

	// Sources are read before the destination is claimed so an instruction
	// that reads its own destination sees the previous producer.
	if inst.HasDest() {
		p.regStatus.Claim(inst.Rd, name)
	}

	stamp(&rec.Times.Issue, p.cycle, "issue", idx)
	p.nextIssue++
	p.stats.Issued++

	p.logger.Debug("issue", "cycle", p.cycle, "inst", idx, "asm", inst.String(), "slot", name.String())
}

func (p *Pipeline) claim(s *Slot, op insts.Op, idx int) {
	s.claim(op, idx, p.latencyTable.CountdownAfterStart(op), p.cycle)
}

func (p *Pipeline) stall(idx int, inst insts.Instruction) {
	p.stats.StructuralStalls++
	p.logger.Debug("structural stall", "cycle", p.cycle, "inst", idx, "asm", inst.String())
}

// readOperand returns the tag of reg's pending producer, or its current
// value when no producer is pending.
func (p *Pipeline) readOperand(reg insts.FReg) Operand {
	if producer := p.regStatus.Producer(reg); producer.Valid() {
		p.stats.RenamedOperands++
		return Operand{Tag: producer}
	}
	return Operand{Value: p.regFile.ReadFP(reg)}
}

func (p *Pipeline) freeStation(category insts.Category) *ReservationStation {
	pool := p.addStations[:]
	if category == insts.CategoryMul {
		pool = p.mulStations[:]
	}
	for i := range pool {
		if !pool[i].Busy {
			return &pool[i]
		}
	}
	return nil
}

func (p *Pipeline) freeLoadBuffer() *LoadBuffer {
	for i := range p.loadBuffers {
		if !p.loadBuffers[i].Busy {
			return &p.loadBuffers[i]
		}
	}
	return nil
}

func (p *Pipeline) freeStoreBuffer() *StoreBuffer {
	for i := range p.storeBuffers {
		if !p.storeBuffers[i].Busy {
			return &p.storeBuffers[i]
		}
	}
	return nil
}
