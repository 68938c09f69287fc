package pipeline

// execute advances every busy slot whose operands are ready. A slot never
// starts in the cycle it issued. The first eligible cycle records the start
// without ticking; each later eligible cycle ticks the countdown, and the
// tick that reaches zero records completion.
//
// Stores only need their address operands, which are integer registers and
// always ready, so their data may still be pending at completion.
func (p *Pipeline) execute() {
	for i := range p.addStations {
		rs := &p.addStations[i]
		p.advance(&rs.Slot, rs.OperandsReady())
	}
	for i := range p.mulStations {
		rs := &p.mulStations[i]
		p.advance(&rs.Slot, rs.OperandsReady())
	}
	for i := range p.loadBuffers {
		p.advance(&p.loadBuffers[i].Slot, true)
	}
	for i := range p.storeBuffers {
		p.advance(&p.storeBuffers[i].Slot, true)
	}
}

func (p *Pipeline) advance(s *Slot, ready bool) {
	if !s.Busy || !ready || s.IssuedAt >= p.cycle {
		return
	}

	times := &p.records[s.InstIdx].Times
	if times.Completed() {
		return
	}

	if !times.Started() {
		stamp(&times.ExecStart, p.cycle, "exec start", s.InstIdx)
		p.logger.Debug("exec start", "cycle", p.cycle, "inst", s.InstIdx, "slot", s.Name.String())
		return
	}

	if s.Remaining > 0 {
		s.Remaining--
	}
	if s.Remaining == 0 {
		stamp(&times.Complete, p.cycle, "completion", s.InstIdx)
		p.logger.Debug("exec complete", "cycle", p.cycle, "inst", s.InstIdx, "slot", s.Name.String())
	}
}
