package pipeline

import "github.com/sarchlab/tomasim/insts"

// RegisterStatus is the register-result status table. Entry r names the
// slot that will produce the next value of FP register r, or NoTag when the
// register file holds the current value.
type RegisterStatus [insts.NumFPRegs]Tag

// Producer returns the pending producer of reg, or NoTag.
func (s RegisterStatus) Producer(reg insts.FReg) Tag {
	if !reg.Valid() {
		return NoTag
	}
	return s[reg]
}

// Pending returns true if reg awaits a broadcast.
func (s RegisterStatus) Pending(reg insts.FReg) bool {
	return s.Producer(reg).Valid()
}

// Claim records producer as the newest writer of reg, replacing any
// earlier producer.
func (s *RegisterStatus) Claim(reg insts.FReg, producer Tag) {
	if !reg.Valid() {
		return
	}
	s[reg] = producer
}

// Release clears the entry for reg if it still names producer.
// Returns true if the entry matched, meaning producer's value is the
// architectural value of reg.
func (s *RegisterStatus) Release(reg insts.FReg, producer Tag) bool {
	if !reg.Valid() || s[reg] != producer {
		return false
	}
	s[reg] = NoTag
	return true
}
