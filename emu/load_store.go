package emu

import "github.com/sarchlab/tomasim/insts"

// LoadStoreUnit performs L.D and S.D memory accesses.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// EffectiveAddress computes R[base] + offset.
func (lsu *LoadStoreUnit) EffectiveAddress(base insts.IntReg, offset int32) int64 {
	return int64(lsu.regFile.ReadInt(base)) + int64(offset)
}

// Load reads mem[R[base] + offset].
func (lsu *LoadStoreUnit) Load(base insts.IntReg, offset int32) (float64, error) {
	return lsu.memory.Read(lsu.EffectiveAddress(base, offset))
}

// Store writes value to mem[R[base] + offset].
func (lsu *LoadStoreUnit) Store(base insts.IntReg, offset int32, value float64) error {
	return lsu.memory.Write(lsu.EffectiveAddress(base, offset), value)
}
