package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = emu.NewRegFile()
	})

	It("should reset every FP register to 1.0", func() {
		for i := 0; i < insts.NumFPRegs; i++ {
			Expect(regFile.ReadFP(insts.FReg(i))).To(Equal(1.0))
		}
	})

	It("should preset R1 as the base pointer", func() {
		Expect(regFile.ReadInt(1)).To(Equal(int32(16)))
		Expect(regFile.ReadInt(0)).To(Equal(int32(0)))
		Expect(regFile.ReadInt(2)).To(Equal(int32(0)))
	})

	It("should read back written registers", func() {
		regFile.WriteFP(3, 2.5)
		regFile.WriteInt(5, -40)

		Expect(regFile.ReadFP(3)).To(Equal(2.5))
		Expect(regFile.ReadInt(5)).To(Equal(int32(-40)))
	})

	It("should ignore invalid registers", func() {
		regFile.WriteFP(insts.NoReg, 9)
		regFile.WriteInt(insts.NoIntReg, 9)

		Expect(regFile.ReadFP(insts.NoReg)).To(Equal(0.0))
		Expect(regFile.ReadInt(insts.NoIntReg)).To(Equal(int32(0)))
	})

	It("should clone independently", func() {
		clone := regFile.Clone()
		clone.WriteFP(0, 7)

		Expect(regFile.ReadFP(0)).To(Equal(1.0))
		Expect(clone.ReadFP(0)).To(Equal(7.0))
	})

	It("should restore the reset state", func() {
		regFile.WriteFP(2, 3)
		regFile.WriteInt(1, 0)
		regFile.Reset()

		Expect(regFile.ReadFP(2)).To(Equal(1.0))
		Expect(regFile.ReadInt(1)).To(Equal(int32(16)))
	})
})
