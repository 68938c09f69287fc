package insts_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	Describe("Op", func() {
		It("should map opcodes to pool categories", func() {
			Expect(insts.OpLD.Category()).To(Equal(insts.CategoryLoad))
			Expect(insts.OpSD.Category()).To(Equal(insts.CategoryStore))
			Expect(insts.OpADDD.Category()).To(Equal(insts.CategoryAdd))
			Expect(insts.OpSUBD.Category()).To(Equal(insts.CategoryAdd))
			Expect(insts.OpMULD.Category()).To(Equal(insts.CategoryMul))
			Expect(insts.OpDIVD.Category()).To(Equal(insts.CategoryMul))
			Expect(insts.OpUnknown.Category()).To(Equal(insts.CategoryNone))
		})

		It("should render mnemonics", func() {
			Expect(insts.OpDIVD.String()).To(Equal("DIV.D"))
			Expect(insts.Op(200).String()).To(Equal("???"))
		})
	})

	Describe("Registers", func() {
		It("should render FP registers with even numerals", func() {
			Expect(insts.FReg(0).String()).To(Equal("F0"))
			Expect(insts.FReg(3).String()).To(Equal("F6"))
			Expect(insts.FReg(15).String()).To(Equal("F30"))
			Expect(insts.NoReg.String()).To(Equal("-"))
		})

		It("should bound integer registers", func() {
			Expect(insts.IntReg(31).Valid()).To(BeTrue())
			Expect(insts.IntReg(32).Valid()).To(BeFalse())
		})
	})

	Describe("Instruction", func() {
		It("should render loads and stores with a memory operand", func() {
			Expect(insts.NewLoad(3, 32, 2).String()).To(Equal("L.D F6, 32(R2)"))
			Expect(insts.NewStore(2, -8, 1).String()).To(Equal("S.D F4, -8(R1)"))
		})

		It("should render arithmetic with three registers", func() {
			inst := insts.NewArith(insts.OpMULD, 0, 1, 2)
			Expect(inst.String()).To(Equal("MUL.D F0, F2, F4"))
		})

		It("should report a destination only for register writers", func() {
			Expect(insts.NewLoad(3, 0, 1).HasDest()).To(BeTrue())
			Expect(insts.NewStore(3, 0, 1).HasDest()).To(BeFalse())
			Expect(insts.NewArith(insts.OpADDD, 1, 2, 3).HasDest()).To(BeTrue())
		})

		It("should validate well-formed records", func() {
			Expect(insts.NewLoad(3, 32, 2).Validate()).To(Succeed())
			Expect(insts.NewStore(3, 32, 2).Validate()).To(Succeed())
			Expect(insts.NewArith(insts.OpDIVD, 1, 2, 3).Validate()).To(Succeed())
		})

		It("should reject records missing operands", func() {
			bad := []insts.Instruction{
				{Op: insts.OpLD, Rd: insts.NoReg, Base: 1},
				{Op: insts.OpSD, Rs: 2, Base: insts.NoIntReg},
				{Op: insts.OpADDD, Rd: 1, Rs: insts.NoReg, Rt: 2},
				{Op: insts.OpUnknown},
			}
			for _, inst := range bad {
				err := inst.Validate()
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, insts.ErrInvalidInstruction)).To(BeTrue())
			}
		})
	})
})
