package insts_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Memory instructions", func() {
		It("should decode L.D F6,32(R2)", func() {
			inst, ok := decoder.DecodeLine("L.D F6,32(R2)")

			Expect(ok).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpLD))
			Expect(inst.Rd).To(Equal(insts.FReg(3)))
			Expect(inst.Rs).To(Equal(insts.NoReg))
			Expect(inst.Base).To(Equal(insts.IntReg(2)))
			Expect(inst.Offset).To(Equal(int32(32)))
		})

		It("should decode S.D with a negative offset", func() {
			inst, ok := decoder.DecodeLine("S.D F4, -16(R1)")

			Expect(ok).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpSD))
			Expect(inst.Rs).To(Equal(insts.FReg(2)))
			Expect(inst.Rd).To(Equal(insts.NoReg))
			Expect(inst.Base).To(Equal(insts.IntReg(1)))
			Expect(inst.Offset).To(Equal(int32(-16)))
		})

		It("should reject a memory operand without a base", func() {
			_, ok := decoder.DecodeLine("L.D F2, 32")
			Expect(ok).To(BeFalse())
		})

		It("should reject an out-of-range integer register", func() {
			_, ok := decoder.DecodeLine("L.D F2, 0(R32)")
			Expect(ok).To(BeFalse())
		})

		It("should reject trailing text after the base register", func() {
			_, ok := decoder.DecodeLine("L.D F2, 0(R1)x")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Arithmetic instructions", func() {
		DescribeTable("should decode each mnemonic",
			func(line string, op insts.Op) {
				inst, ok := decoder.DecodeLine(line)

				Expect(ok).To(BeTrue())
				Expect(inst.Op).To(Equal(op))
				Expect(inst.Rd).To(Equal(insts.FReg(0)))
				Expect(inst.Rs).To(Equal(insts.FReg(1)))
				Expect(inst.Rt).To(Equal(insts.FReg(2)))
				Expect(inst.Base).To(Equal(insts.NoIntReg))
			},
			Entry("ADD.D", "ADD.D F0, F2, F4", insts.OpADDD),
			Entry("SUB.D", "SUB.D F0 F2 F4", insts.OpSUBD),
			Entry("MUL.D", "MUL.D F0,F2,F4", insts.OpMULD),
			Entry("DIV.D", "DIV.D\tF0,\tF2,\tF4", insts.OpDIVD),
			Entry("lower case", "mul.d f0, f2, f4", insts.OpMULD),
		)

		It("should reject odd FP registers", func() {
			_, ok := decoder.DecodeLine("ADD.D F1, F2, F4")
			Expect(ok).To(BeFalse())
		})

		It("should reject FP registers above F30", func() {
			_, ok := decoder.DecodeLine("ADD.D F32, F2, F4")
			Expect(ok).To(BeFalse())
		})

		It("should reject a wrong operand count", func() {
			_, ok := decoder.DecodeLine("ADD.D F0, F2")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Whole sources", func() {
		It("should drop malformed and unknown lines silently", func() {
			src := strings.Join([]string{
				"L.D F6, 34(R2)",
				"",
				"BNEZ R1, loop",
				"MUL.D F0, F2, F4",
				"garbage",
			}, "\n")

			list := decoder.DecodeString(src)

			Expect(list).To(HaveLen(2))
			Expect(list[0].Op).To(Equal(insts.OpLD))
			Expect(list[1].Op).To(Equal(insts.OpMULD))
		})

		It("should report skipped non-blank lines with line numbers", func() {
			src := "L.D F6, 34(R2)\n\n   \nJUMP 4\nADD.D F2, F2, F2\n"

			list, skipped, err := decoder.DecodeReader(strings.NewReader(src))

			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(skipped).To(Equal([]insts.SkippedLine{{Number: 4, Text: "JUMP 4"}}))
		})

		It("should surface read failures", func() {
			_, _, err := decoder.DecodeReader(failingReader{})
			Expect(err).To(MatchError(ContainSubstring("disk on fire")))
		})
	})
})
