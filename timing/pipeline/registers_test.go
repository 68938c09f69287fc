package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

var _ = Describe("Slots", func() {
	add2 := pipeline.Tag{Kind: pipeline.UnitAdd, Index: 1}
	store1 := pipeline.Tag{Kind: pipeline.UnitStore, Index: 0}

	Describe("Tag", func() {
		It("should render slot names", func() {
			Expect(add2.String()).To(Equal("Add2"))
			Expect(store1.String()).To(Equal("Store1"))
			Expect(pipeline.Tag{Kind: pipeline.UnitMul, Index: 1}.String()).To(Equal("Mul2"))
			Expect(pipeline.Tag{Kind: pipeline.UnitLoad}.String()).To(Equal("Load1"))
			Expect(pipeline.NoTag.String()).To(Equal("-"))
		})

		It("should treat the zero tag as empty", func() {
			Expect(pipeline.NoTag.Valid()).To(BeFalse())
			Expect(add2.Valid()).To(BeTrue())
		})
	})

	Describe("Operand", func() {
		It("should resolve only for the awaited producer", func() {
			op := pipeline.Operand{Tag: add2}
			Expect(op.Ready()).To(BeFalse())
			Expect(op.String()).To(Equal("Add2"))

			Expect(op.Resolve(store1, 3)).To(BeFalse())
			Expect(op.Ready()).To(BeFalse())

			Expect(op.Resolve(add2, 3)).To(BeTrue())
			Expect(op.Ready()).To(BeTrue())
			Expect(op.Value).To(Equal(3.0))
			Expect(op.String()).To(Equal("3.00"))
		})

		It("should ignore broadcasts once ready", func() {
			op := pipeline.Operand{Value: 1}
			Expect(op.Resolve(add2, 5)).To(BeFalse())
			Expect(op.Value).To(Equal(1.0))
		})
	})

	Describe("RegisterStatus", func() {
		var status pipeline.RegisterStatus

		BeforeEach(func() {
			status = pipeline.RegisterStatus{}
		})

		It("should let the newest claim win", func() {
			status.Claim(2, add2)
			status.Claim(2, store1)
			Expect(status.Producer(2)).To(Equal(store1))
		})

		It("should release only for the recorded producer", func() {
			status.Claim(2, add2)
			Expect(status.Release(2, store1)).To(BeFalse())
			Expect(status.Pending(2)).To(BeTrue())

			Expect(status.Release(2, add2)).To(BeTrue())
			Expect(status.Pending(2)).To(BeFalse())
		})

		It("should ignore invalid registers", func() {
			status.Claim(insts.NoReg, add2)
			Expect(status.Producer(insts.NoReg)).To(Equal(pipeline.NoTag))
			Expect(status.Release(insts.NoReg, add2)).To(BeFalse())
		})
	})

	Describe("Clear", func() {
		It("should keep the slot name and drop everything else", func() {
			rs := pipeline.ReservationStation{}
			rs.Name = add2
			rs.Busy = true
			rs.InstIdx = 4
			rs.J = pipeline.Operand{Tag: store1}
			rs.Dest = 3

			rs.Clear()

			Expect(rs.Name).To(Equal(add2))
			Expect(rs.Busy).To(BeFalse())
			Expect(rs.InstIdx).To(Equal(-1))
			Expect(rs.J).To(Equal(pipeline.Operand{}))
			Expect(rs.Dest).To(Equal(insts.NoReg))
		})
	})
})
