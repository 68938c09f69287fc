package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/report"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

var _ = Describe("StateTree", func() {
	It("should list busy slots with their operands", func() {
		p := pipeline.NewPipeline(program("L.D F2, 0(R1)", "MUL.D F0, F2, F4", "S.D F0, 8(R1)"))
		p.RunCycles(3)

		tree := report.StateTree(p.Snapshot())

		Expect(tree).To(HavePrefix("cycle 3"))
		Expect(tree).To(ContainSubstring("reservation stations (1 busy)"))
		Expect(tree).To(ContainSubstring("Mul1: MUL.D F0, F2, F4"))
		Expect(tree).To(ContainSubstring("j=Load1"))
		Expect(tree).To(ContainSubstring("k=1.00"))
		Expect(tree).To(ContainSubstring("Store1: S.D F0, 8(R1)"))
		Expect(tree).To(ContainSubstring("data=Mul1"))
		Expect(tree).To(ContainSubstring("F2 <- Load1"))
		Expect(tree).To(ContainSubstring("F0 <- Mul1"))
		Expect(tree).To(ContainSubstring("Add3"))
	})

	It("should show no pending registers when idle", func() {
		p := pipeline.NewPipeline(nil)

		tree := report.StateTree(p.Snapshot())

		Expect(tree).To(ContainSubstring("pending registers"))
		Expect(tree).NotTo(ContainSubstring("<-"))
	})
})
