package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/timing/pipeline"
)

// mixed exercises every pool with renaming, stalls and pending store data.
var mixed = []string{
	"L.D F6, 32(R2)",
	"L.D F2, 8(R1)",
	"MUL.D F0, F2, F4",
	"SUB.D F8, F6, F2",
	"DIV.D F10, F0, F6",
	"ADD.D F6, F8, F2",
	"S.D F6, 0(R0)",
	"MUL.D F12, F10, F10",
	"S.D F12, 8(R0)",
	"ADD.D F14, F12, F0",
	"L.D F16, 0(R0)",
	"ADD.D F18, F16, F16",
	"SUB.D F20, F18, F14",
	"DIV.D F22, F20, F2",
	"S.D F22, 16(R0)",
}

var _ = Describe("Snapshot", func() {
	It("should hold the invariants at the end of every cycle", func() {
		p := pipeline.NewPipeline(program(mixed...))

		for p.RunCycles(1) {
			snap := p.Snapshot()
			Expect(snap.CheckInvariants()).To(Succeed(), "cycle %d", snap.Cycle)

			Expect(snap.BusyCount(pipeline.UnitAdd)).To(BeNumerically("<=", 3))
			Expect(snap.BusyCount(pipeline.UnitMul)).To(BeNumerically("<=", 2))
			Expect(snap.BusyCount(pipeline.UnitLoad)).To(BeNumerically("<=", 2))
			Expect(snap.BusyCount(pipeline.UnitStore)).To(BeNumerically("<=", 2))

			for i := 1; i < len(snap.Records); i++ {
				if snap.Records[i].Times.Issued() {
					Expect(snap.Records[i-1].Times.Issued()).To(BeTrue())
					Expect(snap.Records[i-1].Times.Issue).To(BeNumerically("<", snap.Records[i].Times.Issue))
				}
			}
		}

		Expect(p.Result().Completed).To(BeTrue())
		for _, r := range p.Records() {
			t := r.Times
			Expect(t.Issue).To(BeNumerically("<=", t.ExecStart))
			Expect(t.ExecStart).To(BeNumerically("<", t.Complete))
			Expect(t.Complete).To(BeNumerically("<", t.WriteBack))
		}
	})

	It("should expose slot contents after issue", func() {
		p := pipeline.NewPipeline(program("L.D F6, 32(R2)", "L.D F2, 8(R1)", "MUL.D F0, F2, F4"))
		p.RunCycles(3)

		snap := p.Snapshot()
		Expect(snap.Cycle).To(Equal(uint64(3)))
		Expect(snap.LoadBuffers[1].Busy).To(BeTrue())
		Expect(snap.LoadBuffers[1].Base).To(BeEquivalentTo(1))
		Expect(snap.LoadBuffers[1].Offset).To(Equal(int32(8)))

		mul := snap.MulStations[0]
		Expect(mul.Busy).To(BeTrue())
		Expect(mul.InstIdx).To(Equal(2))
		Expect(mul.J.Tag.String()).To(Equal("Load2"))
		Expect(mul.K.Ready()).To(BeTrue())
		Expect(mul.K.Value).To(Equal(1.0))
		Expect(snap.RegStatus.Producer(0).String()).To(Equal("Mul1"))
	})

	It("should be isolated from later cycles", func() {
		p := pipeline.NewPipeline(program("ADD.D F0, F2, F4"))
		p.RunCycles(1)
		snap := p.Snapshot()

		p.Run()
		Expect(snap.AddStations[0].Busy).To(BeTrue())
		Expect(snap.Records[0].Times.WrittenBack()).To(BeFalse())
		Expect(p.Snapshot().AddStations[0].Busy).To(BeFalse())
	})

	It("should flag a dangling tag", func() {
		p := pipeline.NewPipeline(program("ADD.D F0, F2, F4"))
		p.RunCycles(1)
		snap := p.Snapshot()
		snap.RegStatus.Claim(3, pipeline.Tag{Kind: pipeline.UnitMul, Index: 1})

		Expect(snap.CheckInvariants()).To(MatchError(ContainSubstring("idle slot")))
	})
})
