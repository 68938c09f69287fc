package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

var _ = Describe("Latency", func() {
	var table *latency.Table

	BeforeEach(func() {
		table = latency.NewTable()
	})

	Describe("Default Timing Values", func() {
		DescribeTable("should return the textbook latency",
			func(op insts.Op, expected uint64) {
				Expect(table.GetLatency(op)).To(Equal(expected))
			},
			Entry("L.D", insts.OpLD, uint64(2)),
			Entry("S.D", insts.OpSD, uint64(1)),
			Entry("ADD.D", insts.OpADDD, uint64(2)),
			Entry("SUB.D", insts.OpSUBD, uint64(2)),
			Entry("MUL.D", insts.OpMULD, uint64(10)),
			Entry("DIV.D", insts.OpDIVD, uint64(40)),
			Entry("unknown", insts.OpUnknown, uint64(1)),
		)
	})

	Describe("Countdown after the start cycle", func() {
		It("should be latency minus one for multi-cycle ops", func() {
			Expect(table.CountdownAfterStart(insts.OpMULD)).To(Equal(uint64(9)))
			Expect(table.CountdownAfterStart(insts.OpLD)).To(Equal(uint64(1)))
		})

		It("should never drop below one", func() {
			Expect(table.CountdownAfterStart(insts.OpSD)).To(Equal(uint64(1)))
		})
	})

	Describe("Custom configuration", func() {
		It("should use the configured latencies", func() {
			config := latency.DefaultTimingConfig()
			config.MultiplyLatency = 4
			config.DivideLatency = 12
			custom := latency.NewTableWithConfig(config)

			Expect(custom.GetLatency(insts.OpMULD)).To(Equal(uint64(4)))
			Expect(custom.GetLatency(insts.OpDIVD)).To(Equal(uint64(12)))
			Expect(custom.Config()).To(BeIdenticalTo(config))
		})
	})

	Describe("TimingConfig", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should validate the defaults", func() {
			Expect(latency.DefaultTimingConfig().Validate()).To(Succeed())
		})

		It("should reject zero latencies", func() {
			config := latency.DefaultTimingConfig()
			config.AddLatency = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("add_latency")))
		})

		It("should clone deeply", func() {
			config := latency.DefaultTimingConfig()
			clone := config.Clone()
			clone.LoadLatency = 99

			Expect(config.LoadLatency).To(Equal(uint64(2)))
		})

		It("should round-trip through a file", func() {
			path := filepath.Join(dir, "timing.json")
			config := latency.DefaultTimingConfig()
			config.DivideLatency = 20

			Expect(config.SaveConfig(path)).To(Succeed())
			loaded, err := latency.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(config))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(dir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"multiply_latency": 6}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.MultiplyLatency).To(Equal(uint64(6)))
			Expect(loaded.DivideLatency).To(Equal(uint64(40)))
		})

		It("should fail on a missing file", func() {
			_, err := latency.LoadConfig(filepath.Join(dir, "nope.json"))
			Expect(err).To(MatchError(ContainSubstring("failed to read timing config file")))
		})

		It("should fail on malformed JSON", func() {
			path := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{`), 0644)).To(Succeed())

			_, err := latency.LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("failed to parse timing config")))
		})

		It("should fail on zero latencies in the file", func() {
			path := filepath.Join(dir, "zero.json")
			Expect(os.WriteFile(path, []byte(`{"load_latency": 0}`), 0644)).To(Succeed())

			_, err := latency.LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("load_latency must be > 0")))
		})
	})
})
