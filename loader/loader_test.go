package loader_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/loader"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

var _ = Describe("Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	writeProgram := func(name, src string) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, []byte(src), 0o644)).To(Succeed())
		return path
	}

	Describe("Load", func() {
		It("should decode every valid line in order", func() {
			path := writeProgram("prog.s", "L.D F6, 32(R2)\nmul.d F0, F2, F4\nS.D F0, 8(R1)\n")

			prog, err := loader.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Path).To(Equal(path))
			Expect(prog.Instructions).To(HaveLen(3))
			Expect(prog.Instructions[0].Op).To(Equal(insts.OpLD))
			Expect(prog.Instructions[1].Op).To(Equal(insts.OpMULD))
			Expect(prog.Instructions[2].Op).To(Equal(insts.OpSD))
			Expect(prog.Skipped).To(BeEmpty())
		})

		It("should drop malformed lines and report them", func() {
			path := writeProgram("prog.s", "ADD.D F0, F2, F4\nBRANCH loop\n\nADD.D F1, F2, F4\nSUB.D F6, F0, F2\n")

			prog, err := loader.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Instructions).To(HaveLen(2))
			Expect(prog.Skipped).To(Equal([]insts.SkippedLine{
				{Number: 2, Text: "BRANCH loop"},
				{Number: 4, Text: "ADD.D F1, F2, F4"},
			}))
		})

		It("should accept an empty file", func() {
			prog, err := loader.Load(writeProgram("empty.s", ""))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Instructions).To(BeEmpty())
		})

		It("should fail on a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing.s"))

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})
	})

	Describe("Read", func() {
		It("should log dropped lines at debug level", func() {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			_, err := loader.Read(strings.NewReader("NOP\n"), loader.WithLogger(logger))

			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("dropped malformed line"))
			Expect(buf.String()).To(ContainSubstring("line=1"))
		})

		It("should wrap reader failures", func() {
			_, err := loader.Read(failingReader{})

			Expect(err).To(MatchError(ContainSubstring("disk on fire")))
		})
	})
})
