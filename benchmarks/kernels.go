package benchmarks

import (
	"fmt"
	"strings"

	"github.com/sarchlab/tomasim/emu"
)

// GetKernels returns the standard set of scheduler kernels.
// Each kernel targets a specific scheduler characteristic.
func GetKernels() []Benchmark {
	return []Benchmark{
		textbook(),
		dependencyChain(),
		independentAdds(),
		divideStorm(),
		storeLoadMix(),
		renameWAW(),
	}
}

// GetCoreKernels returns a minimal set of kernels for quick validation.
func GetCoreKernels() []Benchmark {
	return []Benchmark{
		textbook(),
		dependencyChain(),
		storeLoadMix(),
	}
}

// 1. Textbook - the classic six-instruction Tomasulo sequence
func textbook() Benchmark {
	return Benchmark{
		Name:        "textbook",
		Description: "H&P six-instruction sequence - loads feeding MUL, SUB, DIV and ADD",
		Source: lines(
			"L.D F6, 34(R2)",
			"L.D F2, 45(R3)",
			"MUL.D F0, F2, F4",
			"SUB.D F8, F6, F2",
			"DIV.D F10, F0, F6",
			"ADD.D F6, F8, F2",
		),
	}
}

// 2. Dependency Chain - every ADD waits on the broadcast of the previous one
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "8 dependent ADD.D (F0 = F0 + F2) - measures broadcast-to-start latency",
		Source:      buildDependencyChain(8),
	}
}

func buildDependencyChain(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("ADD.D F0, F0, F2\n")
	}
	return b.String()
}

// 3. Independent Adds - more adds than add stations
func independentAdds() Benchmark {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "ADD.D F%d, F20, F22\n", 2*i)
	}
	return Benchmark{
		Name:        "independent_adds",
		Description: "6 independent ADD.D on 3 add stations - measures structural stalls",
		Source:      b.String(),
	}
}

// 4. Divide Storm - long-latency ops on the two mul/div stations
func divideStorm() Benchmark {
	return Benchmark{
		Name:        "divide_storm",
		Description: "4 independent DIV.D on 2 mul/div stations - measures occupancy of long ops",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.WriteFP(1, 8) // F2
			regFile.WriteFP(2, 2) // F4
		},
		Source: lines(
			"DIV.D F0, F2, F4",
			"DIV.D F6, F2, F4",
			"DIV.D F8, F2, F4",
			"DIV.D F10, F2, F4",
		),
	}
}

// 5. Store/Load Mix - stores waiting for data, loads reading stored cells
func storeLoadMix() Benchmark {
	return Benchmark{
		Name:        "store_load_mix",
		Description: "loads, a multiply and stores through memory - measures store data waits",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			memory.SetCell(0, 3)
		},
		Source: lines(
			"L.D F2, 0(R0)",
			"MUL.D F4, F2, F2",
			"S.D F4, 8(R0)",
			"L.D F6, 8(R0)",
			"ADD.D F8, F6, F4",
			"S.D F8, 16(R0)",
		),
	}
}

// 6. Rename WAW - an older long write loses its register to a younger one
func renameWAW() Benchmark {
	return Benchmark{
		Name:        "rename_waw",
		Description: "DIV.D and ADD.D writing F0 - measures register renaming",
		Source: lines(
			"DIV.D F0, F2, F4",
			"ADD.D F0, F2, F4",
			"ADD.D F6, F0, F2",
		),
	}
}

func lines(src ...string) string {
	return strings.Join(src, "\n") + "\n"
}
