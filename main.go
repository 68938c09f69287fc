// Package main provides the entry point for TomaSim.
// TomaSim is a cycle-accurate simulator of Tomasulo's algorithm.
//
// For the full CLI, use: go run ./cmd/tomasim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("TomaSim - Tomasulo Scheduler Simulator")
	fmt.Println("")
	fmt.Println("Usage: tomasim [flags] <program>")
	fmt.Println("")
	fmt.Println("Flags:")
	fmt.Println("  -o, --output      Report file (default output.txt)")
	fmt.Println("      --config      Timing configuration JSON file")
	fmt.Println("      --max-cycles  Safety cap on simulated cycles (default 2000)")
	fmt.Println("      --freq        Core clock in GHz (default 1)")
	fmt.Println("      --chart       HTML timeline chart file")
	fmt.Println("      --tree        Append a tree view of the slots to every cycle")
	fmt.Println("  -v, --verbose     Log pipeline events")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tomasim' instead.")
	}
}
