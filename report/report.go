// Package report renders pipeline snapshots for people.
//
// A Reporter appends one block per cycle to a writer. Each block lists the
// instruction timestamps, the reservation stations, the load and store
// buffers, the register-result status table, the register file and memory.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

const (
	regsPerLine    = 4
	intRegsPerLine = 8
)

// Option is a functional option for configuring a Reporter.
type Option func(*Reporter)

// WithStateTree appends a tree view of the slots to every cycle block.
func WithStateTree(enabled bool) Option {
	return func(r *Reporter) {
		r.tree = enabled
	}
}

// Reporter writes a cumulative cycle-by-cycle report.
type Reporter struct {
	w    io.Writer
	tree bool
	err  error
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer, opts ...Option) *Reporter {
	r := &Reporter{w: w}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe appends the block for snap. After the first write error, further
// blocks are dropped and the error is kept for Err.
func (r *Reporter) Observe(snap pipeline.Snapshot) {
	if r.err != nil {
		return
	}
	r.err = r.writeCycle(snap)
}

// Err returns the first write error.
func (r *Reporter) Err() error {
	return r.err
}

func (r *Reporter) writeCycle(snap pipeline.Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Cycle %d\n", snap.Cycle)
	writeInstructions(&b, snap.Records)
	writeStations(&b, snap)
	writeLoadBuffers(&b, snap.LoadBuffers)
	writeStoreBuffers(&b, snap.StoreBuffers)
	writeRegStatus(&b, snap.RegStatus)
	writeRegFile(&b, &snap.RegFile)
	writeMemory(&b, snap.Memory)
	if r.tree {
		section(&b, "State")
		b.WriteString(StateTree(snap))
	}
	b.WriteString("\n")

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("failed to write cycle %d: %w", snap.Cycle, err)
	}
	return nil
}

// WriteSummary writes the closing lines of a report.
func WriteSummary(w io.Writer, result pipeline.Result, stats pipeline.Statistics) error {
	var b strings.Builder

	section(&b, "Summary")
	if result.Completed {
		fmt.Fprintf(&b, "All instructions written back after %d cycles.\n", result.Cycles)
	} else {
		fmt.Fprintf(&b, "Simulation stopped at cycle %d: %v\n", result.Cycles, result.Err)
		fmt.Fprintf(&b, "Unfinished instructions: %v\n", result.Unfinished)
	}
	fmt.Fprintf(&b, "Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(&b, "CPI: %.2f\n", stats.CPI())
	fmt.Fprintf(&b, "Structural stalls: %d\n", stats.StructuralStalls)
	fmt.Fprintf(&b, "Broadcasts: %d\n", stats.Broadcasts)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "---------------- %s ----------------\n", title)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetBorder(false)
	t.SetHeaderLine(false)
	t.SetColumnSeparator("")
	t.SetCenterSeparator("")
	t.SetRowSeparator("")
	t.SetTablePadding("  ")
	t.SetNoWhiteSpace(true)
	return t
}

func cycleCell(c uint64) string {
	if c == 0 {
		return "-"
	}
	return strconv.FormatUint(c, 10)
}

func busyCell(busy bool) string {
	if busy {
		return "yes"
	}
	return "no"
}

func writeInstructions(b *strings.Builder, records []pipeline.Record) {
	section(b, "Instructions")
	t := newTable(b, "#", "Instruction", "Issue", "Start", "Complete", "WriteBack")
	for i, rec := range records {
		t.Append([]string{
			strconv.Itoa(i),
			rec.Inst.String(),
			cycleCell(rec.Times.Issue),
			cycleCell(rec.Times.ExecStart),
			cycleCell(rec.Times.Complete),
			cycleCell(rec.Times.WriteBack),
		})
	}
	t.Render()
}

func writeStations(b *strings.Builder, snap pipeline.Snapshot) {
	section(b, "Reservation Stations")
	t := newTable(b, "Name", "Busy", "Op", "Vj", "Vk", "Qj", "Qk", "Dest", "Remaining")
	stations := append(append([]pipeline.ReservationStation(nil), snap.AddStations...), snap.MulStations...)
	for _, rs := range stations {
		if !rs.Busy {
			t.Append([]string{rs.Name.String(), busyCell(false), "", "", "", "", "", "", ""})
			continue
		}
		t.Append([]string{
			rs.Name.String(),
			busyCell(true),
			rs.Op.String(),
			operandValue(rs.J),
			operandValue(rs.K),
			rs.J.Tag.String(),
			rs.K.Tag.String(),
			rs.Dest.String(),
			strconv.FormatUint(rs.Remaining, 10),
		})
	}
	t.Render()
}

func operandValue(o pipeline.Operand) string {
	if !o.Ready() {
		return "-"
	}
	return fmt.Sprintf("%.2f", o.Value)
}

func address(base insts.IntReg, offset int32) string {
	return fmt.Sprintf("%d(%v)", offset, base)
}

func writeLoadBuffers(b *strings.Builder, buffers []pipeline.LoadBuffer) {
	section(b, "Load Buffers")
	t := newTable(b, "Name", "Busy", "Address", "Dest", "Remaining")
	for _, lb := range buffers {
		if !lb.Busy {
			t.Append([]string{lb.Name.String(), busyCell(false), "", "", ""})
			continue
		}
		t.Append([]string{
			lb.Name.String(),
			busyCell(true),
			address(lb.Base, lb.Offset),
			lb.Dest.String(),
			strconv.FormatUint(lb.Remaining, 10),
		})
	}
	t.Render()
}

func writeStoreBuffers(b *strings.Builder, buffers []pipeline.StoreBuffer) {
	section(b, "Store Buffers")
	t := newTable(b, "Name", "Busy", "Address", "Data", "Remaining")
	for _, sb := range buffers {
		if !sb.Busy {
			t.Append([]string{sb.Name.String(), busyCell(false), "", "", ""})
			continue
		}
		t.Append([]string{
			sb.Name.String(),
			busyCell(true),
			address(sb.Base, sb.Offset),
			sb.Data.String(),
			strconv.FormatUint(sb.Remaining, 10),
		})
	}
	t.Render()
}

func writeRegStatus(b *strings.Builder, status pipeline.RegisterStatus) {
	section(b, "Register Result Status")
	for i, tag := range status {
		fmt.Fprintf(b, "%-3s: %-7s", insts.FReg(i), tag)
		if (i+1)%regsPerLine == 0 {
			b.WriteString("\n")
		}
	}
	if len(status)%regsPerLine != 0 {
		b.WriteString("\n")
	}
}

func writeRegFile(b *strings.Builder, rf *emu.RegFile) {
	section(b, "Floating Point Registers")
	for i, v := range rf.F {
		fmt.Fprintf(b, "%-3s = %-7.2f ", insts.FReg(i), v)
		if (i+1)%regsPerLine == 0 {
			b.WriteString("\n")
		}
	}

	section(b, "Integer Registers")
	for i, v := range rf.R {
		fmt.Fprintf(b, "%-3s = %-4d ", insts.IntReg(i), v)
		if (i+1)%intRegsPerLine == 0 {
			b.WriteString("\n")
		}
	}
}

func writeMemory(b *strings.Builder, cells [emu.MemoryCells]float64) {
	section(b, "Memory")
	for i, v := range cells {
		fmt.Fprintf(b, "M[%d] = %-7.2f ", i*emu.CellSize, v)
		if (i+1)%regsPerLine == 0 {
			b.WriteString("\n")
		}
	}
}
