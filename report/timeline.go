package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sarchlab/tomasim/timing/pipeline"
)

// Timeline holds the per-instruction stage lengths drawn by WriteTimeline.
// Every slice is indexed by instruction.
type Timeline struct {
	Labels  []string
	Offset  []uint64 // cycles before issue
	Wait    []uint64 // issue up to exec-start
	Execute []uint64 // exec-start up to completion
	Write   []uint64 // completion up to write-back
}

// BuildTimeline converts records to stage lengths. Missing timestamps end
// the bar at the last stage that happened.
func BuildTimeline(records []pipeline.Record) Timeline {
	var tl Timeline
	for i, rec := range records {
		t := rec.Times
		tl.Labels = append(tl.Labels, fmt.Sprintf("%d: %v", i, rec.Inst))

		var offset, wait, exec, write uint64
		if t.Issued() {
			offset = t.Issue - 1
		}
		if t.Started() {
			wait = t.ExecStart - t.Issue
		}
		if t.Completed() {
			exec = t.Complete - t.ExecStart
		}
		if t.WrittenBack() {
			write = t.WriteBack - t.Complete
		}

		tl.Offset = append(tl.Offset, offset)
		tl.Wait = append(tl.Wait, wait)
		tl.Execute = append(tl.Execute, exec)
		tl.Write = append(tl.Write, write)
	}
	return tl
}

func barData(values []uint64) []opts.BarData {
	data := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		data = append(data, opts.BarData{Value: v})
	}
	return data
}

// WriteTimeline renders records as an HTML Gantt chart: one horizontal bar
// per instruction, split into waiting, executing and writing back.
func WriteTimeline(w io.Writer, title string, records []pipeline.Record) error {
	tl := BuildTimeline(records)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "cycles per stage",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)

	// Reversed so the first instruction is drawn at the top.
	labels := make([]string, len(tl.Labels))
	for i, l := range tl.Labels {
		labels[len(labels)-1-i] = l
	}
	bar.SetXAxis(labels).
		AddSeries("issue", barData(reversed(tl.Offset)),
			charts.WithBarChartOpts(opts.BarChart{Stack: "stage"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "transparent"})).
		AddSeries("wait", barData(reversed(tl.Wait)),
			charts.WithBarChartOpts(opts.BarChart{Stack: "stage"})).
		AddSeries("execute", barData(reversed(tl.Execute)),
			charts.WithBarChartOpts(opts.BarChart{Stack: "stage"})).
		AddSeries("write-back", barData(reversed(tl.Write)),
			charts.WithBarChartOpts(opts.BarChart{Stack: "stage"}))
	bar.XYReversal()

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render timeline: %w", err)
	}
	return nil
}

func reversed(values []uint64) []uint64 {
	out := make([]uint64, len(values))
	for i, v := range values {
		out[len(out)-1-i] = v
	}
	return out
}
