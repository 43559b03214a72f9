package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
)

// ===============================
// Aggregation
// ===============================

// aggregateStartup reduces startup runs to per-field medians. A field missing
// from a run is skipped for that run; a field missing from every run stays
// nil in the summary.
func aggregateStartup(runs []StartupRun) StartupSummary {
	navField := func(pick func(*NavigationTiming) *float64) *float64 {
		var vals []float64
		for _, run := range runs {
			nav := run.Metrics.Navigation
			if nav == nil {
				continue
			}
			if v := pick(nav); v != nil {
				vals = append(vals, *v)
			}
		}
		return medianOf(vals, 3)
	}

	paintField := func(name string) *float64 {
		var vals []float64
		for _, run := range runs {
			if v, ok := run.Metrics.Paint[name]; ok {
				vals = append(vals, v)
			}
		}
		return medianOf(vals, 3)
	}

	fpsField := func(pick func(*FrameRateSample) float64, places int) *float64 {
		var vals []float64
		for _, run := range runs {
			if fps := run.Metrics.StartupFps; fps != nil {
				vals = append(vals, pick(fps))
			}
		}
		return medianOf(vals, places)
	}

	return StartupSummary{
		NavigationMsMedian: NavigationSummary{
			ResponseStart:            navField(func(n *NavigationTiming) *float64 { return n.ResponseStart }),
			ResponseEnd:              navField(func(n *NavigationTiming) *float64 { return n.ResponseEnd }),
			DomInteractive:           navField(func(n *NavigationTiming) *float64 { return n.DomInteractive }),
			DomContentLoadedEventEnd: navField(func(n *NavigationTiming) *float64 { return n.DomContentLoadedEventEnd }),
			DomComplete:              navField(func(n *NavigationTiming) *float64 { return n.DomComplete }),
			LoadEventEnd:             navField(func(n *NavigationTiming) *float64 { return n.LoadEventEnd }),
		},
		PaintMsMedian: PaintSummary{
			FirstPaint:           paintField("first-paint"),
			FirstContentfulPaint: paintField("first-contentful-paint"),
		},
		StartupFpsMedian: FpsSummary{
			AvgFps:            fpsField(func(f *FrameRateSample) float64 { return f.AvgFps }, 3),
			P95FrameMs:        fpsField(func(f *FrameRateSample) float64 { return f.P95FrameMs }, 3),
			DroppedFrameRatio: fpsField(func(f *FrameRateSample) float64 { return f.DroppedFrameRatio }, 4),
		},
	}
}

// aggregateTransitions groups measurements by "from->to" edge key and reduces
// each group. Nulls are excluded per field; a group with no non-null values
// for a field yields nil, never zero.
func aggregateTransitions(rounds []TransitionRound) map[string]EdgeSummary {
	byEdge := make(map[string][]TransitionMetrics)
	for _, round := range rounds {
		for _, t := range round.Transitions {
			key := t.From + "->" + t.To
			byEdge[key] = append(byEdge[key], t.Metrics)
		}
	}

	summary := make(map[string]EdgeSummary, len(byEdge))
	for edge, metrics := range byEdge {
		var fpsVals, p95Vals, dropVals, navVals []float64
		var reached float64
		for _, m := range metrics {
			fpsVals = append(fpsVals, m.AvgFps)
			p95Vals = append(p95Vals, m.P95FrameMs)
			dropVals = append(dropVals, m.DroppedFrameRatio)
			if m.NavigationDurationMs != nil {
				navVals = append(navVals, *m.NavigationDurationMs)
			}
			if m.ReachedExpectedPath {
				reached++
			}
		}

		reachRate := roundTo(reached/float64(len(metrics)), 4)
		summary[edge] = EdgeSummary{
			AvgFpsMean:                 meanOf(fpsVals, 3),
			AvgFpsMedian:               medianOf(fpsVals, 3),
			P95FrameMsMedian:           medianOf(p95Vals, 3),
			DroppedFrameRatioMedian:    medianOf(dropVals, 4),
			NavigationDurationMsMedian: medianOf(navVals, 3),
			ExpectedPathReachRate:      &reachRate,
			Samples:                    len(metrics),
		}
	}

	return summary
}

// ===============================
// Console output
// ===============================

// fmtOpt renders an optional metric, "-" when absent.
func fmtOpt(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// printStartupTable prints the startup summary to the console.
func printStartupTable(summary StartupSummary, entry string) {
	fmt.Printf("\n📊 Startup (%s) medians:\n", entry)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Metric", "Median"}),
	)

	rows := []struct {
		name string
		val  *float64
		fmt  string
	}{
		{"responseStart (ms)", summary.NavigationMsMedian.ResponseStart, "%.2f"},
		{"responseEnd (ms)", summary.NavigationMsMedian.ResponseEnd, "%.2f"},
		{"domInteractive (ms)", summary.NavigationMsMedian.DomInteractive, "%.2f"},
		{"domContentLoadedEventEnd (ms)", summary.NavigationMsMedian.DomContentLoadedEventEnd, "%.2f"},
		{"domComplete (ms)", summary.NavigationMsMedian.DomComplete, "%.2f"},
		{"loadEventEnd (ms)", summary.NavigationMsMedian.LoadEventEnd, "%.2f"},
		{"first-paint (ms)", summary.PaintMsMedian.FirstPaint, "%.2f"},
		{"first-contentful-paint (ms)", summary.PaintMsMedian.FirstContentfulPaint, "%.2f"},
		{"avgFps", summary.StartupFpsMedian.AvgFps, "%.2f"},
		{"p95FrameMs", summary.StartupFpsMedian.P95FrameMs, "%.2f"},
		{"droppedFrameRatio", summary.StartupFpsMedian.DroppedFrameRatio, "%.4f"},
	}
	for _, row := range rows {
		table.Append([]string{row.name, fmtOpt(row.val, row.fmt)})
	}

	table.Render()
}

// printTransitionTable prints per-edge transition summaries in edge order.
func printTransitionTable(summary map[string]EdgeSummary, edges []TransitionEdge) {
	fmt.Println("\n📈 Route transition summary:")

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{
			"Transition", "avgFps mean", "avgFps median", "p95FrameMs", "dropped ratio", "nav (ms)", "reach rate", "samples",
		}),
	)

	for _, edge := range edges {
		s, ok := summary[edge.Key()]
		if !ok {
			continue
		}
		table.Append([]string{
			edge.Key(),
			fmtOpt(s.AvgFpsMean, "%.2f"),
			fmtOpt(s.AvgFpsMedian, "%.2f"),
			fmtOpt(s.P95FrameMsMedian, "%.2f"),
			fmtOpt(s.DroppedFrameRatioMedian, "%.4f"),
			fmtOpt(s.NavigationDurationMsMedian, "%.2f"),
			fmtOpt(s.ExpectedPathReachRate, "%.4f"),
			fmt.Sprintf("%d", s.Samples),
		})
	}

	table.Render()
}
