package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ===============================
// Report assembly & export
// ===============================

// PerfReport is the top-level report: built once per invocation, immutable
// after construction, then serialized. Field names are the stable JSON
// contract consumed by downstream tooling.
type PerfReport struct {
	Meta        ReportMeta        `json:"meta"`
	Config      ReportConfig      `json:"config"`
	Startup     StartupSection    `json:"startup"`
	Transitions TransitionSection `json:"transitions"`
	Caveats     []string          `json:"caveats"`
}

// ReportMeta identifies when and against what the report was produced.
type ReportMeta struct {
	GeneratedAtUtc string `json:"generatedAtUtc"`
	BaseURL        string `json:"baseUrl"`
	Browser        string `json:"browser"`
	DeviceProfile  string `json:"deviceProfile"`
}

// ReportConfig echoes the run parameters so a report is self-describing.
type ReportConfig struct {
	StartupRuns           int              `json:"startupRuns"`
	TransitionRounds      int              `json:"transitionRounds"`
	StartupFpsSampleMs    int              `json:"startupFpsSampleMs"`
	TransitionFpsSampleMs int              `json:"transitionFpsSampleMs"`
	TransitionTimeoutMs   int              `json:"transitionTimeoutMs"`
	AuthEntryRoute        string           `json:"authEntryRoute"`
	Transitions           []TransitionEdge `json:"transitions"`
}

// StartupSection holds the raw startup runs and their aggregate.
type StartupSection struct {
	Runs    []StartupRun   `json:"runs"`
	Summary StartupSummary `json:"summary"`
}

// TransitionSection holds the raw rounds and per-edge aggregates.
type TransitionSection struct {
	Rounds             []TransitionRound      `json:"rounds"`
	SummaryByRouteEdge map[string]EdgeSummary `json:"summaryByRouteEdge"`
}

var reportCaveats = []string{
	"Metrics are captured in headless WebKit using iPhone device emulation; absolute FPS may differ from physical iOS hardware.",
	"Startup navigation timing reflects warm local dev-server conditions, not app-store cold boot.",
	"Transition FPS samples use in-app link clicks and requestAnimationFrame windows around route changes.",
}

// BuildReport merges metadata, config echo, raw data and summaries.
func BuildReport(cfg *Config, runs []StartupRun, rounds []TransitionRound) *PerfReport {
	return &PerfReport{
		Meta: ReportMeta{
			GeneratedAtUtc: time.Now().UTC().Format(time.RFC3339Nano),
			BaseURL:        cfg.BaseURL,
			Browser:        browserName,
			DeviceProfile:  deviceProfile,
		},
		Config: ReportConfig{
			StartupRuns:           cfg.StartupRuns,
			TransitionRounds:      cfg.TransitionRounds,
			StartupFpsSampleMs:    cfg.StartupFpsSampleMs,
			TransitionFpsSampleMs: cfg.TransitionFpsSampleMs,
			TransitionTimeoutMs:   cfg.TransitionTimeoutMs,
			AuthEntryRoute:        cfg.Routes.Entry,
			Transitions:           cfg.Routes.Transitions,
		},
		Startup: StartupSection{
			Runs:    runs,
			Summary: aggregateStartup(runs),
		},
		Transitions: TransitionSection{
			Rounds:             rounds,
			SummaryByRouteEdge: aggregateTransitions(rounds),
		},
		Caveats: reportCaveats,
	}
}

// ExportJSON writes the report as indented JSON.
func ExportJSON(report *PerfReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// ExportMarkdown writes the human-readable summary.
func ExportMarkdown(report *PerfReport, path string) error {
	return writeFileAtomic(path, []byte(BuildMarkdown(report)))
}

// writeFileAtomic writes via a temp file and rename so a failure mid-write
// never leaves a half-formed report at the target path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize report file: %w", err)
	}
	return nil
}

// mdOpt renders an optional metric for Markdown, "-" when absent.
func mdOpt(v *float64) string {
	if v == nil {
		return "-"
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", *v), "0"), ".")
}

// BuildMarkdown renders the summary sections as Markdown tables.
func BuildMarkdown(report *PerfReport) string {
	startup := report.Startup.Summary
	nav := startup.NavigationMsMedian
	paint := startup.PaintMsMedian
	fps := startup.StartupFpsMedian

	var b strings.Builder
	b.WriteString("# Auth Runtime Profiling Report\n\n")
	fmt.Fprintf(&b, "- Timestamp (UTC): %s\n", report.Meta.GeneratedAtUtc)
	fmt.Fprintf(&b, "- Base URL: %s\n", report.Meta.BaseURL)
	fmt.Fprintf(&b, "- Browser/device: %s / %s\n", report.Meta.Browser, report.Meta.DeviceProfile)
	fmt.Fprintf(&b, "- Startup runs: %d\n", report.Config.StartupRuns)
	fmt.Fprintf(&b, "- Transition rounds: %d\n", report.Config.TransitionRounds)

	fmt.Fprintf(&b, "\n## Startup (`%s`)\n\n", report.Config.AuthEntryRoute)
	b.WriteString("| Metric | Median (ms) |\n")
	b.WriteString("|---|---:|\n")
	fmt.Fprintf(&b, "| responseStart | %s |\n", mdOpt(nav.ResponseStart))
	fmt.Fprintf(&b, "| responseEnd | %s |\n", mdOpt(nav.ResponseEnd))
	fmt.Fprintf(&b, "| domInteractive | %s |\n", mdOpt(nav.DomInteractive))
	fmt.Fprintf(&b, "| domContentLoadedEventEnd | %s |\n", mdOpt(nav.DomContentLoadedEventEnd))
	fmt.Fprintf(&b, "| domComplete | %s |\n", mdOpt(nav.DomComplete))
	fmt.Fprintf(&b, "| loadEventEnd | %s |\n", mdOpt(nav.LoadEventEnd))
	fmt.Fprintf(&b, "| first-paint | %s |\n", mdOpt(paint.FirstPaint))
	fmt.Fprintf(&b, "| first-contentful-paint | %s |\n", mdOpt(paint.FirstContentfulPaint))

	b.WriteString("\n| Startup FPS Metric | Median |\n")
	b.WriteString("|---|---:|\n")
	fmt.Fprintf(&b, "| avgFps | %s |\n", mdOpt(fps.AvgFps))
	fmt.Fprintf(&b, "| p95FrameMs | %s |\n", mdOpt(fps.P95FrameMs))
	fmt.Fprintf(&b, "| droppedFrameRatio | %s |\n", mdOpt(fps.DroppedFrameRatio))

	b.WriteString("\n## Route Transition FPS\n\n")
	b.WriteString("| Transition | avgFps (mean) | avgFps (median) | p95FrameMs (median) | droppedFrameRatio (median) | navDurationMs (median) | path reach rate |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, edge := range report.Config.Transitions {
		s, ok := report.Transitions.SummaryByRouteEdge[edge.Key()]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			edge.Key(),
			mdOpt(s.AvgFpsMean), mdOpt(s.AvgFpsMedian), mdOpt(s.P95FrameMsMedian),
			mdOpt(s.DroppedFrameRatioMedian), mdOpt(s.NavigationDurationMsMedian),
			mdOpt(s.ExpectedPathReachRate))
	}

	b.WriteString("\n## Caveats\n\n")
	for _, caveat := range report.Caveats {
		fmt.Fprintf(&b, "- %s\n", caveat)
	}

	return b.String()
}
