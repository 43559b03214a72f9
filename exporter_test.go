package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T) *PerfReport {
	t.Helper()

	cfg := testConfig()
	runs := []StartupRun{
		startupRunWith(1,
			&NavigationTiming{ResponseStart: fp(12.5), DomComplete: fp(180)},
			map[string]float64{"first-paint": 95, "first-contentful-paint": 130},
			&FrameRateSample{AvgFps: 59.1, P95FrameMs: 18.2, DroppedFrameRatio: 0.05, TotalFrames: 177, SampleDurationMs: 2995}),
	}
	rounds := []TransitionRound{
		{Round: 1, Transitions: []TransitionMeasurement{
			measurement("/signin", "/signup", 55, fp(120), true),
		}},
	}
	return BuildReport(cfg, runs, rounds)
}

func TestBuildReport_StableFieldNames(t *testing.T) {
	report := testReport(t)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"meta", "config", "startup", "transitions", "caveats"} {
		assert.Contains(t, decoded, key)
	}

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(decoded["meta"], &meta))
	for _, key := range []string{"generatedAtUtc", "baseUrl", "browser", "deviceProfile"} {
		assert.Contains(t, meta, key)
	}
	assert.Equal(t, "webkit", meta["browser"])
	assert.Equal(t, "iPhone 13", meta["deviceProfile"])

	var startup struct {
		Runs    []json.RawMessage          `json:"runs"`
		Summary map[string]json.RawMessage `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(decoded["startup"], &startup))
	assert.Len(t, startup.Runs, 1)
	for _, key := range []string{"navigationMsMedian", "paintMsMedian", "startupFpsMedian"} {
		assert.Contains(t, startup.Summary, key)
	}

	var transitions struct {
		Rounds  []json.RawMessage                     `json:"rounds"`
		Summary map[string]map[string]json.RawMessage `json:"summaryByRouteEdge"`
	}
	require.NoError(t, json.Unmarshal(decoded["transitions"], &transitions))
	edge, ok := transitions.Summary["/signin->/signup"]
	require.True(t, ok)
	for _, key := range []string{
		"avgFpsMean", "avgFpsMedian", "p95FrameMsMedian", "droppedFrameRatioMedian",
		"navigationDurationMsMedian", "expectedPathReachRate", "samples",
	} {
		assert.Contains(t, edge, key)
	}
}

func TestBuildReport_AbsentFieldsAreNullNotZero(t *testing.T) {
	cfg := testConfig()
	// No navigation entries at all: the summary keys must still be present,
	// with null values.
	runs := []StartupRun{startupRunWith(1, nil, nil, nil)}
	report := BuildReport(cfg, runs, nil)

	data, err := json.Marshal(report.Startup.Summary)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"domComplete":null`)
	assert.Contains(t, text, `"first-paint":null`)
	assert.Contains(t, text, `"avgFps":null`)
	assert.NotContains(t, text, `"domComplete":0`)
}

func TestExportJSON_WritesValidReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	report := testReport(t)

	require.NoError(t, ExportJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var decoded PerfReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Meta.BaseURL, decoded.Meta.BaseURL)
	assert.Equal(t, report.Config.StartupRuns, decoded.Config.StartupRuns)
}

func TestWriteFileAtomic_NoLeftoverTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	require.NoError(t, writeFileAtomic(path, []byte("{}\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestBuildMarkdown(t *testing.T) {
	report := testReport(t)
	md := BuildMarkdown(report)

	assert.Contains(t, md, "# Auth Runtime Profiling Report")
	assert.Contains(t, md, "## Startup (`/signin`)")
	assert.Contains(t, md, "| responseStart | 12.5 |")
	assert.Contains(t, md, "## Route Transition FPS")
	assert.Contains(t, md, "| /signin->/signup | 55 | 55 |")
	assert.Contains(t, md, "## Caveats")
	// Absent metrics render as "-", never as 0.
	assert.Contains(t, md, "| loadEventEnd | - |")
}

func TestExportMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	report := testReport(t)

	require.NoError(t, ExportMarkdown(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Caveats")
}
