package main

// Raw samples and summary records. Summary fields are pointers so that
// "no run produced this value" serializes as null, never as zero.

// NavigationTiming is one page load's Navigation Timing entry. Fields are
// pointers because individual timestamps may be absent in a given run.
type NavigationTiming struct {
	UnloadEventEnd             *float64 `json:"unloadEventEnd"`
	RedirectCount              *int     `json:"redirectCount"`
	DomainLookupStart          *float64 `json:"domainLookupStart"`
	DomainLookupEnd            *float64 `json:"domainLookupEnd"`
	ConnectStart               *float64 `json:"connectStart"`
	SecureConnectionStart      *float64 `json:"secureConnectionStart"`
	ConnectEnd                 *float64 `json:"connectEnd"`
	RequestStart               *float64 `json:"requestStart"`
	ResponseStart              *float64 `json:"responseStart"`
	ResponseEnd                *float64 `json:"responseEnd"`
	DomInteractive             *float64 `json:"domInteractive"`
	DomContentLoadedEventStart *float64 `json:"domContentLoadedEventStart"`
	DomContentLoadedEventEnd   *float64 `json:"domContentLoadedEventEnd"`
	DomComplete                *float64 `json:"domComplete"`
	LoadEventStart             *float64 `json:"loadEventStart"`
	LoadEventEnd               *float64 `json:"loadEventEnd"`
}

// NavigationSnapshot is the in-page navigation/paint capture. Navigation is
// nil when the browser has not produced a navigation entry yet; callers treat
// that as "not available", not as an error.
type NavigationSnapshot struct {
	Navigation *NavigationTiming  `json:"navigation"`
	Paint      map[string]float64 `json:"paint"`
	Route      string             `json:"route"`
}

// FrameRateSample holds statistics derived from one animation-frame capture
// window. A window with fewer than two frames yields the zero value.
type FrameRateSample struct {
	AvgFps            float64 `json:"avgFps"`
	P95FrameMs        float64 `json:"p95FrameMs"`
	DroppedFrameRatio float64 `json:"droppedFrameRatio"`
	TotalFrames       int     `json:"totalFrames"`
	SampleDurationMs  float64 `json:"sampleDurationMs"`
}

// StartupRun is one cold load of the entry route.
type StartupRun struct {
	Run     int            `json:"run"`
	Route   string         `json:"route"`
	Metrics StartupMetrics `json:"metrics"`
}

// StartupMetrics groups the three startup captures of a run.
type StartupMetrics struct {
	Navigation *NavigationTiming  `json:"navigation"`
	Paint      map[string]float64 `json:"paint"`
	StartupFps *FrameRateSample   `json:"startupFps"`
}

// TransitionMetrics is one edge traversal's outcome: frame statistics plus
// navigation bookkeeping. NavigationDurationMs is nil when the expected path
// was not reached before the timeout.
type TransitionMetrics struct {
	From                 string   `json:"from"`
	To                   string   `json:"to"`
	ExpectedTo           string   `json:"expectedTo"`
	NavigationDurationMs *float64 `json:"navigationDurationMs"`
	ReachedExpectedPath  bool     `json:"reachedExpectedPath"`
	FrameRateSample
}

// TransitionMeasurement is one recorded edge traversal within a round.
type TransitionMeasurement struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Selector string            `json:"selector"`
	Metrics  TransitionMetrics `json:"metrics"`
}

// TransitionRound is one full walk of the configured edge list.
type TransitionRound struct {
	Round       int                     `json:"round"`
	Transitions []TransitionMeasurement `json:"transitions"`
}

// NavigationSummary holds per-field medians across startup runs (ms).
type NavigationSummary struct {
	ResponseStart            *float64 `json:"responseStart"`
	ResponseEnd              *float64 `json:"responseEnd"`
	DomInteractive           *float64 `json:"domInteractive"`
	DomContentLoadedEventEnd *float64 `json:"domContentLoadedEventEnd"`
	DomComplete              *float64 `json:"domComplete"`
	LoadEventEnd             *float64 `json:"loadEventEnd"`
}

// PaintSummary holds paint-timing medians across startup runs (ms).
type PaintSummary struct {
	FirstPaint           *float64 `json:"first-paint"`
	FirstContentfulPaint *float64 `json:"first-contentful-paint"`
}

// FpsSummary holds frame-rate medians across startup runs.
type FpsSummary struct {
	AvgFps            *float64 `json:"avgFps"`
	P95FrameMs        *float64 `json:"p95FrameMs"`
	DroppedFrameRatio *float64 `json:"droppedFrameRatio"`
}

// StartupSummary is the startup section's aggregate.
type StartupSummary struct {
	NavigationMsMedian NavigationSummary `json:"navigationMsMedian"`
	PaintMsMedian      PaintSummary      `json:"paintMsMedian"`
	StartupFpsMedian   FpsSummary        `json:"startupFpsMedian"`
}

// EdgeSummary aggregates all measurements of one route edge.
type EdgeSummary struct {
	AvgFpsMean                 *float64 `json:"avgFpsMean"`
	AvgFpsMedian               *float64 `json:"avgFpsMedian"`
	P95FrameMsMedian           *float64 `json:"p95FrameMsMedian"`
	DroppedFrameRatioMedian    *float64 `json:"droppedFrameRatioMedian"`
	NavigationDurationMsMedian *float64 `json:"navigationDurationMsMedian"`
	ExpectedPathReachRate      *float64 `json:"expectedPathReachRate"`
	Samples                    int      `json:"samples"`
}
