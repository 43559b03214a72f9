package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

// ===============================
// Browser driver
// ===============================

// SessionFactory produces fresh isolated browsing sessions. Each session is
// used for exactly one run or round and then closed; contexts are never
// reused, so no cache or storage state bleeds between measurements.
type SessionFactory interface {
	NewSession() (MeasurementSession, error)
}

// MeasurementSession is one isolated browsing context plus the measurement
// operations the collectors need. Tests substitute a deterministic fake.
type MeasurementSession interface {
	// Navigate loads baseURL+route and waits for domcontentloaded.
	Navigate(route string) error
	// CurrentPath returns window.location.pathname.
	CurrentPath() (string, error)
	// WaitRouteReady blocks until the path matches route and the route's
	// marker is visible, then lets layout settle. Timeout is fatal.
	WaitRouteReady(route string) error
	// NavigationSnapshot captures navigation/paint timing for the current
	// document. Navigation may be nil ("not yet available").
	NavigationSnapshot() (NavigationSnapshot, error)
	// CaptureFrameStamps samples animation-frame timestamps for sampleMs.
	CaptureFrameStamps(sampleMs int) ([]float64, error)
	// TriggerTransition clicks the edge's trigger and captures frames until
	// at least sampleMs elapsed, polling for the expected path change.
	TriggerTransition(edge TransitionEdge, sampleMs, timeoutMs int) (TransitionCapture, error)
	Close() error
}

// TransitionCapture is the raw outcome of one in-page transition capture.
type TransitionCapture struct {
	StartPath            string    `json:"startPath"`
	EndPath              string    `json:"endPath"`
	NavigationDurationMs *float64  `json:"navigationDurationMs"`
	ReachedExpectedPath  bool      `json:"reachedExpectedPath"`
	Stamps               []float64 `json:"stamps"`
	Error                string    `json:"error"`
}

// BrowserDriver owns the browser process for the whole invocation and hands
// out one isolated context per run/round.
type BrowserDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	device  *playwright.DeviceDescriptor
	baseURL string
	routes  RouteConfig
}

// NewBrowserDriver installs (if needed) and starts Playwright, launches
// headless WebKit and resolves the device profile.
func NewBrowserDriver(baseURL string, routes RouteConfig) (*BrowserDriver, error) {
	runOpts := &playwright.RunOptions{
		Browsers: []string{browserName},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	device, ok := pw.Devices[deviceProfile]
	if !ok {
		pw.Stop()
		return nil, fmt.Errorf("unknown device profile %q", deviceProfile)
	}

	browser, err := pw.WebKit.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", browserName, err)
	}

	return &BrowserDriver{
		pw:      pw,
		browser: browser,
		device:  device,
		baseURL: baseURL,
		routes:  routes,
	}, nil
}

// NewSession opens a fresh device-emulated context with a single page.
func (d *BrowserDriver) NewSession() (MeasurementSession, error) {
	context, err := d.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(d.device.UserAgent),
		Viewport:          d.device.Viewport,
		DeviceScaleFactor: playwright.Float(d.device.DeviceScaleFactor),
		IsMobile:          playwright.Bool(d.device.IsMobile),
		HasTouch:          playwright.Bool(d.device.HasTouch),
		Locale:            playwright.String("en-US"),
		TimezoneId:        playwright.String("UTC"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &browserSession{
		context: context,
		page:    page,
		baseURL: d.baseURL,
		routes:  d.routes,
	}, nil
}

// Close tears down the browser process and stops Playwright.
func (d *BrowserDriver) Close() error {
	if err := d.browser.Close(); err != nil {
		d.pw.Stop()
		return fmt.Errorf("failed to close browser: %w", err)
	}
	if err := d.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// browserSession is the playwright-backed MeasurementSession.
type browserSession struct {
	context playwright.BrowserContext
	page    playwright.Page
	baseURL string
	routes  RouteConfig
}

func (s *browserSession) Navigate(route string) error {
	_, err := s.page.Goto(s.baseURL+route, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", route, err)
	}
	return nil
}

func (s *browserSession) CurrentPath() (string, error) {
	result, err := s.page.Evaluate(currentPathJS)
	if err != nil {
		return "", fmt.Errorf("failed to read current path: %w", err)
	}
	path, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected current path result: %v", result)
	}
	return path, nil
}

// WaitRouteReady is the route readiness gate: path equality, then a visible
// marker, then a short settle delay. Either wait timing out aborts the run.
func (s *browserSession) WaitRouteReady(route string) error {
	opts := playwright.PageWaitForFunctionOptions{
		Timeout: playwright.Float(routeReadyTimeoutMs),
	}

	if _, err := s.page.WaitForFunction(pathEqualsJS, route, opts); err != nil {
		return fmt.Errorf("route %s never became current: %w", route, err)
	}

	marker, ok := s.routes.Markers[route]
	if !ok {
		return fmt.Errorf("no readiness marker for route %s", route)
	}
	if _, err := s.page.WaitForFunction(visibleSelectorJS, marker, opts); err != nil {
		return fmt.Errorf("marker %q never became visible on %s: %w", marker, route, err)
	}

	s.page.WaitForTimeout(routeSettleDelayMs)
	return nil
}

func (s *browserSession) NavigationSnapshot() (NavigationSnapshot, error) {
	var snapshot NavigationSnapshot

	result, err := s.page.Evaluate(navigationSnapshotJS)
	if err != nil {
		return snapshot, fmt.Errorf("navigation snapshot failed: %w", err)
	}
	if err := decodeEvaluateResult(result, &snapshot); err != nil {
		return snapshot, fmt.Errorf("navigation snapshot decode failed: %w", err)
	}
	return snapshot, nil
}

func (s *browserSession) CaptureFrameStamps(sampleMs int) ([]float64, error) {
	result, err := s.page.Evaluate(frameStampsJS, map[string]interface{}{
		"durationMs": sampleMs,
	})
	if err != nil {
		return nil, fmt.Errorf("frame capture failed: %w", err)
	}

	var capture struct {
		Stamps []float64 `json:"stamps"`
	}
	if err := decodeEvaluateResult(result, &capture); err != nil {
		return nil, fmt.Errorf("frame capture decode failed: %w", err)
	}
	return capture.Stamps, nil
}

func (s *browserSession) TriggerTransition(edge TransitionEdge, sampleMs, timeoutMs int) (TransitionCapture, error) {
	var capture TransitionCapture

	result, err := s.page.Evaluate(transitionCaptureJS, map[string]interface{}{
		"selector":     edge.Selector,
		"expectedPath": edge.To,
		"sampleMs":     sampleMs,
		"timeoutMs":    timeoutMs,
		"pollMs":       pathPollIntervalMs,
	})
	if err != nil {
		return capture, fmt.Errorf("transition capture %s failed: %w", edge.Key(), err)
	}
	if err := decodeEvaluateResult(result, &capture); err != nil {
		return capture, fmt.Errorf("transition capture %s decode failed: %w", edge.Key(), err)
	}
	if capture.Error != "" {
		// The target UI is not in the expected state. Fatal by design of
		// the collector: the whole invocation aborts.
		return capture, fmt.Errorf("transition %s: %s", edge.Key(), capture.Error)
	}
	return capture, nil
}

func (s *browserSession) Close() error {
	if err := s.page.Close(); err != nil {
		s.context.Close()
		return fmt.Errorf("failed to close page: %w", err)
	}
	if err := s.context.Close(); err != nil {
		return fmt.Errorf("failed to close context: %w", err)
	}
	return nil
}

// decodeEvaluateResult round-trips an Evaluate result through JSON into a
// typed struct, turning absent fields into nil pointers.
func decodeEvaluateResult(result interface{}, out interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
