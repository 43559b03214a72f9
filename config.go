package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ===============================
// Configuration
// ===============================

// Fixed measurement constants. These are deliberately not flags: they define
// what the metrics mean, and changing them would make reports incomparable.
const (
	routeReadyTimeoutMs     = 15000.0 // path match + visible marker wait bound
	routeSettleDelayMs      = 250.0   // post-readiness layout/paint settle
	pathPollIntervalMs      = 16      // transition path-change poll interval
	droppedFrameThresholdMs = 24.0    // inter-frame gap counted as a dropped frame

	browserName   = "webkit"
	deviceProfile = "iPhone 13"
)

// Config holds one invocation's run parameters.
type Config struct {
	BaseURL               string // app base URL, no trailing slash
	StartupRuns           int    // cold-load repetitions of the entry route
	TransitionRounds      int    // full walks of the transition edge list
	StartupFpsSampleMs    int    // startup FPS sample window
	TransitionFpsSampleMs int    // minimum per-transition FPS sample window
	TransitionTimeoutMs   int    // transition path-change timeout

	OutputJSON string
	OutputMD   string
	EnableLog  bool // tee console output into a log file

	Routes RouteConfig
}

// RouteConfig is the app's navigation graph: the entry route, a visible DOM
// marker per route, and the ordered transition edges to exercise.
type RouteConfig struct {
	Entry       string            `yaml:"entry"`
	Markers     map[string]string `yaml:"markers"`
	Transitions []TransitionEdge  `yaml:"transitions"`
}

// TransitionEdge is one directed edge of the route graph plus the selector
// whose first visible match triggers the navigation.
type TransitionEdge struct {
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	Selector string `json:"selector" yaml:"selector"`
}

// Key returns the edge's summary grouping key.
func (e TransitionEdge) Key() string {
	return e.From + "->" + e.To
}

// defaultRouteConfig returns the compiled-in auth route graph.
func defaultRouteConfig() RouteConfig {
	return RouteConfig{
		Entry: "/signin",
		Markers: map[string]string{
			"/signin":          `a[href="/signup"]`,
			"/signup":          `a[href="/signin"]`,
			"/forgot-password": `a[href="/signin"]`,
		},
		Transitions: []TransitionEdge{
			{From: "/signin", To: "/signup", Selector: `a[href="/signup"]`},
			{From: "/signup", To: "/signin", Selector: `a[href="/signin"]`},
			{From: "/signin", To: "/forgot-password", Selector: `a[href="/forgot-password"]`},
			{From: "/forgot-password", To: "/signin", Selector: `a[href="/signin"]`},
		},
	}
}

// LoadConfig parses CLI flags and the optional route graph file.
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("auth-perf-profiler", flag.ContinueOnError)

	cfg := &Config{}
	var routesPath string

	fs.StringVar(&cfg.BaseURL, "base-url", "http://127.0.0.1:5173", "App base URL")
	fs.IntVar(&cfg.StartupRuns, "startup-runs", 3, "Number of startup runs")
	fs.IntVar(&cfg.TransitionRounds, "transition-rounds", 2, "Number of full transition rounds")
	fs.IntVar(&cfg.StartupFpsSampleMs, "startup-fps-sample-ms", 3000, "Startup FPS sample window in milliseconds")
	fs.IntVar(&cfg.TransitionFpsSampleMs, "transition-fps-sample-ms", 1800, "Transition FPS sample window in milliseconds")
	fs.IntVar(&cfg.TransitionTimeoutMs, "transition-timeout-ms", 5000, "Transition path-change timeout in milliseconds")
	fs.StringVar(&cfg.OutputJSON, "output-json", "perf/auth_perf_report.json", "Output path for JSON report")
	fs.StringVar(&cfg.OutputMD, "output-md", "perf/auth_perf_report.md", "Output path for Markdown summary")
	fs.BoolVar(&cfg.EnableLog, "log", false, "Also write console output to a log file")
	fs.StringVar(&routesPath, "routes", "", "Optional YAML file overriding the route graph")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.StartupRuns < 1 {
		return nil, fmt.Errorf("startup-runs must be >= 1, got %d", cfg.StartupRuns)
	}
	if cfg.TransitionRounds < 1 {
		return nil, fmt.Errorf("transition-rounds must be >= 1, got %d", cfg.TransitionRounds)
	}

	cfg.Routes = defaultRouteConfig()
	if routesPath != "" {
		routes, err := loadRouteConfig(routesPath)
		if err != nil {
			return nil, err
		}
		cfg.Routes = routes
	}

	if err := cfg.Routes.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadRouteConfig reads a route graph override from a YAML file.
func loadRouteConfig(path string) (RouteConfig, error) {
	var routes RouteConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return routes, fmt.Errorf("failed to read route config: %w", err)
	}
	if err := yaml.Unmarshal(data, &routes); err != nil {
		return routes, fmt.Errorf("failed to parse route config: %w", err)
	}
	return routes, nil
}

// validate enforces the graph invariant: every route the profiler navigates
// to needs a readiness marker, otherwise the gate can never pass.
func (rc RouteConfig) validate() error {
	if rc.Entry == "" {
		return fmt.Errorf("route config has no entry route")
	}
	if len(rc.Transitions) == 0 {
		return fmt.Errorf("route config has no transition edges")
	}
	if _, ok := rc.Markers[rc.Entry]; !ok {
		return fmt.Errorf("no readiness marker for entry route %s", rc.Entry)
	}
	for _, edge := range rc.Transitions {
		if _, ok := rc.Markers[edge.From]; !ok {
			return fmt.Errorf("no readiness marker for route %s (edge %s)", edge.From, edge.Key())
		}
		if _, ok := rc.Markers[edge.To]; !ok {
			return fmt.Errorf("no readiness marker for route %s (edge %s)", edge.To, edge.Key())
		}
		if edge.Selector == "" {
			return fmt.Errorf("edge %s has no trigger selector", edge.Key())
		}
	}
	return nil
}
