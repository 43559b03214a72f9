package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:5173", cfg.BaseURL)
	assert.Equal(t, 3, cfg.StartupRuns)
	assert.Equal(t, 2, cfg.TransitionRounds)
	assert.Equal(t, 3000, cfg.StartupFpsSampleMs)
	assert.Equal(t, 1800, cfg.TransitionFpsSampleMs)
	assert.Equal(t, 5000, cfg.TransitionTimeoutMs)

	assert.Equal(t, "/signin", cfg.Routes.Entry)
	assert.Len(t, cfg.Routes.Transitions, 4)
	assert.Len(t, cfg.Routes.Markers, 3)
}

func TestLoadConfig_TrimsTrailingSlash(t *testing.T) {
	cfg, err := LoadConfig([]string{"-base-url", "http://localhost:3000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
}

func TestLoadConfig_RejectsNonPositiveCounts(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero startup runs", []string{"-startup-runs", "0"}},
		{"negative transition rounds", []string{"-transition-rounds", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_RouteOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	routesYAML := `
entry: /home
markers:
  /home: "#home-marker"
  /about: "#about-marker"
transitions:
  - from: /home
    to: /about
    selector: a[href="/about"]
`
	require.NoError(t, os.WriteFile(path, []byte(routesYAML), 0644))

	cfg, err := LoadConfig([]string{"-routes", path})
	require.NoError(t, err)

	assert.Equal(t, "/home", cfg.Routes.Entry)
	require.Len(t, cfg.Routes.Transitions, 1)
	assert.Equal(t, "/home->/about", cfg.Routes.Transitions[0].Key())
	assert.Equal(t, "#home-marker", cfg.Routes.Markers["/home"])
}

func TestLoadConfig_RouteOverrideMissingMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	// /about has no readiness marker; the gate could never pass for it.
	routesYAML := `
entry: /home
markers:
  /home: "#home-marker"
transitions:
  - from: /home
    to: /about
    selector: a[href="/about"]
`
	require.NoError(t, os.WriteFile(path, []byte(routesYAML), 0644))

	_, err := LoadConfig([]string{"-routes", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no readiness marker")
}

func TestRouteConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RouteConfig)
		wantErr string
	}{
		{
			name:    "valid default",
			mutate:  func(rc *RouteConfig) {},
			wantErr: "",
		},
		{
			name:    "missing entry marker",
			mutate:  func(rc *RouteConfig) { delete(rc.Markers, rc.Entry) },
			wantErr: "no readiness marker for entry route",
		},
		{
			name:    "empty selector",
			mutate:  func(rc *RouteConfig) { rc.Transitions[0].Selector = "" },
			wantErr: "no trigger selector",
		},
		{
			name:    "no transitions",
			mutate:  func(rc *RouteConfig) { rc.Transitions = nil },
			wantErr: "no transition edges",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := defaultRouteConfig()
			tt.mutate(&rc)
			err := rc.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
