package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession is a deterministic MeasurementSession: navigation always
// succeeds, captures return canned data and every path change is tracked.
type fakeSession struct {
	factory *fakeFactory

	path      string
	navigated []string
}

// fakeFactory hands out fakeSessions and records lifecycle counts.
type fakeFactory struct {
	snapshot      NavigationSnapshot
	stamps        []float64
	captureByEdge map[string]TransitionCapture
	transitionErr error

	sessionsOpened int
	sessionsClosed int
}

func (f *fakeFactory) NewSession() (MeasurementSession, error) {
	f.sessionsOpened++
	return &fakeSession{factory: f}, nil
}

func (s *fakeSession) Navigate(route string) error {
	s.path = route
	s.navigated = append(s.navigated, route)
	return nil
}

func (s *fakeSession) CurrentPath() (string, error) { return s.path, nil }

func (s *fakeSession) WaitRouteReady(route string) error { return nil }

func (s *fakeSession) NavigationSnapshot() (NavigationSnapshot, error) {
	return s.factory.snapshot, nil
}

func (s *fakeSession) CaptureFrameStamps(sampleMs int) ([]float64, error) {
	return s.factory.stamps, nil
}

func (s *fakeSession) TriggerTransition(edge TransitionEdge, sampleMs, timeoutMs int) (TransitionCapture, error) {
	if s.factory.transitionErr != nil {
		return TransitionCapture{}, s.factory.transitionErr
	}
	capture, ok := s.factory.captureByEdge[edge.Key()]
	if !ok {
		capture = TransitionCapture{
			StartPath:            edge.From,
			EndPath:              edge.To,
			NavigationDurationMs: fp(120),
			ReachedExpectedPath:  true,
			Stamps:               s.factory.stamps,
		}
	}
	s.path = capture.EndPath
	return capture, nil
}

func (s *fakeSession) Close() error {
	s.factory.sessionsClosed++
	return nil
}

func testConfig() *Config {
	return &Config{
		BaseURL:               "http://127.0.0.1:5173",
		StartupRuns:           3,
		TransitionRounds:      2,
		StartupFpsSampleMs:    3000,
		TransitionFpsSampleMs: 1800,
		TransitionTimeoutMs:   5000,
		Routes:                defaultRouteConfig(),
	}
}

func testLogger(t *testing.T) *Logger {
	t.Helper()
	log, err := NewLogger("", false)
	require.NoError(t, err)
	return log
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		snapshot: NavigationSnapshot{
			Navigation: &NavigationTiming{
				ResponseStart: fp(12.5),
				DomComplete:   fp(180),
				LoadEventEnd:  fp(200),
			},
			Paint: map[string]float64{"first-paint": 95, "first-contentful-paint": 130},
			Route: "http://127.0.0.1:5173/signin",
		},
		stamps: []float64{0, 10, 20, 50, 60},
	}
}

func TestCollectStartupRuns(t *testing.T) {
	factory := newFakeFactory()
	cfg := testConfig()

	runs, err := collectStartupRuns(factory, cfg, testLogger(t))
	require.NoError(t, err)

	require.Len(t, runs, 3)
	for i, run := range runs {
		assert.Equal(t, i+1, run.Run, "run indices start at 1")
		assert.Equal(t, "http://127.0.0.1:5173/signin", run.Route)
		require.NotNil(t, run.Metrics.StartupFps)
		assert.Equal(t, 4, run.Metrics.StartupFps.TotalFrames)
	}

	// One fresh context per run, every one closed.
	assert.Equal(t, 3, factory.sessionsOpened)
	assert.Equal(t, 3, factory.sessionsClosed)
}

func TestCollectTransitionRounds(t *testing.T) {
	factory := newFakeFactory()
	cfg := testConfig()

	rounds, err := collectTransitionRounds(factory, cfg, testLogger(t))
	require.NoError(t, err)

	require.Len(t, rounds, 2)
	for i, round := range rounds {
		assert.Equal(t, i+1, round.Round)
		require.Len(t, round.Transitions, len(cfg.Routes.Transitions))
		for j, m := range round.Transitions {
			edge := cfg.Routes.Transitions[j]
			assert.Equal(t, edge.From, m.From, "measurements stay in edge order")
			assert.Equal(t, edge.To, m.To)
			assert.True(t, m.Metrics.ReachedExpectedPath)
		}
	}

	assert.Equal(t, 2, factory.sessionsOpened)
	assert.Equal(t, 2, factory.sessionsClosed)
}

func TestCollectTransitionRounds_FailFastOnMissingTarget(t *testing.T) {
	factory := newFakeFactory()
	factory.transitionErr = errors.New("no visible transition target for selector: a[href=\"/signup\"]")
	cfg := testConfig()

	rounds, err := collectTransitionRounds(factory, cfg, testLogger(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no visible transition target")
	assert.Nil(t, rounds)
	// The failed round's context is still torn down.
	assert.Equal(t, factory.sessionsOpened, factory.sessionsClosed)
}

func TestCollectionPipeline_Idempotent(t *testing.T) {
	cfg := testConfig()

	collect := func() *PerfReport {
		factory := newFakeFactory()
		runs, err := collectStartupRuns(factory, cfg, testLogger(t))
		require.NoError(t, err)
		rounds, err := collectTransitionRounds(factory, cfg, testLogger(t))
		require.NoError(t, err)
		return BuildReport(cfg, runs, rounds)
	}

	first := collect()
	second := collect()

	// Identical deterministic input must yield numerically identical
	// summaries: aggregation has no hidden nondeterminism.
	assert.Equal(t, first.Startup.Summary, second.Startup.Summary)
	assert.Equal(t, first.Transitions.SummaryByRouteEdge, second.Transitions.SummaryByRouteEdge)
}
