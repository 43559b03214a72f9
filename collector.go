package main

import "fmt"

// ===============================
// Run collectors
// ===============================

// collectStartupRuns performs cfg.StartupRuns cold loads of the entry route,
// each in a fresh isolated context. Every run records a navigation/paint
// snapshot and a frame-rate sample. Any error is fatal: runs execute exactly
// once, with no retries.
func collectStartupRuns(factory SessionFactory, cfg *Config, log *Logger) ([]StartupRun, error) {
	runs := make([]StartupRun, 0, cfg.StartupRuns)

	for runID := 1; runID <= cfg.StartupRuns; runID++ {
		log.Printf("\n🔄 Startup run %d/%d...\n", runID, cfg.StartupRuns)

		run, err := measureStartupRun(factory, cfg, runID)
		if err != nil {
			return nil, fmt.Errorf("startup run %d: %w", runID, err)
		}

		if fps := run.Metrics.StartupFps; fps != nil {
			log.Printf("  ✓ avgFps: %.2f, p95 frame: %.2fms, dropped: %.2f%%\n",
				fps.AvgFps, fps.P95FrameMs, fps.DroppedFrameRatio*100)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// measureStartupRun runs one cold load in its own context. The context is
// always closed, including on measurement failure.
func measureStartupRun(factory SessionFactory, cfg *Config, runID int) (StartupRun, error) {
	var run StartupRun

	session, err := factory.NewSession()
	if err != nil {
		return run, err
	}
	defer session.Close()

	if err := session.Navigate(cfg.Routes.Entry); err != nil {
		return run, err
	}
	if err := session.WaitRouteReady(cfg.Routes.Entry); err != nil {
		return run, err
	}

	snapshot, err := session.NavigationSnapshot()
	if err != nil {
		return run, err
	}

	stamps, err := session.CaptureFrameStamps(cfg.StartupFpsSampleMs)
	if err != nil {
		return run, err
	}
	fps := computeFrameStats(stamps)

	return StartupRun{
		Run:   runID,
		Route: snapshot.Route,
		Metrics: StartupMetrics{
			Navigation: snapshot.Navigation,
			Paint:      snapshot.Paint,
			StartupFps: &fps,
		},
	}, nil
}

// collectTransitionRounds walks the configured edge list cfg.TransitionRounds
// times, each round in a fresh context. A missing transition target aborts
// the entire invocation: it signals the UI is not in the expected state, and
// masking that by skipping the edge would hide a regression.
func collectTransitionRounds(factory SessionFactory, cfg *Config, log *Logger) ([]TransitionRound, error) {
	rounds := make([]TransitionRound, 0, cfg.TransitionRounds)

	for roundID := 1; roundID <= cfg.TransitionRounds; roundID++ {
		log.Printf("\n🔄 Transition round %d/%d...\n", roundID, cfg.TransitionRounds)

		round, err := measureTransitionRound(factory, cfg, roundID, log)
		if err != nil {
			return nil, fmt.Errorf("transition round %d: %w", roundID, err)
		}
		rounds = append(rounds, round)
	}

	return rounds, nil
}

// measureTransitionRound walks every edge once in a fresh context. Edges that
// do not chain from the previous destination are handled by an explicit
// navigation back to the edge's source route.
func measureTransitionRound(factory SessionFactory, cfg *Config, roundID int, log *Logger) (TransitionRound, error) {
	var round TransitionRound

	session, err := factory.NewSession()
	if err != nil {
		return round, err
	}
	defer session.Close()

	if err := session.Navigate(cfg.Routes.Entry); err != nil {
		return round, err
	}
	if err := session.WaitRouteReady(cfg.Routes.Entry); err != nil {
		return round, err
	}

	measurements := make([]TransitionMeasurement, 0, len(cfg.Routes.Transitions))
	for _, edge := range cfg.Routes.Transitions {
		current, err := session.CurrentPath()
		if err != nil {
			return round, err
		}
		if current != edge.From {
			if err := session.Navigate(edge.From); err != nil {
				return round, err
			}
			if err := session.WaitRouteReady(edge.From); err != nil {
				return round, err
			}
		}

		capture, err := session.TriggerTransition(edge, cfg.TransitionFpsSampleMs, cfg.TransitionTimeoutMs)
		if err != nil {
			return round, err
		}

		if err := session.WaitRouteReady(edge.To); err != nil {
			return round, err
		}

		metrics := TransitionMetrics{
			From:                 capture.StartPath,
			To:                   capture.EndPath,
			ExpectedTo:           edge.To,
			NavigationDurationMs: capture.NavigationDurationMs,
			ReachedExpectedPath:  capture.ReachedExpectedPath,
			FrameRateSample:      computeFrameStats(capture.Stamps),
		}

		log.Printf("  ✓ %s: avgFps %.2f, nav %s\n",
			edge.Key(), metrics.AvgFps, formatNavDuration(metrics.NavigationDurationMs))

		measurements = append(measurements, TransitionMeasurement{
			From:     edge.From,
			To:       edge.To,
			Selector: edge.Selector,
			Metrics:  metrics,
		})
	}

	round.Round = roundID
	round.Transitions = measurements
	return round, nil
}

func formatNavDuration(ms *float64) string {
	if ms == nil {
		return "timeout"
	}
	return fmt.Sprintf("%.2fms", *ms)
}
