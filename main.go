package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// Global logger, set up in run().
var logger *Logger

func main() {
	if err := run(os.Args[1:]); err != nil {
		if logger != nil {
			logger.Error("%v", err)
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err = NewLogger(filepath.Dir(cfg.OutputJSON), cfg.EnableLog)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	logger.Println("🚀 Auth runtime profiler")
	logger.Println("========================")
	logger.LogConfig(cfg)

	driver, err := NewBrowserDriver(cfg.BaseURL, cfg.Routes)
	if err != nil {
		return err
	}
	defer driver.Close()

	logger.Section("Startup collection")
	startupRuns, err := collectStartupRuns(driver, cfg, logger)
	if err != nil {
		return err
	}

	logger.Section("Transition collection")
	transitionRounds, err := collectTransitionRounds(driver, cfg, logger)
	if err != nil {
		return err
	}

	report := BuildReport(cfg, startupRuns, transitionRounds)

	printStartupTable(report.Startup.Summary, cfg.Routes.Entry)
	printTransitionTable(report.Transitions.SummaryByRouteEdge, cfg.Routes.Transitions)

	logger.Section("Report generation")
	if err := ExportJSON(report, cfg.OutputJSON); err != nil {
		return err
	}
	if err := ExportMarkdown(report, cfg.OutputMD); err != nil {
		return err
	}

	logger.Printf("📄 JSON report: %s\n", cfg.OutputJSON)
	logger.Printf("📄 Markdown report: %s\n", cfg.OutputMD)
	if logger.GetLogPath() != "" {
		logger.Printf("📝 Log file: %s\n", logger.GetLogPath())
	}
	logger.Println("\n✅ Profiling complete!")

	return nil
}
