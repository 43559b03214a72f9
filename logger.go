package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ===============================
// Logging
// ===============================

// Logger writes to the console, and optionally tees into a timestamped log
// file next to the reports.
type Logger struct {
	file      *os.File
	multiOut  io.Writer
	startTime time.Time
	logPath   string
}

// NewLogger creates the logger. When enabled, a log file is created under
// outputDir/logs.
func NewLogger(outputDir string, enabled bool) (*Logger, error) {
	logger := &Logger{
		startTime: time.Now(),
	}

	if !enabled {
		logger.multiOut = os.Stdout
		return logger, nil
	}

	logDir := filepath.Join(outputDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := logger.startTime.Format("2006-01-02_15-04-05")
	logger.logPath = filepath.Join(logDir, fmt.Sprintf("%s.log", timestamp))

	file, err := os.Create(logger.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	logger.file = file
	logger.multiOut = io.MultiWriter(os.Stdout, file)

	return logger, nil
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// GetLogPath returns the log file path, empty when logging to console only.
func (l *Logger) GetLogPath() string {
	return l.logPath
}

// Printf writes a formatted message.
func (l *Logger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(l.multiOut, format, args...)
}

// Println writes a line.
func (l *Logger) Println(args ...interface{}) {
	fmt.Fprintln(l.multiOut, args...)
}

// Error writes a timestamped error line.
func (l *Logger) Error(format string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.multiOut, "[%s] ERROR %s\n", timestamp, msg)
}

// Section writes a section separator.
func (l *Logger) Section(title string) {
	l.Println()
	l.Printf("==================== %s ====================\n", title)
}

// LogConfig prints the effective run configuration.
func (l *Logger) LogConfig(cfg *Config) {
	l.Section("Run configuration")
	l.Printf("Base URL: %s\n", cfg.BaseURL)
	l.Printf("Browser/device: %s / %s\n", browserName, deviceProfile)
	l.Printf("Startup runs: %d (FPS window %dms)\n", cfg.StartupRuns, cfg.StartupFpsSampleMs)
	l.Printf("Transition rounds: %d (FPS window %dms, timeout %dms)\n",
		cfg.TransitionRounds, cfg.TransitionFpsSampleMs, cfg.TransitionTimeoutMs)
	l.Printf("Entry route: %s\n", cfg.Routes.Entry)
	l.Println("Transition edges:")
	for _, edge := range cfg.Routes.Transitions {
		l.Printf("  - %s (trigger %s)\n", edge.Key(), edge.Selector)
	}
}
