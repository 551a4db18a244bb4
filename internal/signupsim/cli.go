package signupsim

import (
	"fmt"
	"io"
	"os"

	"github.com/mergington/activities/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging initialises the global logger writing to stdout and, when
// logFile is set, to that file as well. The returned func closes the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	var (
		out    io.Writer = os.Stdout
		closer           = func() error { return nil }
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file.Close
	}

	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

// ShowHelp prints usage information for the signup simulator.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Mergington Signup Simulator
===========================

Signs up many generated students for one activity concurrently, checks that
each appears exactly once, then unregisters them and checks they are gone.

Usage:
  go run ./cmd/signup-sim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -activity string
        Activity to sign students up for (default "Programming Class")
  -students int
        Number of distinct students to generate (default 200)
  -repeats int
        Signup attempts per student; all but one must be rejected (default 2)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Write generated emails to this file
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  go run ./cmd/signup-sim -students 1000 -workers 32
  go run ./cmd/signup-sim -activity "Chess Club" -repeats 4 -verbose
`)
}
