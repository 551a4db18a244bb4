package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/mergington/activities/internal/signupsim"
)

// Default configuration constants.
const (
	defaultStudents   = 200
	defaultRepeats    = 2
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8000", "Base URL of the service")
		activity   = flag.String("activity", "Programming Class", "Activity to sign students up for")
		students   = flag.Int("students", defaultStudents, "Number of distinct students to generate")
		repeats    = flag.Int("repeats", defaultRepeats, "Signup attempts per student")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write generated emails to this file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		signupsim.ShowHelp(os.Stdout)
		return
	}

	closeLog, err := signupsim.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)

	cfg := &signupsim.Config{
		BaseURL:    *baseURL,
		Activity:   *activity,
		Students:   *students,
		Repeats:    *repeats,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	_, err = signupsim.Run(ctx, cfg)
	cancel()
	_ = closeLog()
	if err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
