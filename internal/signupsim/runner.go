package signupsim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mergington/activities/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes a full simulation: signup, verify, unregister, verify.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Get().Named("signupsim")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting signup simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("activity", cfg.Activity),
		logger.Int("students", cfg.Students),
		logger.Int("repeats", cfg.Repeats),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Healthy(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	before, err := client.Activities(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := before[cfg.Activity]; !ok {
		return nil, fmt.Errorf("activity %q not offered by %s", cfg.Activity, cfg.BaseURL)
	}

	emails := generateStudents(ctx, cfg.Students)
	stats.StudentsGenerated = len(emails)
	if cfg.OutputFile != "" {
		if err := saveEmails(cfg.OutputFile, emails); err != nil {
			log.Warn(ctx, "failed to save emails", logger.Error(err))
		}
	}

	stats.Signups = fanOut(ctx, cfg, "signup", expand(emails, cfg.Repeats), client.Signup)
	if err := verifyTally("signup", stats.Signups, len(emails), cfg.Repeats); err != nil {
		return stats, err
	}
	if err := verifyRoster(ctx, client, cfg.Activity, emails, verifyPresent); err != nil {
		return stats, err
	}

	stats.Unregisters = fanOut(ctx, cfg, "unregister", expand(emails, cfg.Repeats), client.Unregister)
	if err := verifyTally("unregister", stats.Unregisters, len(emails), cfg.Repeats); err != nil {
		return stats, err
	}
	if err := verifyRoster(ctx, client, cfg.Activity, emails, verifyAbsent); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func verifyRoster(ctx context.Context, client *HTTPClient, activity string, emails []string, check func(roster, emails []string) error) error {
	all, err := client.Activities(ctx)
	if err != nil {
		return err
	}
	a, ok := all[activity]
	if !ok {
		return fmt.Errorf("%w: activity %q disappeared", ErrVerification, activity)
	}
	return check(a.Participants, emails)
}

func saveEmails(filename string, emails []string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return os.WriteFile(filename, []byte(strings.Join(emails, "\n")+"\n"), filePermission)
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var requestsPerSecond float64
	if stats.Duration > 0 {
		total := stats.Signups.Submitted + stats.Unregisters.Submitted
		requestsPerSecond = float64(total) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("students", stats.StudentsGenerated),
		logger.Int("signupsAccepted", stats.Signups.OK),
		logger.Int("signupsRejected", stats.Signups.Duplicate),
		logger.Int("unregistersAccepted", stats.Unregisters.OK),
		logger.Int("unregistersRejected", stats.Unregisters.NotFound),
		logger.Duration("duration", stats.Duration),
		logger.Any("requestsPerSecond", requestsPerSecond),
	)
}
