// Package signupsim drives concurrent signup and unregister traffic against a
// running activities server and checks the resulting rosters.
package signupsim

import (
	"errors"
	"time"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Activity   string        // Activity every simulated student joins
	Students   int           // Number of distinct students to generate
	Repeats    int           // Signup attempts per student; extra attempts must be rejected
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional file receiving the generated emails
	Verbose    bool          // Enable verbose logging
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Validate checks the config before a run.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("base url must not be empty"))
	case c.Activity == "":
		return errors.Join(ErrInvalidConfig, errors.New("activity must not be empty"))
	case c.Students < 1:
		return errors.Join(ErrInvalidConfig, errors.New("students must be positive"))
	case c.Repeats < 1:
		return errors.Join(ErrInvalidConfig, errors.New("repeats must be positive"))
	case c.Workers < 1:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be positive"))
	case c.Timeout <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("timeout must be positive"))
	}
	return nil
}

// Activity mirrors one entry of GET /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Result classifies a single participant request.
type Result string

// Request results.
const (
	ResultOK        Result = "ok"
	ResultDuplicate Result = "duplicate"
	ResultFull      Result = "full"
	ResultNotFound  Result = "not_found"
	ResultFailed    Result = "failed"
)

// Tally counts results of one phase.
type Tally struct {
	Submitted int
	OK        int
	Duplicate int
	Full      int
	NotFound  int
	Failed    int
}

func (t *Tally) add(r Result) {
	t.Submitted++
	switch r {
	case ResultOK:
		t.OK++
	case ResultDuplicate:
		t.Duplicate++
	case ResultFull:
		t.Full++
	case ResultNotFound:
		t.NotFound++
	default:
		t.Failed++
	}
}

// Stats holds run statistics.
type Stats struct {
	StudentsGenerated int
	Signups           Tally
	Unregisters       Tally
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
