package signupsim

import (
	"errors"
	"fmt"
)

// ErrVerification is returned when the registry disagrees with the traffic sent.
var ErrVerification = errors.New("roster verification failed")

// verifyPresent checks every email appears in roster exactly once.
func verifyPresent(roster, emails []string) error {
	counts := make(map[string]int, len(roster))
	for _, p := range roster {
		counts[p]++
	}
	for p, n := range counts {
		if n > 1 {
			return fmt.Errorf("%w: %s appears %d times", ErrVerification, p, n)
		}
	}
	for _, e := range emails {
		if counts[e] != 1 {
			return fmt.Errorf("%w: %s missing from roster", ErrVerification, e)
		}
	}
	return nil
}

// verifyAbsent checks no email remains in roster.
func verifyAbsent(roster, emails []string) error {
	gone := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		gone[e] = struct{}{}
	}
	for _, p := range roster {
		if _, ok := gone[p]; ok {
			return fmt.Errorf("%w: %s still signed up", ErrVerification, p)
		}
	}
	return nil
}

// verifyTally checks the counts a phase should produce for n students making
// attempts requests each: exactly one accepted request per student.
func verifyTally(phase string, t Tally, n, attempts int) error {
	switch {
	case t.Failed > 0:
		return fmt.Errorf("%w: %s had %d failed requests", ErrVerification, phase, t.Failed)
	case t.Full > 0:
		return fmt.Errorf("%w: %s hit capacity %d times", ErrVerification, phase, t.Full)
	case t.OK != n:
		return fmt.Errorf("%w: %s accepted %d of %d students", ErrVerification, phase, t.OK, n)
	case t.Duplicate+t.NotFound != n*(attempts-1):
		return fmt.Errorf("%w: %s rejected %d repeats, want %d",
			ErrVerification, phase, t.Duplicate+t.NotFound, n*(attempts-1))
	}
	return nil
}
