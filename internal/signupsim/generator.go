package signupsim

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mergington/activities/pkg/logger"
)

// EmailDomain is appended to every generated student address.
const EmailDomain = "mergington.edu"

// generateStudents returns n distinct student emails.
func generateStudents(ctx context.Context, n int) []string {
	emails := make([]string, n)
	for i := range emails {
		emails[i] = fmt.Sprintf("sim-%s@%s", uuid.NewString(), EmailDomain)
	}
	logger.Get().Info(ctx, "generated students", logger.Int("count", n))
	return emails
}

// expand repeats each email the given number of times, interleaving rounds
// so that repeated attempts for one student land on different workers.
func expand(emails []string, repeats int) []string {
	out := make([]string, 0, len(emails)*repeats)
	for r := 0; r < repeats; r++ {
		out = append(out, emails...)
	}
	return out
}
