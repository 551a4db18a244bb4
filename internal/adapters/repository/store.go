// Package repository defines the activity registry store interface and errors.
package repository

import (
	"context"

	"github.com/mergington/activities/internal/domain/model"
)

// Store provides read/write access to the activity registry.
// Activities are created only by seeding; the API mutates rosters only.
type Store interface {
	// List returns a deep copy of every activity keyed by name.
	List(ctx context.Context) (map[string]model.Activity, error)

	// Get returns a copy of one activity.
	// Returns ErrActivityNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Signup appends email to the activity's roster.
	// Returns ErrActivityNotFound, ErrAlreadySignedUp, or ErrActivityFull
	// (the latter only with capacity enforcement on).
	Signup(ctx context.Context, name, email string) error

	// Unregister removes email from the activity's roster, keeping order.
	// Returns ErrActivityNotFound or ErrParticipantNotFound.
	Unregister(ctx context.Context, name, email string) error

	// Count returns the number of activities.
	Count(ctx context.Context) int
}

// Snapshotter is implemented by stores that can capture and restore their state.
type Snapshotter interface {
	Snapshot(ctx context.Context) map[string]model.Activity
	Restore(ctx context.Context, snap map[string]model.Activity)
}
