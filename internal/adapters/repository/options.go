// Package repository defines the activity registry store interface and errors.
package repository

import "github.com/mergington/activities/internal/domain/model"

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithSeed sets the initial registry contents. The map is deep-copied.
func WithSeed(activities map[string]model.Activity) Option {
	return func(s *InMemoryStore) {
		if activities != nil {
			s.activities = model.CloneAll(activities)
		}
	}
}

// WithCapacityEnforcement makes Signup fail with ErrActivityFull once a
// roster reaches max_participants.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *InMemoryStore) {
		s.enforceCapacity = enabled
	}
}
