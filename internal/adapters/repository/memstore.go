package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mergington/activities/internal/domain/model"
)

// InMemoryStore keeps the registry in a map guarded by a single RWMutex.
// Every read-check-mutate sequence holds the write lock for its whole
// duration, so concurrent signups of the same email cannot both succeed.
type InMemoryStore struct {
	mu              sync.RWMutex
	activities      map[string]model.Activity
	enforceCapacity bool
}

var (
	_ Store       = (*InMemoryStore)(nil)
	_ Snapshotter = (*InMemoryStore)(nil)
)

// NewInMemoryStore creates an empty store unless WithSeed is given.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		activities: make(map[string]model.Activity),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List implements Store.List.
func (s *InMemoryStore) List(ctx context.Context) (map[string]model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.activities), nil
}

// Get implements Store.Get.
func (s *InMemoryStore) Get(ctx context.Context, name string) (model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return model.Activity{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[name]
	if !ok {
		return model.Activity{}, fmt.Errorf("%w: %q", ErrActivityNotFound, name)
	}
	return a.Clone(), nil
}

// Signup implements Store.Signup.
func (s *InMemoryStore) Signup(ctx context.Context, name, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrActivityNotFound, name)
	}
	if a.HasParticipant(email) {
		return fmt.Errorf("%w: %s in %q", ErrAlreadySignedUp, email, name)
	}
	if s.enforceCapacity && a.Full() {
		return fmt.Errorf("%w: %q has %d of %d", ErrActivityFull, name, len(a.Participants), a.MaxParticipants)
	}
	// Copy-on-write: rosters handed out by Snapshot must never alias this one.
	roster := make([]string, len(a.Participants), len(a.Participants)+1)
	copy(roster, a.Participants)
	a.Participants = append(roster, email)
	s.activities[name] = a
	return nil
}

// Unregister implements Store.Unregister.
func (s *InMemoryStore) Unregister(ctx context.Context, name, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrActivityNotFound, name)
	}
	idx := slices.Index(a.Participants, email)
	if idx < 0 {
		return fmt.Errorf("%w: %s in %q", ErrParticipantNotFound, email, name)
	}
	roster := make([]string, 0, len(a.Participants)-1)
	roster = append(roster, a.Participants[:idx]...)
	roster = append(roster, a.Participants[idx+1:]...)
	a.Participants = roster
	s.activities[name] = a
	return nil
}

// Count implements Store.Count.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}

// Snapshot captures a deep copy of the registry.
func (s *InMemoryStore) Snapshot(_ context.Context) map[string]model.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.activities)
}

// Restore replaces the registry with a deep copy of snap.
func (s *InMemoryStore) Restore(_ context.Context, snap map[string]model.Activity) {
	next := model.CloneAll(snap)
	s.mu.Lock()
	s.activities = next
	s.mu.Unlock()
}
