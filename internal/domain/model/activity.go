// Package model contains domain models passed between layers.
package model

import "slices"

// Activity is an extracurricular offering keyed by its name in the registry.
// Participants holds student emails in signup order.
type Activity struct {
	Description     string   `json:"description" koanf:"description" validate:"required"`
	Schedule        string   `json:"schedule" koanf:"schedule" validate:"required"`
	MaxParticipants int      `json:"max_participants" koanf:"max_participants" validate:"gte=1"`
	Participants    []string `json:"participants" koanf:"participants" validate:"unique,dive,required"`
}

// Clone returns a deep copy. Participants is never nil in the copy so it
// serializes as [] rather than null.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// HasParticipant reports whether email is on the roster.
func (a Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Full reports whether the roster reached capacity.
func (a Activity) Full() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// CloneAll deep-copies a registry mapping.
func CloneAll(in map[string]Activity) map[string]Activity {
	out := make(map[string]Activity, len(in))
	for name, a := range in {
		out[name] = a.Clone()
	}
	return out
}
