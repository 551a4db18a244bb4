package repository

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrActivityNotFound    = errors.New("activity not found")
	ErrAlreadySignedUp     = errors.New("already signed up")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrActivityFull        = errors.New("activity is full")
)
