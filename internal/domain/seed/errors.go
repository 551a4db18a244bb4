package seed

import "errors"

// Sentinel kinds for catalogue loading.
var (
	ErrLoadSeed          = errors.New("load seed failed")
	ErrInvalidSeed       = errors.New("invalid seed")
	ErrDuplicateActivity = errors.New("duplicate activity name")
)
