package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrUserExists is returned when registering a user id that is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrNoEffectiveChange is returned by edit usecases when every requested
	// field is either omitted or identical to the stored value.
	ErrNoEffectiveChange = errors.New("no effective changes")
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
)
