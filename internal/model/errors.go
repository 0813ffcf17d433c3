package model

import "errors"

// Domain errors returned by the core. Callers match them with errors.Is.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrWeakPassword       = errors.New("password rejected")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
