package recognition

import "errors"

// Package-level errors for recognition operations.
var (
	// ErrServiceUnavailable indicates the recognition service could not be
	// reached or returned a server error.
	ErrServiceUnavailable = errors.New("recognition: service unavailable")

	// ErrInvalidResponse indicates the recognition service answered with a
	// payload the client could not interpret.
	ErrInvalidResponse = errors.New("recognition: invalid response")

	// ErrNoFace indicates no face was found in the captured frame.
	ErrNoFace = errors.New("recognition: no face detected")
)
