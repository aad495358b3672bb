package eventlog

import "errors"

// Domain errors for the eventlog package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, eventlog.ErrEventNotFound) {
//	    // handle not found case
//	}
var (
	// ErrEventNotFound is returned when an event ID does not exist.
	ErrEventNotFound = errors.New("eventlog: not found")

	// ErrEventExists is returned when recording an event with an ID that already exists.
	ErrEventExists = errors.New("eventlog: already exists")

	// ErrInvalidEvent is returned when event validation fails.
	ErrInvalidEvent = errors.New("eventlog: invalid event")
)
