package recognition

import "context"

// Decision is the outcome of one recognition round trip.
type Decision struct {
	// Name is the recognised identity. Empty when nobody was matched.
	Name string

	// Authorized reports whether the identity is on the allow list.
	Authorized bool

	// ImageURL optionally points at the captured frame, when the service
	// stores captures.
	ImageURL string
}

// Recognizer answers the question "who is at the gate, and may they enter".
//
// Implementations must honour ctx cancellation and deadlines. The caller
// applies the configured recognition timeout; a Recognizer should not add
// its own longer one.
type Recognizer interface {
	Recognize(ctx context.Context) (Decision, error)
}
