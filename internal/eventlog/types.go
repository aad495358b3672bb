package eventlog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the decision recorded for a security event.
type Status string

// Event statuses.
const (
	// StatusAuthorized marks a recognised, admitted person.
	StatusAuthorized Status = "authorized"

	// StatusIntruder marks an unrecognised person or a failed recognition.
	StatusIntruder Status = "intruder"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusAuthorized || s == StatusIntruder
}

// UnknownName is recorded when recognition cannot put a name to the person.
const UnknownName = "Unknown"

// SecurityEvent is one completed detection cycle: a motion trigger, the
// recognition decision, and an optional capture.
type SecurityEvent struct {
	// ID is a UUID assigned when the event is created.
	ID string `json:"id"`

	// OccurredAt is when the motion notification arrived (UTC).
	OccurredAt time.Time `json:"occurred_at"`

	// Name is the recognised identity, or UnknownName.
	Name string `json:"name"`

	// Status is the decision made for this event.
	Status Status `json:"status"`

	// ImageURL optionally points at the captured frame in object storage.
	ImageURL string `json:"image_url,omitempty"`

	// Source identifies the gateway that recorded the event.
	Source string `json:"source"`

	// CreatedAt is when the event row was written (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent creates a SecurityEvent with a fresh UUID and UTC timestamps.
func NewEvent(occurredAt time.Time, name string, status Status, imageURL, source string) SecurityEvent {
	if name == "" {
		name = UnknownName
	}
	now := time.Now().UTC()
	return SecurityEvent{
		ID:         uuid.NewString(),
		OccurredAt: occurredAt.UTC(),
		Name:       name,
		Status:     status,
		ImageURL:   imageURL,
		Source:     source,
		CreatedAt:  now,
	}
}

// Validate checks the event before persistence.
func (e *SecurityEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidEvent)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred_at is required", ErrInvalidEvent)
	}
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEvent)
	}
	if !e.Status.Valid() {
		return fmt.Errorf("%w: status %q is not recognised", ErrInvalidEvent, e.Status)
	}
	return nil
}

// Stats summarises the event log for the dashboard header.
type Stats struct {
	// Total is the number of recorded events.
	Total int `json:"total"`

	// Authorized is the number of authorized events.
	Authorized int `json:"authorized"`

	// Intruders is the number of intruder events.
	Intruders int `json:"intruders"`

	// LastEventAt is the occurred_at of the newest event; zero when the
	// log is empty.
	LastEventAt time.Time `json:"last_event_at,omitempty"`
}
