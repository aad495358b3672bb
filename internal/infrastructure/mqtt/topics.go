package mqtt

import "fmt"

// Topic prefixes for the SentryGate MQTT scheme.
//
// All topics use the flat scheme: sentrygate/{category}/{name}
const (
	// TopicPrefix is the base for all SentryGate topics.
	TopicPrefix = "sentrygate"

	// TopicPrefixEvent is the base for security event topics.
	TopicPrefixEvent = "sentrygate/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "sentrygate/system"
)

// Topics provides builders for SentryGate MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	err := client.Publish(topics.EventDecision(), payload, 1, false)
type Topics struct{}

// EventMotion returns the topic for raw motion notifications from the
// door controller.
//
// Example: sentrygate/event/motion
func (Topics) EventMotion() string {
	return fmt.Sprintf("%s/motion", TopicPrefixEvent)
}

// EventDecision returns the topic for recognition decisions (authorized
// or intruder) published at the end of each detection cycle.
//
// Example: sentrygate/event/decision
func (Topics) EventDecision() string {
	return fmt.Sprintf("%s/decision", TopicPrefixEvent)
}

// SystemStatus returns the gateway status topic (retained online/offline,
// also used for the LWT).
//
// Example: sentrygate/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllEvents returns a pattern matching all security event topics.
//
// Pattern: sentrygate/event/+
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/+", TopicPrefixEvent)
}

// AllTopics returns a pattern matching all SentryGate topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: sentrygate/#
func (Topics) AllTopics() string {
	return "sentrygate/#"
}
