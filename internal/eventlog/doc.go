// Package eventlog persists security events recorded by the gateway.
//
// Every completed detection cycle produces one SecurityEvent: who (or
// "Unknown") approached the gate, the decision made, and an optional link to
// the captured image. Events are stored locally in SQLite and served to
// dashboards through the REST API and the WebSocket stream.
//
// The Repository interface abstracts the store so handlers and the
// orchestrator can be tested against in-memory stubs.
package eventlog
