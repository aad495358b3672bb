// Package api implements the HTTP REST API and WebSocket server for the
// SentryGate gateway.
//
// This package provides:
//   - REST endpoints for the security event log and summary statistics
//   - An alarm cancel control for silencing a sounding siren remotely
//   - WebSocket hub broadcasting completed events to dashboard clients
//   - Middleware stack (request ID, logging, recovery, CORS)
//
// # Architecture
//
// The API server sits between dashboard clients and the gateway's event
// pipeline. The orchestrator records each completed detection cycle to
// the repository and pushes it into the WebSocket hub; REST reads go
// straight to the repository.
//
// # Graceful Degradation
//
// The server operates without the device link: the event log and
// WebSocket stream keep working, only the alarm cancel control fails.
package api
