// Package protocol defines the serial command protocol spoken between the
// SentryGate host gateway and the door controller firmware.
//
// Two incompatible wire variants exist, matching the two hardware revisions:
//
//   - Line variant: newline-terminated ASCII tokens (MOTION, ALARM_ON,
//     WELCOME, ALARM_OFF). Used by the first-revision board, which has no
//     gate actuator. Advisory lines prefixed [DEBUG], [ACK] or [INFO] may
//     appear on the wire and are skipped by the parser.
//
//   - Byte variant: single-character downstream commands ('A' = authorized,
//     'I' = intruder). Whitespace bytes are ignored. Used by the
//     gate-equipped board. Upstream motion notifications remain
//     line-terminated on both variants.
//
// A deployment runs exactly one variant, selected by configuration; there is
// no negotiation on the wire.
//
// Both variants share the same guarantees: commands are delivered in arrival
// order, unrecognised input is dropped silently, and no command requires an
// acknowledgment before the next may be sent.
package protocol
