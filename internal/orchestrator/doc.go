// Package orchestrator runs the host side of the detection cycle.
//
// The cycle begins when the device reports motion and ends when a
// decision command is on the wire: recognize the person, choose
// authorized or intruder, command the device, then record the outcome.
// Only one cycle runs at a time; motion reported mid-cycle is counted
// and dropped rather than queued, because a person standing at the gate
// keeps the sensor high and queued repeats would just replay the same
// decision.
//
// The security decision fails closed. Any recognition error, including
// a timeout, is treated as an intruder.
package orchestrator
