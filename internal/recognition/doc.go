// Package recognition decides whether the person who triggered a motion
// event is allowed through the gate.
//
// Two recognizers are provided. ServiceRecognizer calls an external HTTP
// face recognition service and maps its answer to a Decision. Allowlist
// loads a static YAML file of known identities and is used for deployments
// without a recognition service, or as a development stand-in.
//
// The orchestrator treats any recognizer error as a denial. Recognizers
// therefore report errors honestly rather than guessing; the fail-closed
// policy lives one layer up.
package recognition
