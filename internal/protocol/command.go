package protocol

import "strings"

// Command is the closed set of logical commands exchanged over the serial
// link. MotionNotify travels device→host; the rest travel host→device.
type Command uint8

// Command values.
const (
	// CommandUnknown is the zero value; it never appears on the wire.
	CommandUnknown Command = iota

	// CommandMotionNotify signals a debounced motion event (device→host).
	CommandMotionNotify

	// CommandAuthorized admits a recognised person: open the gate and play
	// the welcome chime (host→device).
	CommandAuthorized

	// CommandIntruder locks the gate and sounds the siren (host→device).
	CommandIntruder

	// CommandAlarmCancel silences an active siren (host→device).
	CommandAlarmCancel
)

// String returns a human-readable name for logging.
func (c Command) String() string {
	switch c {
	case CommandMotionNotify:
		return "motion_notify"
	case CommandAuthorized:
		return "authorized"
	case CommandIntruder:
		return "intruder"
	case CommandAlarmCancel:
		return "alarm_cancel"
	default:
		return "unknown"
	}
}

// Variant selects one of the two wire encodings.
type Variant string

// Wire variants.
const (
	// VariantLine is the newline-terminated token protocol (no gate).
	VariantLine Variant = "line"

	// VariantByte is the single-character protocol (gate-equipped board).
	VariantByte Variant = "byte"
)

// Valid reports whether v names a known wire variant.
func (v Variant) Valid() bool {
	return v == VariantLine || v == VariantByte
}

// Line-protocol tokens.
const (
	tokenMotion   = "MOTION"
	tokenAlarmOn  = "ALARM_ON"
	tokenWelcome  = "WELCOME"
	tokenAlarmOff = "ALARM_OFF"
)

// Byte-protocol command characters.
const (
	byteAuthorized = 'A'
	byteIntruder   = 'I'
)

// ParseLine decodes one newline-stripped line into a Command.
//
// Advisory lines ([DEBUG], [ACK], [INFO] prefixes), empty lines and
// unrecognised tokens return ok=false. The channel is noisy by nature, so
// rejection is silent: no error value exists for a bad line.
func ParseLine(line string) (Command, bool) {
	line = strings.TrimSpace(line)
	switch line {
	case tokenMotion:
		return CommandMotionNotify, true
	case tokenAlarmOn:
		return CommandIntruder, true
	case tokenWelcome:
		return CommandAuthorized, true
	case tokenAlarmOff:
		return CommandAlarmCancel, true
	default:
		return CommandUnknown, false
	}
}

// ParseByte decodes one byte of the byte-variant downstream stream.
//
// Newline, carriage return and space bytes are framing noise and return
// ok=false, as does any unrecognised byte.
func ParseByte(b byte) (Command, bool) {
	switch b {
	case byteAuthorized:
		return CommandAuthorized, true
	case byteIntruder:
		return CommandIntruder, true
	default:
		return CommandUnknown, false
	}
}

// Encode renders a host→device command in the given wire variant.
//
// It returns ok=false for commands the variant cannot express: the byte
// variant has no alarm-cancel character (the siren self-expires), and
// MotionNotify is never encoded downstream.
func Encode(v Variant, cmd Command) ([]byte, bool) {
	switch v {
	case VariantLine:
		switch cmd {
		case CommandAuthorized:
			return []byte(tokenWelcome + "\n"), true
		case CommandIntruder:
			return []byte(tokenAlarmOn + "\n"), true
		case CommandAlarmCancel:
			return []byte(tokenAlarmOff + "\n"), true
		}
	case VariantByte:
		switch cmd {
		case CommandAuthorized:
			return []byte{byteAuthorized}, true
		case CommandIntruder:
			return []byte{byteIntruder}, true
		}
	}
	return nil, false
}

// EncodeMotionNotify renders the upstream motion notification. Both variants
// use the same line-terminated token.
func EncodeMotionNotify() []byte {
	return []byte(tokenMotion + "\n")
}
