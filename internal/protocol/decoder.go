package protocol

import "bytes"

// maxPendingLine bounds the line buffer so a peer that never sends a
// newline cannot grow memory without limit. Anything longer than this is
// garbage on a channel whose longest legal token is nine bytes.
const maxPendingLine = 256

// Decoder converts a raw downstream byte stream into Commands, preserving
// arrival order and silently discarding anything unrecognised.
//
// The zero value is not usable; construct with NewDecoder. Decoder is not
// safe for concurrent use; feed it from a single reader goroutine.
type Decoder struct {
	variant Variant
	pending []byte // line variant only: bytes since the last newline
}

// NewDecoder creates a Decoder for the given wire variant.
func NewDecoder(v Variant) *Decoder {
	return &Decoder{variant: v}
}

// Feed consumes a chunk of raw bytes and returns the commands completed by
// it, in arrival order. Partial lines are buffered until the terminating
// newline arrives; noise bytes and unknown tokens produce nothing.
func (d *Decoder) Feed(p []byte) []Command {
	if d.variant == VariantByte {
		return d.feedBytes(p)
	}
	return d.feedLines(p)
}

func (d *Decoder) feedBytes(p []byte) []Command {
	var cmds []Command
	for _, b := range p {
		if cmd, ok := ParseByte(b); ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (d *Decoder) feedLines(p []byte) []Command {
	d.pending = append(d.pending, p...)

	var cmds []Command
	for {
		idx := bytes.IndexByte(d.pending, '\n')
		if idx < 0 {
			break
		}
		line := string(d.pending[:idx])
		d.pending = d.pending[idx+1:]

		if cmd, ok := ParseLine(line); ok {
			cmds = append(cmds, cmd)
		}
	}

	if len(d.pending) > maxPendingLine {
		d.pending = d.pending[:0]
	}
	return cmds
}
