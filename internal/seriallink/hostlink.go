package seriallink

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/protocol"
)

// maxLineSize bounds one upstream line from the device.
const maxLineSize = 256

// HostLink is the gateway end of the device link. It reads upstream
// notifications line by line and writes downstream commands in the
// configured protocol variant.
//
// Reads happen on a background goroutine started by Start. Writes may
// come from any goroutine; a mutex serialises them so command bytes are
// never interleaved on the wire.
type HostLink struct {
	conn    io.ReadWriteCloser
	variant protocol.Variant
	logger  *logging.Logger

	writeMu sync.Mutex

	onMotion func()

	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewHostLink creates a link over an open transport.
//
// Parameters:
//   - conn: Open TTY or TCP connection to the device
//   - variant: Protocol variant the device speaks
//   - logger: Logger for link events (nil uses default)
//
// Returns:
//   - *HostLink: The link, not yet reading. Call Start after wiring
//     the motion callback.
func NewHostLink(conn io.ReadWriteCloser, variant protocol.Variant, logger *logging.Logger) *HostLink {
	if logger == nil {
		logger = logging.Default()
	}
	return &HostLink{
		conn:    conn,
		variant: variant,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// SetOnMotion registers the callback invoked for each upstream motion
// notification. Must be called before Start.
func (l *HostLink) SetOnMotion(fn func()) {
	l.onMotion = fn
}

// Start launches the background read loop.
func (l *HostLink) Start() {
	go l.readLoop()
}

// Done is closed when the read loop exits, whether from Close or from a
// transport failure. The caller can use it to trigger shutdown.
func (l *HostLink) Done() <-chan struct{} {
	return l.done
}

// Send writes a downstream command to the device.
//
// Commands the variant cannot express are dropped without error; the
// single-byte variant has no alarm cancel, and the device times the
// alarm out on its own.
func (l *HostLink) Send(cmd protocol.Command) error {
	if l.closed.Load() {
		return ErrClosed
	}

	frame, ok := protocol.Encode(l.variant, cmd)
	if !ok {
		l.logger.Debug("command not expressible in variant, dropped",
			"command", cmd.String(),
			"variant", string(l.variant))
		return nil
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if _, err := l.conn.Write(frame); err != nil {
		return fmt.Errorf("writing command: %w", err)
	}

	l.logger.Debug("command sent", "command", cmd.String())
	return nil
}

// Close shuts the link down. Safe to call more than once.
func (l *HostLink) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		err = l.conn.Close()
	})
	return err
}

// readLoop consumes upstream lines until the transport fails or closes.
// Anything other than a motion notification is dropped; the device side
// may emit free-form diagnostics on the same line discipline.
func (l *HostLink) readLoop() {
	defer close(l.done)

	scanner := bufio.NewScanner(l.conn)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, ok := protocol.ParseLine(line)
		if ok && cmd == protocol.CommandMotionNotify {
			if l.onMotion != nil {
				l.onMotion()
			}
			continue
		}

		l.logger.Debug("unrecognised upstream line dropped", "line", line)
	}

	if err := scanner.Err(); err != nil && !l.closed.Load() {
		l.logger.Error("link read failed", "error", err)
	}
}
