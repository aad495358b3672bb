package seriallink

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/protocol"
)

// readChunk is the per-read buffer size for the device-side reader.
const readChunk = 64

// DeviceLink is the device end of the link, used by the simulator. It
// decodes downstream bytes as they arrive and queues the resulting
// commands; the firmware scheduler drains the queue at the top of each
// tick.
type DeviceLink struct {
	conn    io.ReadWriteCloser
	decoder *protocol.Decoder
	logger  *logging.Logger

	mu    sync.Mutex
	queue []protocol.Command

	writeMu sync.Mutex

	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewDeviceLink creates a device-side link over an open transport.
func NewDeviceLink(conn io.ReadWriteCloser, variant protocol.Variant, logger *logging.Logger) *DeviceLink {
	if logger == nil {
		logger = logging.Default()
	}
	return &DeviceLink{
		conn:    conn,
		decoder: protocol.NewDecoder(variant),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start launches the background read loop.
func (l *DeviceLink) Start() {
	go l.readLoop()
}

// Done is closed when the read loop exits.
func (l *DeviceLink) Done() <-chan struct{} {
	return l.done
}

// Drain returns all commands received since the last call, oldest first.
func (l *DeviceLink) Drain() []protocol.Command {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil
	}
	cmds := l.queue
	l.queue = nil
	return cmds
}

// NotifyMotion sends the upstream motion notification.
func (l *DeviceLink) NotifyMotion() error {
	if l.closed.Load() {
		return ErrClosed
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if _, err := l.conn.Write(protocol.EncodeMotionNotify()); err != nil {
		return fmt.Errorf("writing motion notification: %w", err)
	}
	return nil
}

// Close shuts the link down. Safe to call more than once.
func (l *DeviceLink) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		err = l.conn.Close()
	})
	return err
}

// readLoop feeds incoming bytes through the decoder until the transport
// fails or closes.
func (l *DeviceLink) readLoop() {
	defer close(l.done)

	buf := make([]byte, readChunk)
	for {
		n, err := l.conn.Read(buf)
		if n > 0 {
			cmds := l.decoder.Feed(buf[:n])
			if len(cmds) > 0 {
				l.mu.Lock()
				l.queue = append(l.queue, cmds...)
				l.mu.Unlock()
			}
		}
		if err != nil {
			if err != io.EOF && !l.closed.Load() {
				l.logger.Error("link read failed", "error", err)
			}
			return
		}
	}
}
