package seriallink

import (
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/schleibinger/sio"

	"github.com/ashvale/sentrygate-core/internal/infrastructure/config"
)

// dialTimeout bounds the TCP connection attempt to the simulator.
const dialTimeout = 5 * time.Second

// baudFlags maps supported baud rates to their termios constants.
var baudFlags = map[int]uint32{
	9600:   syscall.B9600,
	19200:  syscall.B19200,
	38400:  syscall.B38400,
	57600:  syscall.B57600,
	115200: syscall.B115200,
}

// OpenTTY opens the device's serial port.
//
// Parameters:
//   - device: TTY path, e.g. "/dev/ttyUSB0"
//   - baud: Line speed; must be one of the supported rates
//
// Returns:
//   - io.ReadWriteCloser: The open port
//   - error: ErrUnsupportedBaud or the open error
func OpenTTY(device string, baud int) (io.ReadWriteCloser, error) {
	flag, ok := baudFlags[baud]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBaud, baud)
	}

	port, err := sio.Open(device, flag)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", device, err)
	}
	return port, nil
}

// OpenTCP connects to a simulated device listening on addr.
func OpenTCP(addr string) (io.ReadWriteCloser, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dialling %s: %w", addr, err)
	}
	return conn, nil
}

// Open opens the transport named in cfg.
//
// Transport "tty" opens the serial device at the configured baud rate;
// "tcp" dials the simulator at the device address.
func Open(cfg *config.Config) (io.ReadWriteCloser, error) {
	switch cfg.Serial.Transport {
	case "tty":
		return OpenTTY(cfg.Serial.Device, cfg.Serial.Baud)
	case "tcp":
		return OpenTCP(cfg.Serial.Device)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTransport, cfg.Serial.Transport)
	}
}
