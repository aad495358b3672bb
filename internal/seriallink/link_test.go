package seriallink

import (
	"bufio"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ashvale/sentrygate-core/internal/infrastructure/config"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/protocol"
)

// linkPair wires a HostLink and a DeviceLink together over an in-memory
// connection, as the gateway and simulator would be over TCP.
func linkPair(t *testing.T, variant protocol.Variant) (*HostLink, *DeviceLink) {
	t.Helper()

	hostConn, deviceConn := net.Pipe()

	host := NewHostLink(hostConn, variant, logging.Discard())
	device := NewDeviceLink(deviceConn, variant, logging.Discard())
	t.Cleanup(func() {
		host.Close()
		device.Close()
	})

	return host, device
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestMotionNotificationReachesHost(t *testing.T) {
	host, device := linkPair(t, protocol.VariantLine)

	motions := make(chan struct{}, 8)
	host.SetOnMotion(func() { motions <- struct{}{} })
	host.Start()
	device.Start()

	if err := device.NotifyMotion(); err != nil {
		t.Fatalf("NotifyMotion() error = %v", err)
	}

	select {
	case <-motions:
	case <-time.After(2 * time.Second):
		t.Fatal("motion notification never reached the host")
	}
}

func TestCommandReachesDevice(t *testing.T) {
	host, device := linkPair(t, protocol.VariantLine)
	host.Start()
	device.Start()

	if err := host.Send(protocol.CommandIntruder); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	var got []protocol.Command
	waitFor(t, func() bool {
		got = append(got, device.Drain()...)
		return len(got) > 0
	}, "command never reached the device")

	if got[0] != protocol.CommandIntruder {
		t.Errorf("command = %v, want CommandIntruder", got[0])
	}
}

func TestByteVariantRoundtrip(t *testing.T) {
	host, device := linkPair(t, protocol.VariantByte)
	host.Start()
	device.Start()

	if err := host.Send(protocol.CommandAuthorized); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	var got []protocol.Command
	waitFor(t, func() bool {
		got = append(got, device.Drain()...)
		return len(got) > 0
	}, "command never reached the device")

	if got[0] != protocol.CommandAuthorized {
		t.Errorf("command = %v, want CommandAuthorized", got[0])
	}
}

func TestByteVariantDropsAlarmCancel(t *testing.T) {
	hostConn, deviceConn := net.Pipe()
	defer deviceConn.Close()

	host := NewHostLink(hostConn, protocol.VariantByte, logging.Discard())
	defer host.Close()

	// No reader on the far end: an encoded frame would block the pipe,
	// so a clean return proves nothing was written.
	if err := host.Send(protocol.CommandAlarmCancel); err != nil {
		t.Errorf("Send() error = %v, want silent drop", err)
	}
}

func TestHostDropsNoiseLines(t *testing.T) {
	host, device := linkPair(t, protocol.VariantLine)

	motions := make(chan struct{}, 8)
	host.SetOnMotion(func() { motions <- struct{}{} })
	host.Start()
	device.Start()

	go func() {
		device.conn.Write([]byte("[DEBUG] booted\nGARBAGE\n"))
		device.conn.Write(protocol.EncodeMotionNotify())
	}()

	select {
	case <-motions:
	case <-time.After(2 * time.Second):
		t.Fatal("motion notification lost behind noise lines")
	}

	select {
	case <-motions:
		t.Fatal("noise line produced a motion callback")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendAfterClose(t *testing.T) {
	host, _ := linkPair(t, protocol.VariantLine)
	host.Close()

	if err := host.Send(protocol.CommandIntruder); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after close error = %v, want ErrClosed", err)
	}
}

func TestNotifyMotionAfterClose(t *testing.T) {
	_, device := linkPair(t, protocol.VariantLine)
	device.Close()

	if err := device.NotifyMotion(); !errors.Is(err, ErrClosed) {
		t.Errorf("NotifyMotion() after close error = %v, want ErrClosed", err)
	}
}

func TestDoneOnTransportLoss(t *testing.T) {
	hostConn, deviceConn := net.Pipe()

	host := NewHostLink(hostConn, protocol.VariantLine, logging.Discard())
	host.Start()
	defer host.Close()

	deviceConn.Close()

	select {
	case <-host.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done() not closed after transport loss")
	}
}

func TestDrainEmpty(t *testing.T) {
	_, device := linkPair(t, protocol.VariantLine)

	if cmds := device.Drain(); cmds != nil {
		t.Errorf("Drain() on idle link = %v, want nil", cmds)
	}
}

func TestMotionNotifyWireFormat(t *testing.T) {
	hostConn, deviceConn := net.Pipe()
	defer hostConn.Close()

	device := NewDeviceLink(deviceConn, protocol.VariantByte, logging.Discard())
	defer device.Close()

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(hostConn)
		if scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	if err := device.NotifyMotion(); err != nil {
		t.Fatalf("NotifyMotion() error = %v", err)
	}

	select {
	case line := <-lines:
		if line != "MOTION" {
			t.Errorf("upstream line = %q, want %q", line, "MOTION")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no upstream line received")
	}
}

func TestOpenUnsupportedTransport(t *testing.T) {
	cfg := &config.Config{}
	cfg.Serial.Transport = "carrier-pigeon"

	if _, err := Open(cfg); !errors.Is(err, ErrUnsupportedTransport) {
		t.Errorf("Open() error = %v, want ErrUnsupportedTransport", err)
	}
}

func TestOpenTTYUnsupportedBaud(t *testing.T) {
	if _, err := OpenTTY("/dev/null", 300); !errors.Is(err, ErrUnsupportedBaud) {
		t.Errorf("OpenTTY() error = %v, want ErrUnsupportedBaud", err)
	}
}

func TestOpenTCP(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer listener.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	conn, err := OpenTCP(listener.Addr().String())
	if err != nil {
		t.Fatalf("OpenTCP() error = %v", err)
	}
	defer conn.Close()

	select {
	case remote := <-accepted:
		remote.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("listener never accepted the connection")
	}
}
