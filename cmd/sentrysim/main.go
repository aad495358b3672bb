// SentryGate Simulator - Virtual Gate Device
//
// sentrysim runs the firmware state machines against a simulated board
// and serves the serial protocol over TCP, so the gateway can be
// exercised end to end without hardware. Point the gateway at it with:
//
//	serial:
//	  transport: tcp
//	  device: 127.0.0.1:7070
//
// Pressing Enter on the simulator's stdin raises the motion sensor for
// one pulse. Buzzer and gate actions are logged instead of driven.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ashvale/sentrygate-core/internal/firmware"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/config"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/protocol"
	"github.com/ashvale/sentrygate-core/internal/seriallink"
)

var version = "dev"

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// motionPulse is how long one simulated motion event holds the sensor high.
// Long enough to span several ticks, as a real PIR sensor would.
const motionPulse = 200 * time.Millisecond

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting SentryGate simulator", "version", version)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)

	board := newSimBoard(log)
	go watchStdin(ctx, board, log)

	listener, err := net.Listen("tcp", cfg.Device.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Device.ListenAddr, err)
	}
	defer listener.Close()
	log.Info("simulator listening",
		"addr", cfg.Device.ListenAddr,
		"variant", cfg.Serial.Variant,
		"gate", cfg.Device.HasGate,
	)

	// Close the listener on shutdown so Accept unblocks.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	// One gateway at a time, like a real serial port.
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				log.Info("simulator stopped")
				return nil
			}
			return fmt.Errorf("accepting connection: %w", err)
		}

		log.Info("gateway connected", "remote", conn.RemoteAddr().String())
		serveDevice(ctx, cfg, board, conn, log)
		log.Info("gateway disconnected")
	}
}

// serveDevice runs the firmware scheduler over one gateway connection
// until the connection drops or the context is cancelled.
func serveDevice(ctx context.Context, cfg *config.Config, board *simBoard, conn net.Conn, log *logging.Logger) {
	link := seriallink.NewDeviceLink(conn, protocol.Variant(cfg.Serial.Variant), log)
	defer link.Close()
	link.Start()

	fwCfg := firmware.Config{HasGate: cfg.Device.HasGate}
	scheduler := firmware.NewScheduler(fwCfg, board, link, firmware.SystemClock(), log)

	// Stop the scheduler when the link dies.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-link.Done()
		cancel()
	}()

	if err := scheduler.Run(runCtx, cfg.GetTickPeriod()); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("scheduler stopped", "error", err)
	}
}

// watchStdin converts each line on stdin into one motion pulse.
func watchStdin(ctx context.Context, board *simBoard, log *logging.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		log.Info("motion pulse injected")
		board.PulseMotion(motionPulse)
	}
}

// simBoard is a Board that logs actuator commands instead of driving
// hardware, with a time-windowed motion level.
type simBoard struct {
	log *logging.Logger

	mu          sync.Mutex
	motionUntil time.Time
}

func newSimBoard(log *logging.Logger) *simBoard {
	return &simBoard{log: log}
}

// PulseMotion raises the motion level for the given window.
func (b *simBoard) PulseMotion(d time.Duration) {
	b.mu.Lock()
	b.motionUntil = time.Now().Add(d)
	b.mu.Unlock()
}

// MotionLevel reports whether a simulated motion pulse is active.
func (b *simBoard) MotionLevel() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return time.Now().Before(b.motionUntil)
}

// Tone logs a buzzer tone change.
func (b *simBoard) Tone(freqHz int) {
	b.log.Info("buzzer tone", "freq_hz", freqHz)
}

// NoTone logs the buzzer going silent.
func (b *simBoard) NoTone() {
	b.log.Info("buzzer off")
}

// OpenGate logs the gate servo opening.
func (b *simBoard) OpenGate() {
	b.log.Info("gate open")
}

// CloseGate logs the gate servo closing.
func (b *simBoard) CloseGate() {
	b.log.Info("gate closed")
}

// getConfigPath returns the configuration file path.
// Uses SENTRYGATE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SENTRYGATE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
