package orchestrator

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashvale/sentrygate-core/internal/eventlog"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/influxdb"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/mqtt"
	"github.com/ashvale/sentrygate-core/internal/protocol"
	"github.com/ashvale/sentrygate-core/internal/recognition"
)

// CommandSender writes decision commands to the device.
type CommandSender interface {
	Send(cmd protocol.Command) error
}

// Broadcaster pushes completed events to live dashboard connections.
type Broadcaster interface {
	BroadcastEvent(event eventlog.SecurityEvent)
}

// EdgeOrchestrator coordinates one detection cycle at a time: motion in,
// recognition, decision command out, outcome recorded.
type EdgeOrchestrator struct {
	gatewayID  string
	timeout    time.Duration
	link       CommandSender
	recognizer recognition.Recognizer
	events     eventlog.Repository
	logger     *logging.Logger

	// Optional collaborators; nil disables the corresponding fanout.
	mqttClient  *mqtt.Client
	mqttQoS     byte
	influx      *influxdb.Client
	broadcaster Broadcaster

	busy    atomic.Bool
	dropped atomic.Uint64

	baseCtx context.Context

	// wg tracks in-flight cycles so Close can wait for them.
	wg sync.WaitGroup
}

// Option configures optional orchestrator collaborators.
type Option func(*EdgeOrchestrator)

// WithMQTT enables event publication to the broker at the given QoS.
func WithMQTT(client *mqtt.Client, qos byte) Option {
	return func(o *EdgeOrchestrator) {
		o.mqttClient = client
		o.mqttQoS = qos
	}
}

// WithInfluxDB enables metric recording.
func WithInfluxDB(client *influxdb.Client) Option {
	return func(o *EdgeOrchestrator) {
		o.influx = client
	}
}

// WithBroadcaster enables live event broadcasting.
func WithBroadcaster(b Broadcaster) Option {
	return func(o *EdgeOrchestrator) {
		o.broadcaster = b
	}
}

// New creates an orchestrator.
//
// Parameters:
//   - ctx: Base context; in-flight cycles abort when it is cancelled
//   - gatewayID: Site identifier recorded as the event source
//   - timeout: Recognition round-trip budget; on expiry the cycle fails closed
//   - link: Command writer to the device
//   - recognizer: Recognition backend
//   - events: Event repository
//   - logger: Logger (nil uses default)
//   - opts: Optional MQTT, InfluxDB and broadcast wiring
//
// Returns:
//   - *EdgeOrchestrator: Ready to receive motion notifications
func New(ctx context.Context, gatewayID string, timeout time.Duration, link CommandSender,
	recognizer recognition.Recognizer, events eventlog.Repository,
	logger *logging.Logger, opts ...Option) *EdgeOrchestrator {

	if logger == nil {
		logger = logging.Default()
	}

	o := &EdgeOrchestrator{
		gatewayID:  gatewayID,
		timeout:    timeout,
		link:       link,
		recognizer: recognizer,
		events:     events,
		logger:     logger,
		baseCtx:    ctx,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleMotion begins a detection cycle for one motion notification.
//
// It is safe to call from the link's read goroutine: the cycle runs on
// its own goroutine and never blocks the caller. A notification arriving
// while a cycle is in flight is counted and dropped.
func (o *EdgeOrchestrator) HandleMotion() {
	if !o.busy.CompareAndSwap(false, true) {
		o.dropped.Add(1)
		o.logger.Debug("motion dropped, cycle in flight",
			"dropped_total", o.dropped.Load())
		if o.influx != nil {
			o.influx.WriteDroppedNotification(o.gatewayID)
		}
		return
	}

	occurredAt := time.Now().UTC()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.busy.Store(false)
		o.runCycle(occurredAt)
	}()
}

// Dropped returns the number of motion notifications dropped because a
// cycle was already in flight.
func (o *EdgeOrchestrator) Dropped() uint64 {
	return o.dropped.Load()
}

// CancelAlarm asks the device to silence an active siren.
func (o *EdgeOrchestrator) CancelAlarm() error {
	return o.link.Send(protocol.CommandAlarmCancel)
}

// Wait blocks until any in-flight cycle has finished.
func (o *EdgeOrchestrator) Wait() {
	o.wg.Wait()
}

// runCycle performs recognition, commands the device, and records the
// outcome.
func (o *EdgeOrchestrator) runCycle(occurredAt time.Time) {
	o.logger.Info("motion detected, starting recognition")

	if o.influx != nil {
		o.influx.WriteMotionEvent(o.gatewayID)
	}
	o.publishMotion(occurredAt)

	ctx, cancel := context.WithTimeout(o.baseCtx, o.timeout)
	defer cancel()

	decision, err := o.recognizer.Recognize(ctx)
	if err != nil {
		// Fail closed: an unreachable or undecided recognizer is an
		// intruder until proven otherwise.
		o.logger.Warn("recognition failed, failing closed", "error", err)
		decision = recognition.Decision{}
	}

	cmd := protocol.CommandIntruder
	status := eventlog.StatusIntruder
	if decision.Authorized {
		cmd = protocol.CommandAuthorized
		status = eventlog.StatusAuthorized
	}

	if err := o.link.Send(cmd); err != nil {
		o.logger.Error("failed to command device", "command", cmd.String(), "error", err)
	}
	latency := time.Since(occurredAt)

	o.logger.Info("decision made",
		"status", string(status),
		"name", decision.Name,
		"latency_ms", latency.Milliseconds())

	event := eventlog.NewEvent(occurredAt, decision.Name, status, decision.ImageURL, o.gatewayID)
	o.recordOutcome(event, latency)
}

// recordOutcome fans the completed event out to every sink. Each sink is
// best-effort: a failure is logged and the rest still run.
func (o *EdgeOrchestrator) recordOutcome(event eventlog.SecurityEvent, latency time.Duration) {
	recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := o.events.Record(recordCtx, &event); err != nil {
		o.logger.Error("failed to record event", "event_id", event.ID, "error", err)
	}

	o.publishDecision(event)

	if o.influx != nil {
		o.influx.WriteDecision(o.gatewayID, string(event.Status), latency)
	}

	if o.broadcaster != nil {
		o.broadcaster.BroadcastEvent(event)
	}
}

// publishMotion announces the raw motion notification on the event bus.
func (o *EdgeOrchestrator) publishMotion(occurredAt time.Time) {
	if o.mqttClient == nil || !o.mqttClient.IsConnected() {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"source":      o.gatewayID,
		"occurred_at": occurredAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return
	}

	topics := mqtt.Topics{}
	if err := o.mqttClient.Publish(topics.EventMotion(), payload, o.mqttQoS, false); err != nil {
		o.logger.Warn("failed to publish motion event", "error", err)
	}
}

// publishDecision announces the completed event on the event bus.
func (o *EdgeOrchestrator) publishDecision(event eventlog.SecurityEvent) {
	if o.mqttClient == nil || !o.mqttClient.IsConnected() {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		o.logger.Warn("failed to encode decision event", "error", err)
		return
	}

	topics := mqtt.Topics{}
	if err := o.mqttClient.Publish(topics.EventDecision(), payload, o.mqttQoS, false); err != nil {
		o.logger.Warn("failed to publish decision event", "error", err)
	}
}
