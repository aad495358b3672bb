// Package mqtt provides MQTT client connectivity for SentryGate Core.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// SentryGate uses MQTT as its outbound event bus: every motion notification
// and every recognition decision is published so dashboards, recorders and
// other site systems can react without coupling to the gateway process.
//
//	SentryGate Gateway → MQTT Broker → Subscribers (dashboards, automations)
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Publish a recognition decision
//	topic := mqtt.Topics{}.EventDecision()
//	client.Publish(topic, payload, 1, false)
package mqtt
