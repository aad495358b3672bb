package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteMotionEvent records one debounced motion notification from the door
// controller.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - gatewayID: Site gateway identifier (site.id from config)
func (c *Client) WriteMotionEvent(gatewayID string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"motion_events",
		map[string]string{
			"gateway_id": gatewayID,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDecision records the outcome of one detection cycle: the decision
// status and the latency from motion notification to command write.
//
// Parameters:
//   - gatewayID: Site gateway identifier
//   - status: Decision outcome ("authorized" or "intruder")
//   - latency: Time from motion notification to downstream command write
//
// Example:
//
//	client.WriteDecision("gate-001", "intruder", 840*time.Millisecond)
func (c *Client) WriteDecision(gatewayID string, status string, latency time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"decisions",
		map[string]string{
			"gateway_id": gatewayID,
			"status":     status,
		},
		map[string]interface{}{
			"latency_ms": float64(latency.Milliseconds()),
			"count":      1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDroppedNotification records a motion notification that arrived while
// a detection cycle was already in flight and was therefore discarded.
//
// A sustained non-zero rate here means the cooldown and cycle duration are
// mismatched for the site's traffic.
//
// Parameters:
//   - gatewayID: Site gateway identifier
func (c *Client) WriteDroppedNotification(gatewayID string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"dropped_notifications",
		map[string]string{
			"gateway_id": gatewayID,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "gate-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
