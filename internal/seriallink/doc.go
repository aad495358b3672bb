// Package seriallink moves protocol traffic between the gateway and the
// gate device.
//
// HostLink is the gateway side: it reads upstream motion notifications
// and writes downstream decision commands. DeviceLink is the device side,
// used by the simulator; it satisfies the firmware scheduler's Link
// interface by queueing decoded commands for the next tick.
//
// Two transports are supported. A physical deployment opens the device's
// serial TTY; the simulator is reached over a local TCP socket carrying
// the same byte stream.
package seriallink
