// Package sensor provides accelerometer sample sources with abstraction for
// testing. The real implementation subscribes to an MQTT topic fed by the
// capture device; a simulated walker and a replay source allow running
// without hardware.
package sensor

import "github.com/konkalaitzidis/digital-health-app/internal/activity"

// Source delivers accelerometer samples in arrival order.
type Source interface {
	// Samples returns the sample channel. It is closed when the source
	// ends (replay exhausted, source closed).
	Samples() <-chan activity.Sample

	// Close releases the source's resources.
	Close() error
}

// ConnectionStatus reports whether the sample transport is connected.
type ConnectionStatus interface {
	IsConnected() bool
}

// payload is the wire format of one sample, shared with the inference API
// request schema.
type payload struct {
	AccelX float64 `json:"accel_x"`
	AccelY float64 `json:"accel_y"`
	AccelZ float64 `json:"accel_z"`
}
