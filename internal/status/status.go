// Package status provides a thread-safe status tracker for the monitor
// daemon. The pipeline driver pushes updates into it; HTTP and WebSocket
// handlers read snapshots out of it.
package status

import (
	"sync"
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
	"github.com/konkalaitzidis/digital-health-app/internal/pipeline"
)

// Config contains daemon configuration for display.
type Config struct {
	SamplingRateHz      int
	WindowSeconds       int
	OverlapFraction     float64
	ThrottleMs          int
	SmoothingWindowSize int
	ResetGraceMs        int
	APIBase             string
	Broker              string
	HTTPAddr            string
	Simulated           bool
}

// Snapshot is a point-in-time view of daemon state. It is a value type,
// safe to use after the lock is released.
type Snapshot struct {
	Current         activity.Class
	Summary         pipeline.Summary
	Backend         string
	Counts          pipeline.Counts
	SensorConnected bool
	StartTime       time.Time
	Now             time.Time
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Current:   activity.Sedentary,
			Backend:   pipeline.StatusWaiting,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// PipelineUpdate applies a driver state update. Implements pipeline.Notifier.
func (t *Tracker) PipelineUpdate(u pipeline.Update) {
	t.mu.Lock()
	t.snap.Current = u.Current
	t.snap.Summary = u.Summary
	t.snap.Backend = u.Backend
	t.snap.Counts = u.Counts
	t.mu.Unlock()
}

// SetSensorConnected sets the sample transport connection status.
func (t *Tracker) SetSensorConnected(connected bool) {
	t.mu.Lock()
	t.snap.SensorConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
