package sensor

import "github.com/konkalaitzidis/digital-health-app/internal/activity"

// Replay is a test double that emits a fixed set of samples and then closes
// its channel.
type Replay struct {
	out chan activity.Sample

	// Closed tracks if Close was called.
	Closed bool
}

// NewReplay creates a Replay over the given samples.
func NewReplay(samples []activity.Sample) *Replay {
	r := &Replay{out: make(chan activity.Sample)}
	go func() {
		for _, s := range samples {
			r.out <- s
		}
		close(r.out)
	}()
	return r
}

// Samples returns the replay channel.
func (r *Replay) Samples() <-chan activity.Sample {
	return r.out
}

// Close marks the source as closed.
func (r *Replay) Close() error {
	r.Closed = true
	return nil
}
