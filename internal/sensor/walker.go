package sensor

import (
	"math"
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

// Walker is a simulated accelerometer for development without hardware.
// It emits samples at the configured rate: a unit gravity baseline on z
// plus a sinusoidal step oscillation whose amplitude cycles through four
// intensity levels, one every cycle period.
type Walker struct {
	out  chan activity.Sample
	done chan struct{}
}

// Intensity amplitudes in g, roughly sedentary through vigorous.
var walkerAmplitudes = []float64{0.01, 0.08, 0.30, 0.70}

// NewWalker starts a simulated source emitting at hz samples per second,
// switching intensity level every cycle.
func NewWalker(hz int, cycle time.Duration) *Walker {
	w := &Walker{
		out:  make(chan activity.Sample, 16),
		done: make(chan struct{}),
	}
	go w.run(hz, cycle)
	return w
}

func (w *Walker) run(hz int, cycle time.Duration) {
	ticker := time.NewTicker(time.Second / time.Duration(hz))
	defer ticker.Stop()

	const stepHz = 2.0 // cadence of the simulated gait
	start := time.Now()
	n := 0
	for {
		select {
		case <-w.done:
			close(w.out)
			return
		case <-ticker.C:
			level := int(time.Since(start)/cycle) % len(walkerAmplitudes)
			amp := walkerAmplitudes[level]
			phase := 2 * math.Pi * stepHz * float64(n) / float64(hz)
			s := activity.Sample{
				X: amp * math.Sin(phase),
				Y: amp * math.Cos(phase) * 0.6,
				Z: 1.0 + amp*math.Sin(2*phase)*0.8,
			}
			n++
			select {
			case w.out <- s:
			default:
			}
		}
	}
}

// Samples returns the simulated sample channel.
func (w *Walker) Samples() <-chan activity.Sample {
	return w.out
}

// Close stops the generator.
func (w *Walker) Close() error {
	close(w.done)
	return nil
}

// IsConnected always reports true for the simulator.
func (w *Walker) IsConnected() bool {
	return true
}
