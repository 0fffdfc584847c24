package sensor

import (
	"testing"
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

func TestReplayEmitsAllThenCloses(t *testing.T) {
	samples := []activity.Sample{{X: 1}, {X: 2}, {X: 3}}
	r := NewReplay(samples)

	var got []activity.Sample
	for s := range r.Samples() {
		got = append(got, s)
	}

	if len(got) != len(samples) {
		t.Fatalf("emitted %d samples, want %d", len(got), len(samples))
	}
	for i, s := range got {
		if s != samples[i] {
			t.Errorf("sample %d: got %+v, want %+v", i, s, samples[i])
		}
	}

	if r.Closed {
		t.Error("Closed should be false before Close")
	}
	r.Close()
	if !r.Closed {
		t.Error("Closed should be true after Close")
	}
}

func TestWalkerEmitsGravityBaseline(t *testing.T) {
	w := NewWalker(100, time.Minute)
	defer w.Close()

	deadline := time.After(2 * time.Second)
	for i := 0; i < 10; i++ {
		select {
		case s := <-w.Samples():
			// The lowest intensity level barely perturbs the 1 g baseline.
			if s.Z < 0.9 || s.Z > 1.1 {
				t.Errorf("sample %d: Z=%g, want near 1.0", i, s.Z)
			}
			if s.X < -0.1 || s.X > 0.1 {
				t.Errorf("sample %d: X=%g, want near 0", i, s.X)
			}
		case <-deadline:
			t.Fatal("timed out waiting for simulated samples")
		}
	}
}

func TestMQTTDeliverAfterCloseIsDropped(t *testing.T) {
	s := &MQTTSource{out: make(chan activity.Sample, 1)}

	s.deliver(activity.Sample{X: 1})
	select {
	case got := <-s.out:
		if got.X != 1 {
			t.Errorf("delivered sample: got %+v, want X=1", got)
		}
	default:
		t.Fatal("expected a delivered sample before close")
	}

	s.closeOut()
	s.closeOut() // idempotent

	// A handler still running after Close must drop, not panic.
	s.deliver(activity.Sample{X: 2})

	if _, ok := <-s.out; ok {
		t.Error("expected the sample channel to be closed and drained")
	}
}

func TestMQTTDeliverDropsWhenFull(t *testing.T) {
	s := &MQTTSource{out: make(chan activity.Sample, 1)}

	s.deliver(activity.Sample{X: 1})
	s.deliver(activity.Sample{X: 2}) // buffer full, dropped

	got := <-s.out
	if got.X != 1 {
		t.Errorf("buffered sample: got %+v, want X=1", got)
	}
	select {
	case extra := <-s.out:
		t.Errorf("unexpected second sample: %+v", extra)
	default:
	}
}

func TestWalkerConnected(t *testing.T) {
	w := NewWalker(100, time.Minute)
	defer w.Close()
	if !w.IsConnected() {
		t.Error("simulator should always report connected")
	}
}
