package pipeline

import (
	"testing"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

func TestPct(t *testing.T) {
	tests := []struct {
		part, whole, want int
	}{
		{0, 0, 0},
		{50, 100, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 200, 1},
		{3, 3, 100},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := Pct(tt.part, tt.whole); got != tt.want {
			t.Errorf("Pct(%d, %d): got %d, want %d", tt.part, tt.whole, got, tt.want)
		}
	}
}

func TestTickAttributesToCurrentClass(t *testing.T) {
	s := NewSession()

	// Defaults to Sedentary before any prediction.
	s.Tick()
	s.Tick()

	s.SetCurrent(activity.Light)
	s.Tick()
	s.Tick()
	s.Tick()

	s.SetCurrent(activity.Vigorous)
	s.Tick()

	if got := s.Elapsed(activity.Sedentary); got != 2 {
		t.Errorf("Sedentary: got %d, want 2", got)
	}
	if got := s.Elapsed(activity.Light); got != 3 {
		t.Errorf("Light: got %d, want 3", got)
	}
	if got := s.Elapsed(activity.Vigorous); got != 1 {
		t.Errorf("Vigorous: got %d, want 1", got)
	}

	sum := s.Summary()
	if sum.Total != 6 {
		t.Errorf("Total: got %d, want 6", sum.Total)
	}
}

// The last known class keeps accruing time when no new prediction arrives.
func TestFailOpenAccrual(t *testing.T) {
	s := NewSession()
	s.SetCurrent(activity.Moderate)

	for i := 0; i < 10; i++ {
		s.Tick()
	}
	if got := s.Elapsed(activity.Moderate); got != 10 {
		t.Errorf("Moderate: got %d, want 10", got)
	}
}

func TestSummaryMetrics(t *testing.T) {
	s := NewSession()
	tick := func(c activity.Class, n int) {
		s.SetCurrent(c)
		for i := 0; i < n; i++ {
			s.Tick()
		}
	}

	tick(activity.Sedentary, 30)
	tick(activity.Light, 40)
	tick(activity.Moderate, 20)
	tick(activity.Vigorous, 10)

	sum := s.Summary()
	if sum.Total != 100 {
		t.Errorf("Total: got %d, want 100", sum.Total)
	}
	if sum.Active != 70 {
		t.Errorf("Active: got %d, want 70", sum.Active)
	}
	if sum.MVPA != 30 {
		t.Errorf("MVPA: got %d, want 30", sum.MVPA)
	}
	if sum.ActivePct != 70 {
		t.Errorf("ActivePct: got %d, want 70", sum.ActivePct)
	}
	if sum.MVPAPct != 30 {
		t.Errorf("MVPAPct: got %d, want 30", sum.MVPAPct)
	}
	if sum.Current != activity.Vigorous {
		t.Errorf("Current: got %q, want Vigorous", sum.Current)
	}
}

func TestReset(t *testing.T) {
	s := NewSession()
	s.SetCurrent(activity.Vigorous)
	for i := 0; i < 5; i++ {
		s.Tick()
	}

	s.Reset()

	for _, c := range activity.Classes {
		if got := s.Elapsed(c); got != 0 {
			t.Errorf("%s after reset: got %d, want 0", c, got)
		}
	}
	if s.Current() != activity.Sedentary {
		t.Errorf("current after reset: got %q, want Sedentary", s.Current())
	}

	// Ticks after reset accrue normally, never double-counted.
	s.Tick()
	if got := s.Summary().Total; got != 1 {
		t.Errorf("Total after reset and one tick: got %d, want 1", got)
	}
}
