package pipeline

import (
	"math"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

// Session accumulates per-class elapsed seconds. A fixed-rate tick
// attributes one second to whichever class is currently stabilized,
// whether or not a new prediction arrived that second. Under transport
// failure the last known class keeps accruing time.
type Session struct {
	elapsed map[activity.Class]int
	current activity.Class
}

// Summary is a derived, read-only view of the session, recomputed on demand.
type Summary struct {
	Current activity.Class
	Seconds map[activity.Class]int

	// Total is the sum of all class timers.
	Total int
	// Active is Light + Moderate + Vigorous.
	Active int
	// MVPA is Moderate + Vigorous.
	MVPA int

	ActivePct int
	MVPAPct   int
}

// NewSession creates a session with all timers at zero, displaying Sedentary.
func NewSession() *Session {
	return &Session{
		elapsed: make(map[activity.Class]int, len(activity.Classes)),
		current: activity.Sedentary,
	}
}

// SetCurrent updates the currently displayed (stabilized) class.
func (s *Session) SetCurrent(c activity.Class) {
	s.current = c
}

// Current returns the currently displayed class.
func (s *Session) Current() activity.Class {
	return s.current
}

// Tick attributes one elapsed second to the current class.
func (s *Session) Tick() {
	s.elapsed[s.current]++
}

// Elapsed returns the accumulated seconds for one class.
func (s *Session) Elapsed(c activity.Class) int {
	return s.elapsed[c]
}

// Reset zeroes all timers and sets the current class back to Sedentary.
func (s *Session) Reset() {
	s.elapsed = make(map[activity.Class]int, len(activity.Classes))
	s.current = activity.Sedentary
}

// Summary computes the derived metrics.
func (s *Session) Summary() Summary {
	seconds := make(map[activity.Class]int, len(activity.Classes))
	for _, c := range activity.Classes {
		seconds[c] = s.elapsed[c]
	}

	total := seconds[activity.Sedentary] + seconds[activity.Light] +
		seconds[activity.Moderate] + seconds[activity.Vigorous]
	active := seconds[activity.Light] + seconds[activity.Moderate] + seconds[activity.Vigorous]
	mvpa := seconds[activity.Moderate] + seconds[activity.Vigorous]

	return Summary{
		Current:   s.current,
		Seconds:   seconds,
		Total:     total,
		Active:    active,
		MVPA:      mvpa,
		ActivePct: Pct(active, total),
		MVPAPct:   Pct(mvpa, total),
	}
}

// Pct returns round(100 × part / whole), or 0 when whole is not positive.
func Pct(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
