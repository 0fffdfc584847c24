package pipeline

import "github.com/konkalaitzidis/digital-health-app/internal/activity"

// Smoother stabilizes the displayed class by majority vote over the last N
// raw predictions, reducing label flicker between consecutive windows.
type Smoother struct {
	size    int
	history []activity.Class
}

// NewSmoother creates a smoother over the last size raw labels.
func NewSmoother(size int) *Smoother {
	return &Smoother{size: size}
}

// Push appends a raw label, evicting the oldest when over capacity, and
// returns the new stabilized class.
func (s *Smoother) Push(label activity.Class) activity.Class {
	s.history = append(s.history, label)
	if len(s.history) > s.size {
		s.history = s.history[1:]
	}
	return MajorityVote(s.history)
}

// History returns a copy of the current raw-label history, oldest first.
func (s *Smoother) History() []activity.Class {
	out := make([]activity.Class, len(s.history))
	copy(out, s.history)
	return out
}

// Clear empties the history.
func (s *Smoother) Clear() {
	s.history = s.history[:0]
}

// MajorityVote returns the label with the highest count in labels. Ties are
// broken in favor of the label that appears earliest, in order of first
// occurrence among the distinct labels present. The ordering is an explicit
// part of the algorithm: distinct labels are tracked in an ordered list
// alongside the counts, never via map iteration.
//
// An empty history votes Sedentary.
func MajorityVote(labels []activity.Class) activity.Class {
	if len(labels) == 0 {
		return activity.Sedentary
	}

	counts := make(map[activity.Class]int, len(labels))
	var order []activity.Class
	for _, l := range labels {
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}

	best := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}
