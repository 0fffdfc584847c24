package client

import (
	"context"
	"errors"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

// FakeResult scripts one Classify outcome for the fake.
type FakeResult struct {
	Pred activity.Prediction
	Err  error
}

// Fake is a test double for the classifier boundary. It records dispatched
// windows and returns scripted results in order.
type Fake struct {
	// Results contains scripted outcomes; each Classify call consumes the
	// next one. When exhausted, the last result is returned repeatedly.
	Results []FakeResult

	// Windows contains every window that was dispatched.
	Windows [][]activity.Sample

	index int
}

// NewFake creates a Fake returning the given results.
func NewFake(results ...FakeResult) *Fake {
	return &Fake{Results: results}
}

// Classify records the window and returns the next scripted result.
func (f *Fake) Classify(_ context.Context, window []activity.Sample) (activity.Prediction, error) {
	f.Windows = append(f.Windows, window)

	if len(f.Results) == 0 {
		return activity.Prediction{}, errors.New("no results configured")
	}
	r := f.Results[f.index]
	if f.index < len(f.Results)-1 {
		f.index++
	}
	return r.Pred, r.Err
}
