// Package features converts a raw accelerometer window into the calibrated
// feature vector the activity model consumes. Extraction is a pure function:
// identical windows always produce identical vectors.
//
// The statistical conventions here must match the training pipeline exactly:
// standard deviations are population (divide by n) and quantiles use linear
// interpolation between closest ranks.
package features

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

// ErrInvalidWindow marks a window the engine cannot featurize: wrong sample
// count or non-finite values. The attempt fails with no partial result.
var ErrInvalidWindow = errors.New("invalid window")

// Gravity converts g-units to the m/s² scale the model was trained on.
const Gravity = 9.81

// Names lists the 20 feature names in training order: per-axis
// mean/std/min/max/median/iqr for x, y, z, then magnitude mean/std.
var Names = []string{
	"x_mean", "x_std", "x_min", "x_max", "x_median", "x_iqr",
	"y_mean", "y_std", "y_min", "y_max", "y_median", "y_iqr",
	"z_mean", "z_std", "z_min", "z_max", "z_median", "z_iqr",
	"mag_mean", "mag_std",
}

// Vector is an ordered feature vector; index i holds the value of Names[i].
type Vector []float64

// Calibrate adjusts a raw g-unit window toward the characteristics of the
// training data. Steps: scale to m/s², shift the z baseline toward gravity
// when the window was captured with z centered near zero, and boost the
// amplitude of very flat windows to a target magnitude spread.
func Calibrate(window []activity.Sample) []activity.Sample {
	out := make([]activity.Sample, len(window))
	for i, s := range window {
		out[i] = activity.Sample{X: s.X * Gravity, Y: s.Y * Gravity, Z: s.Z * Gravity}
	}

	var zSum float64
	for _, s := range out {
		zSum += s.Z
	}
	zMean := 0.0
	if len(out) > 0 {
		zMean = zSum / float64(len(out))
	}
	if zMean > -3.0 && zMean < 3.0 {
		for i := range out {
			out[i].Z += 9.0
		}
	}

	mags := make([]float64, len(out))
	for i, s := range out {
		mags[i] = math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	}
	const targetStd = 0.6
	const boostStd = 2.0
	if magStd := stdDev(mags); magStd < targetStd {
		scale := boostStd / math.Max(magStd, 1e-6)
		scale = math.Min(math.Max(scale, 1.0), 6.0)
		for i := range out {
			out[i].X *= scale
			out[i].Y *= scale
			out[i].Z *= scale
		}
	}
	return out
}

// Extract computes the feature vector for one calibrated window. The window
// must contain exactly win samples with finite values; otherwise it returns
// ErrInvalidWindow.
func Extract(window []activity.Sample, win int) (Vector, error) {
	if len(window) != win {
		return nil, fmt.Errorf("%w: got %d samples, want %d", ErrInvalidWindow, len(window), win)
	}
	for i, s := range window {
		if !finite(s.X) || !finite(s.Y) || !finite(s.Z) {
			return nil, fmt.Errorf("%w: non-finite value at sample %d", ErrInvalidWindow, i)
		}
	}

	axes := [3][]float64{
		make([]float64, len(window)),
		make([]float64, len(window)),
		make([]float64, len(window)),
	}
	mags := make([]float64, len(window))
	for i, s := range window {
		axes[0][i] = s.X
		axes[1][i] = s.Y
		axes[2][i] = s.Z
		mags[i] = math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	}

	v := make(Vector, 0, len(Names))
	for _, a := range axes {
		v = append(v, mean(a), stdDev(a), min(a), max(a), quantile(a, 0.5), iqr(a))
	}
	v = append(v, mean(mags), stdDev(mags))
	return v, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation (divide by n).
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// quantile computes the q-th quantile with linear interpolation between
// closest ranks.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	index := q * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func iqr(values []float64) float64 {
	return quantile(values, 0.75) - quantile(values, 0.25)
}
