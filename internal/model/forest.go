// Package model loads the trained activity model artifact and evaluates it.
// The artifact bundles the feature scaler and a random forest exported as
// flat node arrays. A loaded Forest is immutable and safe to share across
// concurrently served requests.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
	"github.com/konkalaitzidis/digital-health-app/internal/features"
)

// Artifact is the on-disk JSON layout of the exported model.
type Artifact struct {
	Classes []string `json:"classes"`
	FsHz    float64  `json:"fs"`
	WinSec  float64  `json:"win_sec"`
	Overlap float64  `json:"overlap"`
	Scaler  Scaler   `json:"scaler"`
	Trees   []Tree   `json:"trees"`
}

// Scaler holds the standardization parameters fitted during training.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Tree is one decision tree in flat array form. A node i is a leaf when
// ChildrenLeft[i] < 0; Value[i] then holds the per-class sample counts at
// that leaf.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest is a loaded, validated model ready for inference.
type Forest struct {
	classes []activity.Class
	mean    []float64
	scale   []float64
	trees   []Tree
	win     int
}

// Load reads and validates a model artifact from path.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	return New(art)
}

// New validates an artifact and returns a Forest.
func New(art Artifact) (*Forest, error) {
	if len(art.Classes) == 0 {
		return nil, fmt.Errorf("model artifact: no classes")
	}
	if len(art.Scaler.Mean) == 0 || len(art.Scaler.Mean) != len(art.Scaler.Scale) {
		return nil, fmt.Errorf("model artifact: scaler mean/scale length mismatch (%d vs %d)",
			len(art.Scaler.Mean), len(art.Scaler.Scale))
	}
	if len(art.Trees) == 0 {
		return nil, fmt.Errorf("model artifact: no trees")
	}
	for ti, tr := range art.Trees {
		n := len(tr.ChildrenLeft)
		if len(tr.ChildrenRight) != n || len(tr.Feature) != n || len(tr.Threshold) != n || len(tr.Value) != n {
			return nil, fmt.Errorf("model artifact: tree %d has inconsistent node arrays", ti)
		}
		for ni, row := range tr.Value {
			if len(row) != len(art.Classes) {
				return nil, fmt.Errorf("model artifact: tree %d node %d has %d class values, want %d",
					ti, ni, len(row), len(art.Classes))
			}
		}
	}

	classes := make([]activity.Class, len(art.Classes))
	for i, name := range art.Classes {
		c := activity.Class(name)
		if !c.Valid() {
			return nil, fmt.Errorf("model artifact: unknown class %q", name)
		}
		classes[i] = c
	}

	win := int(art.FsHz * art.WinSec)
	if win <= 0 {
		return nil, fmt.Errorf("model artifact: fs=%g win_sec=%g yields empty window", art.FsHz, art.WinSec)
	}

	return &Forest{
		classes: classes,
		mean:    art.Scaler.Mean,
		scale:   art.Scaler.Scale,
		trees:   art.Trees,
		win:     win,
	}, nil
}

// Win returns the window length in samples the model expects.
func (f *Forest) Win() int { return f.win }

// NumFeatures returns the feature vector length the model expects.
func (f *Forest) NumFeatures() int { return len(f.mean) }

// Classify standardizes a feature vector and runs it through the forest.
// The label is the arg-max of the averaged per-tree class distributions;
// probabilities sum to 1 within floating-point tolerance.
func (f *Forest) Classify(v features.Vector) (activity.Prediction, error) {
	if len(v) != len(f.mean) {
		return activity.Prediction{}, fmt.Errorf("feature length mismatch: got %d, want %d", len(v), len(f.mean))
	}

	scaled := make([]float64, len(v))
	for i, x := range v {
		s := f.scale[i]
		if s == 0 {
			s = 1
		}
		scaled[i] = (x - f.mean[i]) / s
	}

	avg := make([]float64, len(f.classes))
	for _, tr := range f.trees {
		leaf := tr.apply(scaled)
		var total float64
		for _, c := range leaf {
			total += c
		}
		if total == 0 {
			continue
		}
		for i, c := range leaf {
			avg[i] += c / total
		}
	}
	for i := range avg {
		avg[i] /= float64(len(f.trees))
	}

	best := 0
	for i, p := range avg {
		if p > avg[best] {
			best = i
		}
	}

	probs := make(map[activity.Class]float64, len(f.classes))
	for i, c := range f.classes {
		probs[c] = avg[i]
	}
	return activity.Prediction{Label: f.classes[best], Probabilities: probs}, nil
}

// apply walks the tree for one scaled feature vector and returns the
// per-class counts at the reached leaf.
func (t Tree) apply(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] >= 0 {
		fi := t.Feature[node]
		if fi >= 0 && fi < len(x) && x[fi] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}
