// Package activity defines the core domain types shared by the monitor
// pipeline and the inference server. It has no external dependencies.
package activity

// Class is a MET intensity class derived from metabolic-equivalent ranges.
type Class string

const (
	Sedentary Class = "Sedentary"
	Light     Class = "Light"
	Moderate  Class = "Moderate"
	Vigorous  Class = "Vigorous"
)

// Classes lists the four MET classes in intensity order.
var Classes = []Class{Sedentary, Light, Moderate, Vigorous}

// Valid reports whether c is one of the four known classes.
func (c Class) Valid() bool {
	switch c {
	case Sedentary, Light, Moderate, Vigorous:
		return true
	}
	return false
}

// Sample is a single tri-axial accelerometer reading in g-units.
// Samples are implicitly timestamped by arrival order and immutable
// once captured.
type Sample struct {
	X float64
	Y float64
	Z float64
}

// Prediction is one raw classifier output: the arg-max label and the
// probability distribution it was taken from. Probabilities may be nil
// when the model does not expose them.
type Prediction struct {
	Label         Class
	Probabilities map[Class]float64
}
