// Package kalman1d implements a one dimensional discrete Kalman filter which
// alternates a measurement update and a motion prediction over scalar Gaussian
// beliefs.
package kalman1d

// EventKind allows for quick comparison of estimates.
type EventKind uint8

const (
	// UpdateEvent is the estimate after fusing a measurement.
	UpdateEvent EventKind = iota + 1
	// PredictEvent is the estimate after applying the motion.
	PredictEvent
)

func (k EventKind) String() string {
	switch k {
	case UpdateEvent:
		return "Update"
	case PredictEvent:
		return "Predict"
	default:
		return "Unknown"
	}
}

// Estimator defines a scalar Kalman filter driven one step at a time.
type Estimator interface {
	Step(measurement, motion float64) (update, predict Estimate, err error)
	Belief() Gaussian
	StepCount() int
	GetNoise() Noise
	SetNoise(Noise) error
	Reset()
	String() string
}
