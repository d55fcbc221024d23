package kalman1d

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Noise allows to handle the noise for a KF. Variances are constant over time.
type Noise interface {
	MeasurementVariance() float64 // Returns the measurement noise variance R
	MotionVariance() float64      // Returns the motion (process) noise variance Q
	Measurement(k int) float64    // Returns the measurement noise v at step k
	Motion(k int) float64         // Returns the motion noise w at step k
	String() string               // Stringer interface implementation
}

// Noiseless is noiseless and implements the Noise interface.
type Noiseless struct {
	R, Q float64
}

// NewNoiseless creates a new Noiseless from the provided measurement and motion variances.
func NewNoiseless(R, Q float64) *Noiseless {
	mustNoiseVariances(R, Q)
	return &Noiseless{R, Q}
}

// Validate returns an error if either variance is not strictly positive.
func (n Noiseless) Validate() error {
	return checkNoise(n)
}

// MeasurementVariance implements the Noise interface.
func (n Noiseless) MeasurementVariance() float64 {
	return n.R
}

// MotionVariance implements the Noise interface.
func (n Noiseless) MotionVariance() float64 {
	return n.Q
}

// Measurement returns zero.
func (n Noiseless) Measurement(k int) float64 {
	return 0
}

// Motion returns zero.
func (n Noiseless) Motion(k int) float64 {
	return 0
}

// String implements the Stringer interface.
func (n Noiseless) String() string {
	return fmt.Sprintf("Noiseless{R=%v Q=%v}", n.R, n.Q)
}

// BatchNoise implements the Noise interface and replays recorded noise samples.
type BatchNoise struct {
	R, Q        float64
	measurement []float64 // v_k
	motion      []float64 // w_k
}

// NewBatchNoise returns a BatchNoise replaying the provided samples with the provided variances.
func NewBatchNoise(R, Q float64, measurement, motion []float64) *BatchNoise {
	mustNoiseVariances(R, Q)
	return &BatchNoise{R, Q, measurement, motion}
}

// RecordNoise draws the first steps samples of the provided noise, measurement
// then motion at each step, and returns them as a BatchNoise.
func RecordNoise(n Noise, steps int) *BatchNoise {
	measurement := make([]float64, steps)
	motion := make([]float64, steps)
	for k := 0; k < steps; k++ {
		measurement[k] = n.Measurement(k)
		motion[k] = n.Motion(k)
	}
	return NewBatchNoise(n.MeasurementVariance(), n.MotionVariance(), measurement, motion)
}

// MeasurementVariance implements the Noise interface.
func (n BatchNoise) MeasurementVariance() float64 {
	return n.R
}

// MotionVariance implements the Noise interface.
func (n BatchNoise) MotionVariance() float64 {
	return n.Q
}

// Measurement implements the Noise interface.
func (n BatchNoise) Measurement(k int) float64 {
	if k < 0 || k >= len(n.measurement) {
		panic(fmt.Errorf("no measurement noise defined at step k=%d", k))
	}
	return n.measurement[k]
}

// Motion implements the Noise interface.
func (n BatchNoise) Motion(k int) float64 {
	if k < 0 || k >= len(n.motion) {
		panic(fmt.Errorf("no motion noise defined at step k=%d", k))
	}
	return n.motion[k]
}

// Steps returns the number of steps for which both samples are defined.
func (n BatchNoise) Steps() int {
	return min(len(n.measurement), len(n.motion))
}

// String implements the Stringer interface.
func (n BatchNoise) String() string {
	return fmt.Sprintf("BatchNoise{R=%v Q=%v steps=%d}", n.R, n.Q, n.Steps())
}

// AWGN implements the Noise interface and generates an additive white Gaussian noise.
// An AWGN is not safe for concurrent use: give each goroutine its own.
type AWGN struct {
	R, Q        float64
	measurement distuv.Normal
	motion      distuv.Normal
	rnd         *rand.Rand
}

// NewAWGN creates new AWGN noise from the provided R and Q. The samples are
// fully determined by the seed.
func NewAWGN(R, Q float64, seed uint64) *AWGN {
	mustNoiseVariances(R, Q)
	return &AWGN{
		R:           R,
		Q:           Q,
		measurement: distuv.Normal{Mu: 0, Sigma: math.Sqrt(R)},
		motion:      distuv.Normal{Mu: 0, Sigma: math.Sqrt(Q)},
		rnd:         rand.New(rand.NewPCG(seed, 0x6b616c6d616e)),
	}
}

// MeasurementVariance implements the Noise interface.
func (n AWGN) MeasurementVariance() float64 {
	return n.R
}

// MotionVariance implements the Noise interface.
func (n AWGN) MotionVariance() float64 {
	return n.Q
}

// Measurement implements the Noise interface.
func (n AWGN) Measurement(k int) float64 {
	return n.measurement.Quantile(n.uniform())
}

// Motion implements the Noise interface.
func (n AWGN) Motion(k int) float64 {
	return n.motion.Quantile(n.uniform())
}

// uniform returns a sample in the open interval (0, 1), as required by Quantile.
func (n AWGN) uniform() float64 {
	for {
		if u := n.rnd.Float64(); u > 0 {
			return u
		}
	}
}

// String implements the Stringer interface.
func (n AWGN) String() string {
	return fmt.Sprintf("AWGN{R=%v Q=%v}", n.R, n.Q)
}

func mustNoiseVariances(R, Q float64) {
	if err := checkVariance(R, "R"); err != nil {
		panic(fmt.Errorf("measurement noise invalid: %w", err))
	}
	if err := checkVariance(Q, "Q"); err != nil {
		panic(fmt.Errorf("motion noise invalid: %w", err))
	}
}
