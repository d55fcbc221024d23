package kalman1d

import (
	"fmt"
	"math"
)

// NewInformation returns a new Information KF, which carries the belief as an
// information state i = μ/σ² and an information (precision) Y = 1/σ².
// Unlike NewFilter, a zero information is accepted and models total ignorance
// of the initial state: the first update then adopts the measurement.
// Parameters:
// - i0: initial information state (usually zero)
// - Y0: initial information (usually zero)
// - noise: Noise
func NewInformation(i0, Y0 float64, noise Noise) (*Information, error) {
	if err := checkMean(i0, "i0"); err != nil {
		return nil, err
	}
	if math.IsNaN(Y0) || math.IsInf(Y0, 0) || Y0 < 0 {
		return nil, fmt.Errorf("%w: information Y0=%v must be finite and non negative", ErrInvalidVariance, Y0)
	}
	if Y0 == 0 && i0 != 0 {
		return nil, fmt.Errorf("%w: non zero information state without information", ErrInvalidMean)
	}
	if err := checkNoise(noise); err != nil {
		return nil, err
	}
	return &Information{Noise: noise, i0: i0, Y0: Y0, info: i0, infoMat: Y0}, nil
}

// NewInformationFromState returns a new Information KF from a prior belief.
func NewInformationFromState(prior Gaussian, noise Noise) (*Information, error) {
	if err := prior.Validate(); err != nil {
		return nil, fmt.Errorf("prior: %w", err)
	}
	return NewInformation(prior.Mean/prior.Variance, prior.Precision(), noise)
}

// Information defines an information form Kalman filter. Use NewInformation to initialize.
type Information struct {
	Noise   Noise
	i0, Y0  float64
	info    float64 // \hat{i}_{k}
	infoMat float64 // Y_{k}
	step    int
}

func (kf *Information) String() string {
	return fmt.Sprintf("Information{k=%d i=%v Y=%v %s}", kf.step, kf.info, kf.infoMat, kf.Noise)
}

// Belief returns the current belief. Without any information, the variance is +Inf.
func (kf *Information) Belief() Gaussian {
	if kf.infoMat == 0 {
		return Gaussian{0, math.Inf(1)}
	}
	return Gaussian{kf.info / kf.infoMat, 1 / kf.infoMat}
}

// StepCount returns the number of steps performed since the last reset.
func (kf *Information) StepCount() int {
	return kf.step
}

// GetNoise returns the Noise.
func (kf *Information) GetNoise() Noise {
	return kf.Noise
}

// SetNoise updates the Noise.
func (kf *Information) SetNoise(n Noise) error {
	if err := checkNoise(n); err != nil {
		return err
	}
	kf.Noise = n
	return nil
}

// Reset returns the filter to its initial information.
func (kf *Information) Reset() {
	kf.info = kf.i0
	kf.infoMat = kf.Y0
	kf.step = 0
}

// Step implements the Estimator interface. On error, the filter is left unchanged.
func (kf *Information) Step(measurement, motion float64) (update, predict Estimate, err error) {
	if err = checkMean(measurement, "measurement"); err != nil {
		return Estimate{}, Estimate{}, fmt.Errorf("update at k=%d: %w", kf.step, err)
	}
	if err = checkMean(motion, "motion"); err != nil {
		return Estimate{}, Estimate{}, fmt.Errorf("predict at k=%d: %w", kf.step, err)
	}
	R, Q := kf.Noise.MeasurementVariance(), kf.Noise.MotionVariance()
	prior := kf.Belief()

	// Measurement update: information adds up.
	YPlus := kf.infoMat + 1/R
	iPlus := kf.info + measurement/R
	posterior := Gaussian{iPlus / YPlus, 1 / YPlus}
	if err = posterior.Validate(); err != nil {
		return Estimate{}, Estimate{}, fmt.Errorf("update at k=%d: posterior: %w", kf.step, err)
	}
	update = Estimate{
		Step:               kf.step,
		Kind:               UpdateEvent,
		Belief:             posterior,
		Innovation:         measurement - prior.Mean,
		Gain:               (1 / R) / YPlus,
		InnovationVariance: prior.Variance + R,
	}

	// Prediction: Y^{-} = (1/Y + Q)^{-1} = Y / (1 + QY)
	YMinus := YPlus / (1 + Q*YPlus)
	next := Gaussian{posterior.Mean + motion, 1 / YMinus}
	if err = next.Validate(); err != nil {
		return Estimate{}, Estimate{}, fmt.Errorf("predict at k=%d: prediction: %w", kf.step, err)
	}
	predict = Estimate{Step: kf.step, Kind: PredictEvent, Belief: next}

	kf.infoMat = YMinus
	kf.info = YMinus * next.Mean
	kf.step++
	return
}
