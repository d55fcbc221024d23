package kalman1d

import (
	"fmt"
	"log/slog"
)

// NewFilter returns a new Filter starting from the provided prior belief.
// Each call to Step fuses one measurement and then applies one motion.
// Parameters:
// - prior: initial belief, use Prior() for the maximally uncertain N(0, 1000)
// - noise: Noise, its variances are used for every step
func NewFilter(prior Gaussian, noise Noise) (*Filter, error) {
	// Check everything here to fail before the first step.
	if err := prior.Validate(); err != nil {
		return nil, fmt.Errorf("prior: %w", err)
	}
	if err := checkNoise(noise); err != nil {
		return nil, err
	}
	return &Filter{Noise: noise, prior: prior, belief: prior}, nil
}

// Filter defines a one dimensional Kalman filter. Use NewFilter to initialize.
type Filter struct {
	Noise  Noise
	prior  Gaussian
	belief Gaussian
	step   int
	logger *slog.Logger
}

// WithLogger sets a logger which receives a debug record for each estimate.
func (kf *Filter) WithLogger(l *slog.Logger) *Filter {
	kf.logger = l
	return kf
}

func (kf *Filter) String() string {
	return fmt.Sprintf("Filter{k=%d belief=%s %s}", kf.step, kf.belief, kf.Noise)
}

// Belief returns the current belief, i.e. the last prediction.
func (kf *Filter) Belief() Gaussian {
	return kf.belief
}

// StepCount returns the number of steps performed since the last reset.
func (kf *Filter) StepCount() int {
	return kf.step
}

// GetNoise returns the Noise.
func (kf *Filter) GetNoise() Noise {
	return kf.Noise
}

// SetNoise updates the Noise.
func (kf *Filter) SetNoise(n Noise) error {
	if err := checkNoise(n); err != nil {
		return err
	}
	kf.Noise = n
	return nil
}

// Reset returns the filter to its prior belief.
func (kf *Filter) Reset() {
	kf.belief = kf.prior
	kf.step = 0
}

// Step implements the Estimator interface. On error, the filter is left unchanged.
func (kf *Filter) Step(measurement, motion float64) (update, predict Estimate, err error) {
	z := Gaussian{measurement, kf.Noise.MeasurementVariance()}
	posterior, err := Update(kf.belief, z)
	if err != nil {
		return Estimate{}, Estimate{}, fmt.Errorf("update at k=%d: %w", kf.step, err)
	}
	update = Estimate{
		Step:       kf.step,
		Kind:       UpdateEvent,
		Belief:     posterior,
		Innovation: measurement - kf.belief.Mean,
		Gain:       gain(kf.belief.Variance, z.Variance),
		// S may overflow when both variances are huge, the posterior does not.
		InnovationVariance: kf.belief.Variance + z.Variance,
	}

	u := Gaussian{motion, kf.Noise.MotionVariance()}
	next, err := Predict(posterior, u)
	if err != nil {
		return Estimate{}, Estimate{}, fmt.Errorf("predict at k=%d: %w", kf.step, err)
	}
	predict = Estimate{Step: kf.step, Kind: PredictEvent, Belief: next}

	if kf.logger != nil {
		kf.logger.Debug("step", "k", kf.step, "update", posterior, "predict", next, "innovation", update.Innovation, "gain", update.Gain)
	}
	kf.belief = next
	kf.step++
	return
}

func checkNoise(n Noise) error {
	if n == nil {
		return fmt.Errorf("%w: nil noise", ErrInvalidVariance)
	}
	if err := checkVariance(n.MeasurementVariance(), "measurement variance"); err != nil {
		return err
	}
	return checkVariance(n.MotionVariance(), "motion variance")
}
