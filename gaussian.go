package kalman1d

import (
	"fmt"
	"math"
)

const (
	// DefaultPriorMean is the mean of the maximally uncertain starting belief.
	DefaultPriorMean = 0.0
	// DefaultPriorVariance is the variance of the maximally uncertain starting belief.
	DefaultPriorVariance = 1000.0
)

// Gaussian is a scalar normal belief. It is a value type: Update and Predict
// return new beliefs and never modify their inputs.
type Gaussian struct {
	Mean     float64
	Variance float64
}

// NewGaussian returns a validated Gaussian.
func NewGaussian(mean, variance float64) (Gaussian, error) {
	g := Gaussian{mean, variance}
	if err := g.Validate(); err != nil {
		return Gaussian{}, err
	}
	return g, nil
}

// Prior returns the default starting belief, i.e. N(0, 1000).
func Prior() Gaussian {
	return Gaussian{DefaultPriorMean, DefaultPriorVariance}
}

// Validate returns an error if this belief does not describe a normal distribution.
func (g Gaussian) Validate() error {
	if err := checkMean(g.Mean, "mean"); err != nil {
		return err
	}
	return checkVariance(g.Variance, "variance")
}

// StdDev returns σ.
func (g Gaussian) StdDev() float64 {
	return math.Sqrt(g.Variance)
}

// Precision returns the inverse of the variance.
func (g Gaussian) Precision() float64 {
	return 1 / g.Variance
}

// IsWithinNσ returns whether x is within the N*σ bounds of this belief.
func (g Gaussian) IsWithinNσ(x, N float64) bool {
	return math.Abs(x-g.Mean) <= N*g.StdDev()
}

func (g Gaussian) String() string {
	return fmt.Sprintf("%v %v", g.Mean, g.Variance)
}

// Update fuses the prior belief with a measurement and returns the posterior.
// The posterior mean is the average of both means, each weighted by the other's
// variance, and the posterior precision is the sum of both precisions.
// An error is returned if the posterior is not representable, e.g. on overflow.
func Update(prior, measurement Gaussian) (Gaussian, error) {
	if err := validatePair(prior, measurement, "prior", "measurement"); err != nil {
		return Gaussian{}, err
	}
	v1, v2 := prior.Variance, measurement.Variance
	k := gain(v1, v2)
	posterior := Gaussian{
		Mean:     prior.Mean + k*(measurement.Mean-prior.Mean),
		Variance: 1 / (1/v1 + 1/v2),
	}
	if err := posterior.Validate(); err != nil {
		return Gaussian{}, fmt.Errorf("posterior: %w", err)
	}
	return posterior, nil
}

// Predict propagates the belief through a noisy displacement.
// An error is returned if the result overflows.
func Predict(belief, motion Gaussian) (Gaussian, error) {
	if err := validatePair(belief, motion, "belief", "motion"); err != nil {
		return Gaussian{}, err
	}
	next := Gaussian{
		Mean:     belief.Mean + motion.Mean,
		Variance: belief.Variance + motion.Variance,
	}
	if err := next.Validate(); err != nil {
		return Gaussian{}, fmt.Errorf("prediction: %w", err)
	}
	return next, nil
}

// gain returns v1/(v1+v2) without forming the sum, which may overflow.
func gain(v1, v2 float64) float64 {
	return 1 / (1 + v2/v1)
}

func validatePair(a, b Gaussian, nameA, nameB string) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("%s: %w", nameA, err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("%s: %w", nameB, err)
	}
	return nil
}
