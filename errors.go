package kalman1d

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidVariance is returned when a belief carries a variance which is not strictly positive and finite.
	ErrInvalidVariance = errors.New("kalman1d: variance must be strictly positive and finite")
	// ErrInvalidMean is returned when a belief carries a NaN or infinite mean.
	ErrInvalidMean = errors.New("kalman1d: mean must be finite")
	// ErrMalformedInput is returned when the measurement and motion sequences do not agree.
	ErrMalformedInput = errors.New("kalman1d: malformed input")
)

// checkVariance returns an error if the provided variance cannot describe a Gaussian.
func checkVariance(v float64, name string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s=%v", ErrInvalidVariance, name, v)
	}
	return nil
}

// checkMean returns an error if the provided mean is not a real number.
func checkMean(m float64, name string) error {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return fmt.Errorf("%w: %s=%v", ErrInvalidMean, name, m)
	}
	return nil
}

// checkSeqLens checks that the measurement and motion sequences can be iterated in lockstep.
func checkSeqLens(measurements, motion []float64) error {
	if len(measurements) != len(motion) {
		return fmt.Errorf("%w: %d measurements but %d motion steps", ErrMalformedInput, len(measurements), len(motion))
	}
	return nil
}
