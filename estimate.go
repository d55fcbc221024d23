package kalman1d

import "fmt"

// Estimate is returned for each half step of the Filter.
type Estimate struct {
	Step       int       // Index of the measurement/motion pair which produced this estimate
	Kind       EventKind // Update or Predict
	Belief     Gaussian  // Returns \hat{x}_{k} and P_{k} after this event
	Innovation float64   // z_k - \hat{x}_{k}^{-}, zero for a prediction
	Gain       float64   // Kalman gain used for the update, zero for a prediction
	// InnovationVariance is S_k = P_{k}^{-} + R, zero for a prediction.
	InnovationVariance float64
}

// Mean returns the estimated state.
func (e Estimate) Mean() float64 {
	return e.Belief.Mean
}

// Variance returns the variance of the estimated state.
func (e Estimate) Variance() float64 {
	return e.Belief.Variance
}

// IsWithinNσ returns whether the truth is within the N*σ bounds of the estimate.
func (e Estimate) IsWithinNσ(truth, N float64) bool {
	return e.Belief.IsWithinNσ(truth, N)
}

// NIS returns the normalized innovation squared of an update, i.e. ν²/S.
// It is zero for a prediction, which has no innovation.
func (e Estimate) NIS() float64 {
	if e.Kind != UpdateEvent || e.InnovationVariance == 0 {
		return 0
	}
	return e.Innovation * e.Innovation / e.InnovationVariance
}

// String returns the estimate as "<Kind>: <mean> <variance>".
func (e Estimate) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Belief)
}
