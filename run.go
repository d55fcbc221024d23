package kalman1d

import "iter"

// Inputs of the reference run.
var (
	ReferenceMeasurements = []float64{5, 6, 7, 9, 10}
	ReferenceMotion       = []float64{1, 1, 2, 1, 1}
)

const (
	// ReferenceMeasurementVariance is the measurement variance of the reference run.
	ReferenceMeasurementVariance = 4.0
	// ReferenceMotionVariance is the motion variance of the reference run.
	ReferenceMotionVariance = 2.0
)

// Run filters the measurements and motion in lockstep and returns every
// estimate in order: Update_0, Predict_0, Update_1, Predict_1, ...
// Sequences of different lengths are rejected before any step is computed.
func Run(prior Gaussian, measurements, motion []float64, noise Noise) ([]Estimate, error) {
	if err := checkSeqLens(measurements, motion); err != nil {
		return nil, err
	}
	kf, err := NewFilter(prior, noise)
	if err != nil {
		return nil, err
	}
	return kf.Run(measurements, motion)
}

// Run steps the filter over all the measurements and motion from its current belief.
func (kf *Filter) Run(measurements, motion []float64) ([]Estimate, error) {
	return Drive(kf, measurements, motion)
}

// Drive steps any Estimator over all the measurements and motion.
func Drive(kf Estimator, measurements, motion []float64) ([]Estimate, error) {
	if err := checkSeqLens(measurements, motion); err != nil {
		return nil, err
	}
	ests := make([]Estimate, 0, 2*len(measurements))
	for k := range measurements {
		upd, pred, err := kf.Step(measurements[k], motion[k])
		if err != nil {
			return nil, err
		}
		ests = append(ests, upd, pred)
	}
	return ests, nil
}

// Sequence is the lazy version of Run. On error, the error is yielded once
// with a zero Estimate and the sequence stops.
func Sequence(prior Gaussian, measurements, motion []float64, noise Noise) iter.Seq2[Estimate, error] {
	return func(yield func(Estimate, error) bool) {
		if err := checkSeqLens(measurements, motion); err != nil {
			yield(Estimate{}, err)
			return
		}
		kf, err := NewFilter(prior, noise)
		if err != nil {
			yield(Estimate{}, err)
			return
		}
		for k := range measurements {
			upd, pred, err := kf.Step(measurements[k], motion[k])
			if err != nil {
				yield(Estimate{}, err)
				return
			}
			if !yield(upd, nil) || !yield(pred, nil) {
				return
			}
		}
	}
}
