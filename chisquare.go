package kalman1d

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// NewChiSquare runs the NEES test on the Monte Carlo runs for the estimates of
// the provided kind. Returns the mean NEES per step, which for a consistent
// filter is χ² distributed with one degree of freedom and averages to 1.
func NewChiSquare(runs MonteCarloRuns, kind EventKind) ([]float64, error) {
	if kind != UpdateEvent && kind != PredictEvent {
		return nil, errors.New("kalman1d: Chi Square requires either Update or Predict estimates")
	}
	return chiSquareMeans(runs, kind, func(truth *GroundTruth, est Estimate) float64 {
		return truth.NEES(est)
	})
}

// NewChiSquareNIS runs the NIS test on the Monte Carlo runs. Unlike the NEES,
// the NIS does not need the true states, only the innovation of each update
// and its variance P⁻+R. Returns the mean NIS per step.
func NewChiSquareNIS(runs MonteCarloRuns) ([]float64, error) {
	return chiSquareMeans(runs, UpdateEvent, func(_ *GroundTruth, est Estimate) float64 {
		return est.NIS()
	})
}

func chiSquareMeans(runs MonteCarloRuns, kind EventKind, sample func(*GroundTruth, Estimate) float64) ([]float64, error) {
	if len(runs.Runs) == 0 {
		return nil, errors.New("kalman1d: Chi Square requires at least one Monte Carlo run")
	}

	numSteps := runs.steps / 2
	samples := make([][]float64, numSteps)
	for k := range samples {
		samples[k] = make([]float64, len(runs.Runs))
	}
	for rNo, run := range runs.Runs {
		truth := NewGroundTruth(run.Truth.States)
		for _, est := range run.Estimates {
			if est.Kind != kind {
				continue
			}
			samples[est.Step][rNo] = sample(truth, est)
		}
	}

	means := make([]float64, numSteps)
	for k := 0; k < numSteps; k++ {
		means[k] = stat.Mean(samples[k], nil)
	}
	return means, nil
}
