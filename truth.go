package kalman1d

import "fmt"

// Trajectory is a simulated true state history with the measurements taken along it.
type Trajectory struct {
	States       []float64   // x_0 ... x_n
	Measurements []float64   // z_0 ... z_{n-1}
	Motion       []float64   // commanded displacement u_0 ... u_{n-1}
	Noise        *BatchNoise // v_k and w_k drawn along this trajectory
}

// Simulate generates a trajectory from x0 where x_{k+1} = x_k + u_k + w_k and
// z_k = x_k + v_k, with w and v drawn from the noise. The drawn samples are
// kept in the trajectory, so Simulate(x0, motion, traj.Noise) reproduces it.
func Simulate(x0 float64, motion []float64, noise Noise) Trajectory {
	batch := RecordNoise(noise, len(motion))
	states := make([]float64, len(motion)+1)
	meas := make([]float64, len(motion))
	states[0] = x0
	for k, u := range motion {
		meas[k] = states[k] + batch.Measurement(k)
		states[k+1] = states[k] + u + batch.Motion(k)
	}
	return Trajectory{states, meas, motion, batch}
}

// GroundTruth computes the error of a given estimate from a known batch of states.
type GroundTruth struct {
	states []float64
}

// NewGroundTruth initializes a new ground truth from the true states.
func NewGroundTruth(states []float64) *GroundTruth {
	return &GroundTruth{states}
}

// Truth returns the true state the estimate refers to. An update at step k
// estimates x_k while a prediction at step k estimates x_{k+1}.
func (t *GroundTruth) Truth(est Estimate) float64 {
	k := est.Step
	if est.Kind == PredictEvent {
		k++
	}
	if k < 0 || k >= len(t.states) {
		panic(fmt.Errorf("no ground truth state defined at step k=%d", k))
	}
	return t.states[k]
}

// Error returns the estimated mean minus the true state.
func (t *GroundTruth) Error(est Estimate) float64 {
	return est.Mean() - t.Truth(est)
}

// NEES returns the normalized estimation error squared of the estimate.
func (t *GroundTruth) NEES(est Estimate) float64 {
	e := t.Error(est)
	return e * e / est.Variance()
}
