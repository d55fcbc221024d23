package kalman1d

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// MonteCarloRuns stores MC runs.
type MonteCarloRuns struct {
	runs, steps int
	Runs        []MonteCarloRun
}

// MonteCarloRun stores the simulated truth of a run and the estimates of the filter along it.
type MonteCarloRun struct {
	Truth     Trajectory
	Estimates []Estimate // Update_0, Predict_0, Update_1, ...
}

// NewMonteCarloRuns simulates the provided number of trajectories from x0
// following motion and filters each of them from the prior. The noise function
// is called once per run, with the run number, and its Noise must not be shared
// with other runs since runs execute concurrently, at most GOMAXPROCS at a time.
func NewMonteCarloRuns(samples int, x0 float64, motion []float64, prior Gaussian, noise func(run int) Noise) (MonteCarloRuns, error) {
	if samples < 1 {
		return MonteCarloRuns{}, errors.New("kalman1d: must request at least one Monte Carlo run")
	}
	if err := prior.Validate(); err != nil {
		return MonteCarloRuns{}, fmt.Errorf("prior: %w", err)
	}
	runs := make([]MonteCarloRun, samples)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for r := 0; r < samples; r++ {
		g.Go(func() error {
			n := noise(r)
			truth := Simulate(x0, motion, n)
			ests, err := Run(prior, truth.Measurements, motion, n)
			if err != nil {
				return fmt.Errorf("run #%d: %w", r, err)
			}
			runs[r] = MonteCarloRun{truth, ests}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MonteCarloRuns{}, err
	}
	return MonteCarloRuns{samples, 2 * len(motion), runs}, nil
}

// Steps returns the number of estimates per run.
func (mc MonteCarloRuns) Steps() int {
	return mc.steps
}

func (mc MonteCarloRuns) samples(i int) []float64 {
	if i < 0 || i >= mc.steps {
		panic(fmt.Errorf("no estimate #%d in runs of %d estimates", i, mc.steps))
	}
	vals := make([]float64, len(mc.Runs))
	for r, run := range mc.Runs {
		vals[r] = run.Estimates[i].Mean()
	}
	return vals
}

// Mean returns the mean of the estimated states of all runs for the i-th estimate.
func (mc MonteCarloRuns) Mean(i int) float64 {
	return stat.Mean(mc.samples(i), nil)
}

// StdDev returns the standard deviation of the estimated states of all runs for the i-th estimate.
func (mc MonteCarloRuns) StdDev(i int) float64 {
	return stat.StdDev(mc.samples(i), nil)
}

// AsCSV is used as a CSV serializer, with one line per estimate and one column per run.
func (mc MonteCarloRuns) AsCSV() string {
	lines := make([]string, mc.steps+1) // One line per estimate, plus header.
	hdr := []string{"estimate"}
	for rNo := 0; rNo < mc.runs; rNo++ {
		hdr = append(hdr, fmt.Sprintf("run-%d", rNo))
	}
	lines[0] = strings.Join(append(hdr, "mean", "stddev"), ",")

	for i := 0; i < mc.steps; i++ {
		est := mc.Runs[0].Estimates[i]
		vals := []string{fmt.Sprintf("%s-%d", est.Kind, est.Step)}
		for _, run := range mc.Runs {
			vals = append(vals, fmt.Sprintf("%f", run.Estimates[i].Mean()))
		}
		vals = append(vals, fmt.Sprintf("%f", mc.Mean(i)), fmt.Sprintf("%f", mc.StdDev(i)))
		lines[i+1] = strings.Join(vals, ",")
	}
	return strings.Join(lines, "\n")
}
