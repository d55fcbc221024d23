package main

import (
	"fmt"
	"log/slog"

	"github.com/kalmanlab/kalman1d"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run Monte Carlo simulations to check the filter consistency",
		Long: `Simulate noisy trajectories from --x0 following --motion, filter each of them
and print, for every step, the mean and standard deviation of the updated
estimates across runs along with the mean NEES of the updates and predictions
and the mean NIS of the updates. A consistent filter has NEES and NIS values
close to 1.

With --all, print every run's estimates instead.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadFilterSettings(v)
			if err != nil {
				return err
			}
			if err := (kalman1d.Noiseless{R: settings.r, Q: settings.q}).Validate(); err != nil {
				return err
			}
			seed := v.GetUint64("seed")
			noise := func(run int) kalman1d.Noise {
				return kalman1d.NewAWGN(settings.r, settings.q, seed+uint64(run))
			}

			samples := v.GetInt("samples")
			slog.Info("Simulating", "samples", samples, "steps", len(settings.motion), "seed", seed)
			runs, err := kalman1d.NewMonteCarloRuns(samples, v.GetFloat64("x0"), settings.motion, settings.prior, noise)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if v.GetBool("all") {
				_, err = fmt.Fprintln(out, runs.AsCSV())
				return err
			}

			updNEES, err := kalman1d.NewChiSquare(runs, kalman1d.UpdateEvent)
			if err != nil {
				return err
			}
			predNEES, err := kalman1d.NewChiSquare(runs, kalman1d.PredictEvent)
			if err != nil {
				return err
			}
			nis, err := kalman1d.NewChiSquareNIS(runs)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out, "step,mean,stddev,nees-update,nees-predict,nis"); err != nil {
				return err
			}
			for k := range updNEES {
				if _, err := fmt.Fprintf(out, "%d,%f,%f,%f,%f,%f\n", k, runs.Mean(2*k), runs.StdDev(2*k), updNEES[k], predNEES[k], nis[k]); err != nil {
					return err
				}
			}
			return nil
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().Int("samples", 100, "number of Monte Carlo runs")
	cmd.Flags().Uint64("seed", 1, "seed of the first run, run i uses seed+i")
	cmd.Flags().Float64("x0", 0, "true initial state")
	cmd.Flags().Bool("all", false, "print the estimates of every run")
	return cmd
}
