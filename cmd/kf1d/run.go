package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kalmanlab/kalman1d"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Filter a sequence of measurements and motion",
		Long: `Filter the measurements and motion in lockstep and print one line per event:

  Update: <mean> <variance>
  Predict: <mean> <variance>

Without flags, this reproduces the reference run: measurements 5,6,7,9,10,
motion 1,1,2,1,1, measurement variance 4, motion variance 2 and prior N(0, 1000).

The sequences can be read from a CSV file of "measurement,motion" records with
--input (use - for stdin). Sequences of different lengths are rejected.

Examples:

  kf1d run --measurements 5,6,7 --motion 1,1,2
  kf1d run --input steps.csv --format csv
  kf1d run --form information
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadFilterSettings(v)
			if err != nil {
				return err
			}
			measurements, err := parseFloats(v.GetStringSlice("measurements"))
			if err != nil {
				return fmt.Errorf("measurements: %w", err)
			}
			motion := settings.motion
			if input := v.GetString("input"); input != "" {
				measurements, motion, err = readInput(cmd, input)
				if err != nil {
					return err
				}
			}

			noise := kalman1d.Noiseless{R: settings.r, Q: settings.q}
			var kf kalman1d.Estimator
			switch form := v.GetString("form"); form {
			case "covariance":
				f, err := kalman1d.NewFilter(settings.prior, noise)
				if err != nil {
					return err
				}
				kf = f.WithLogger(slog.Default())
			case "information":
				if kf, err = kalman1d.NewInformationFromState(settings.prior, noise); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown filter form %q", form)
			}

			var exp kalman1d.Exporter
			switch format := v.GetString("format"); format {
			case "text":
				exp = kalman1d.NewTextExporter(cmd.OutOrStdout())
			case "csv":
				if exp, err = kalman1d.NewCSVExporter(cmd.OutOrStdout()); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			slog.Debug("Running filter", "steps", len(measurements), "noise", noise, "prior", settings.prior)
			ests, err := kalman1d.Drive(kf, measurements, motion)
			if err != nil {
				return err
			}
			return kalman1d.Export(exp, ests)
		},
	}

	addFilterFlags(cmd)
	cmd.Flags().StringSlice("measurements", floatStrings(kalman1d.ReferenceMeasurements), "observed values, one per step")
	cmd.Flags().String("input", "", "CSV file of measurement,motion records (- for stdin)")
	cmd.Flags().String("format", "text", "output format: text or csv")
	cmd.Flags().String("form", "covariance", "filter form: covariance or information")
	return cmd
}

func readInput(cmd *cobra.Command, input string) ([]float64, []float64, error) {
	if input == "-" {
		return readSequences(cmd.InOrStdin())
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return readSequences(f)
}
