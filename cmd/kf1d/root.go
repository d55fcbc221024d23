package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/kalmanlab/kalman1d"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newRootCmd builds the kf1d command tree. Each tree owns its viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "kf1d",
		Short: "One dimensional Kalman filter",
		Long: `Fuse a sequence of noisy measurements with a known motion model.

Each step updates the belief with a measurement and then predicts it forward
with the motion. Every flag can also be set from a config file (--config) or
from the environment with the KF1D_ prefix, e.g. KF1D_MEASUREMENT_VAR=4.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			setDefaultSlog(cmd, v)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log every filter step")

	rootCmd.AddCommand(newRunCmd(v), newSimulateCmd(v))
	return rootCmd
}

// initConfig reads in the config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("KF1D")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

func setDefaultSlog(cmd *cobra.Command, v *viper.Viper) {
	level := slog.LevelInfo
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
}

// addFilterFlags adds the flags shared by the commands which run a filter.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("motion", floatStrings(kalman1d.ReferenceMotion), "displacement applied after each measurement")
	cmd.Flags().Float64("measurement-var", kalman1d.ReferenceMeasurementVariance, "measurement variance")
	cmd.Flags().Float64("motion-var", kalman1d.ReferenceMotionVariance, "motion variance")
	cmd.Flags().Float64("prior-mean", kalman1d.DefaultPriorMean, "mean of the initial belief")
	cmd.Flags().Float64("prior-var", kalman1d.DefaultPriorVariance, "variance of the initial belief")
}
