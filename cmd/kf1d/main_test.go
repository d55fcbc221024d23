package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalmanlab/kalman1d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func TestRunDefaults(t *testing.T) {
	out, err := execute(t, "", "run")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "Update: 4.9800796812749 3.9840637450199203", lines[0])
	assert.Equal(t, "Predict: 5.9800796812749 5.98406374501992", lines[1])
	assert.Equal(t, "Update: 5.992019154030327 2.3974461292897047", lines[2])
	assert.Equal(t, "Predict: 10.99906346214631 4.005829948139216", lines[9])
}

func TestRunFlags(t *testing.T) {
	out, err := execute(t, "", "run", "--measurements", "13", "--motion", "1", "--prior-mean", "10", "--prior-var", "8", "--measurement-var", "8")
	require.NoError(t, err)
	assert.Equal(t, "Update: 11.5 4\nPredict: 12.5 6\n", out)
}

func TestRunInformationForm(t *testing.T) {
	out, err := execute(t, "", "run", "--form", "information")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "Update: 4.98"))
	assert.True(t, strings.HasPrefix(lines[9], "Predict: 10.99"))

	_, err = execute(t, "", "run", "--form", "square-root")
	require.Error(t, err)
}

func TestRunCSV(t *testing.T) {
	out, err := execute(t, "", "run", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "step,event,mean,variance,mean+2s,mean-2s", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,Update,4.9800796812749,3.9840637450199203,"))
}

func TestRunInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.csv")
	require.NoError(t, os.WriteFile(path, []byte("measurement,motion\n# reference\n5,1\n6,1\n"), 0o644))
	out, err := execute(t, "", "run", "--input", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Predict: 6.992019154030327 4.397446129289705", lines[3])

	out, err = execute(t, "5, 1\n", "run", "--input", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Update: 4.9800796812749 "))
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "", "run", "--measurements", "1,2,3", "--motion", "1,1")
	require.ErrorIs(t, err, kalman1d.ErrMalformedInput)

	_, err = execute(t, "", "run", "--measurement-var", "0")
	require.ErrorIs(t, err, kalman1d.ErrInvalidVariance)

	_, err = execute(t, "", "run", "--prior-var", "-5")
	require.ErrorIs(t, err, kalman1d.ErrInvalidVariance)

	_, err = execute(t, "", "run", "--measurements", "five")
	require.Error(t, err)

	_, err = execute(t, "", "run", "--format", "xml")
	require.Error(t, err)

	_, err = execute(t, "5,1,3\n", "run", "--input", "-")
	require.ErrorIs(t, err, kalman1d.ErrMalformedInput)

	_, err = execute(t, "", "run", "--input", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestRunEnvAndConfig(t *testing.T) {
	t.Setenv("KF1D_MEASUREMENTS", "13")
	t.Setenv("KF1D_MOTION", "1")
	t.Setenv("KF1D_PRIOR_MEAN", "10")
	t.Setenv("KF1D_PRIOR_VAR", "8")
	t.Setenv("KF1D_MEASUREMENT_VAR", "8")
	out, err := execute(t, "", "run")
	require.NoError(t, err)
	assert.Equal(t, "Update: 11.5 4\nPredict: 12.5 6\n", out)

	// Explicit flags win over the environment.
	out, err = execute(t, "", "run", "--motion", "2")
	require.NoError(t, err)
	assert.Equal(t, "Update: 11.5 4\nPredict: 13.5 6\n", out)
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kf1d.yaml")
	require.NoError(t, os.WriteFile(path, []byte("measurements: [13]\nmotion: [1]\nprior-mean: 10\nprior-var: 8\nmeasurement-var: 8\n"), 0o644))
	out, err := execute(t, "", "--config", path, "run")
	require.NoError(t, err)
	assert.Equal(t, "Update: 11.5 4\nPredict: 12.5 6\n", out)
}

func TestSimulate(t *testing.T) {
	out, err := execute(t, "", "simulate", "--samples", "200", "--seed", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "step,mean,stddev,nees-update,nees-predict,nis", lines[0])

	again, err := execute(t, "", "simulate", "--samples", "200", "--seed", "5")
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed must give the same simulation")

	out, err = execute(t, "", "simulate", "--samples", "3", "--all")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "estimate,run-0,run-1,run-2,mean,stddev", lines[0])

	_, err = execute(t, "", "simulate", "--samples", "0")
	require.Error(t, err)
	_, err = execute(t, "", "simulate", "--motion-var", "-1")
	require.ErrorIs(t, err, kalman1d.ErrInvalidVariance)
}

func TestParseFloats(t *testing.T) {
	vals, err := parseFloats([]string{"1,2", "3 4", "5"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, vals)

	_, err = parseFloats([]string{"1,x"})
	require.Error(t, err)

	assert.Equal(t, []string{"5", "0.5", "-2"}, floatStrings([]float64{5, 0.5, -2}))
}
