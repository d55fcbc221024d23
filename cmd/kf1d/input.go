package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kalmanlab/kalman1d"
	"github.com/spf13/viper"
)

// parseFloats parses flag or environment values. Each value may itself hold
// several comma or space separated numbers.
func parseFloats(vals []string) ([]float64, error) {
	var out []float64
	for _, val := range vals {
		for _, field := range strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ' ' }) {
			f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse float: %w", err)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func floatStrings(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

// readSequences reads "measurement,motion" records. Lines starting with # are
// ignored, as is a header whose first field is "measurement".
func readSequences(r io.Reader) (measurements, motion []float64, err error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", kalman1d.ErrMalformedInput, err)
		}
		if line == 1 && strings.EqualFold(record[0], "measurement") {
			continue
		}
		z, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: record %d: %w", kalman1d.ErrMalformedInput, line, err)
		}
		u, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: record %d: %w", kalman1d.ErrMalformedInput, line, err)
		}
		measurements = append(measurements, z)
		motion = append(motion, u)
	}
	return measurements, motion, nil
}

// filterSettings are the settings shared by run and simulate.
type filterSettings struct {
	motion []float64
	prior  kalman1d.Gaussian
	r, q   float64
}

func loadFilterSettings(v *viper.Viper) (filterSettings, error) {
	motion, err := parseFloats(v.GetStringSlice("motion"))
	if err != nil {
		return filterSettings{}, fmt.Errorf("motion: %w", err)
	}
	prior, err := kalman1d.NewGaussian(v.GetFloat64("prior-mean"), v.GetFloat64("prior-var"))
	if err != nil {
		return filterSettings{}, fmt.Errorf("prior: %w", err)
	}
	return filterSettings{
		motion: motion,
		prior:  prior,
		r:      v.GetFloat64("measurement-var"),
		q:      v.GetFloat64("motion-var"),
	}, nil
}
