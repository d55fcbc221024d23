package kalman1d

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// Exporter defines an export interface.
type Exporter interface {
	Write(Estimate) error
	Close() error
}

// Export writes all the estimates and closes the exporter.
func Export(e Exporter, ests []Estimate) error {
	for _, est := range ests {
		if err := e.Write(est); err != nil {
			e.Close()
			return err
		}
	}
	return e.Close()
}

// TextExporter writes one "<Kind>: <mean> <variance>" line per estimate.
type TextExporter struct {
	w *bufio.Writer
}

// NewTextExporter initializes a new text export to w. Close flushes but does not close w.
func NewTextExporter(w io.Writer) *TextExporter {
	return &TextExporter{bufio.NewWriter(w)}
}

// Write writes the estimate line.
func (e *TextExporter) Write(est Estimate) error {
	_, err := fmt.Fprintln(e.w, est)
	return err
}

// Close flushes the buffered lines.
func (e *TextExporter) Close() error {
	return e.w.Flush()
}

var csvHeader = []string{"step", "event", "mean", "variance", "mean+2s", "mean-2s"}

// CSVExporter writes the estimates with their 2σ bounds as CSV.
type CSVExporter struct {
	w    *csv.Writer
	file *os.File
}

// NewCSVExporter initializes a new CSV export to w and writes the header.
func NewCSVExporter(w io.Writer) (*CSVExporter, error) {
	e := &CSVExporter{w: csv.NewWriter(w)}
	if err := e.w.Write(csvHeader); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateCSVExporter creates the file dir/name and initializes a new CSV export to it.
// Close also closes the file.
func CreateCSVExporter(dir, name string) (*CSVExporter, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	e, err := NewCSVExporter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	e.file = f
	return e, nil
}

// Write writes the estimate to the CSV.
func (e *CSVExporter) Write(est Estimate) error {
	twoσ := 2 * math.Sqrt(est.Variance())
	return e.w.Write([]string{
		strconv.Itoa(est.Step),
		est.Kind.String(),
		formatFloat(est.Mean()),
		formatFloat(est.Variance()),
		formatFloat(est.Mean() + twoσ),
		formatFloat(est.Mean() - twoσ),
	})
}

// Close flushes the CSV and closes the file if the exporter created it.
func (e *CSVExporter) Close() error {
	e.w.Flush()
	err := e.w.Error()
	if e.file != nil {
		if cerr := e.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
