package kalman1d

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

// Values printed by the reference run of the lesson.
var referenceRun = []struct {
	kind           EventKind
	mean, variance float64
}{
	{UpdateEvent, 4.9800796812749, 3.9840637450199203},
	{PredictEvent, 5.9800796812749, 5.98406374501992},
	{UpdateEvent, 5.992019154030327, 2.3974461292897047},
	{PredictEvent, 6.992019154030327, 4.397446129289705},
	{UpdateEvent, 6.996198441360958, 2.094658810112146},
	{PredictEvent, 8.996198441360958, 4.094658810112146},
	{UpdateEvent, 8.99812144836331, 2.0233879678767672},
	{PredictEvent, 9.99812144836331, 4.023387967876767},
	{UpdateEvent, 9.99906346214631, 2.0058299481392163},
	{PredictEvent, 10.99906346214631, 4.005829948139216},
}

func referenceNoise() *Noiseless {
	return NewNoiseless(ReferenceMeasurementVariance, ReferenceMotionVariance)
}

func TestNewFilterErrors(t *testing.T) {
	if _, err := NewFilter(Gaussian{0, 0}, referenceNoise()); !errors.Is(err, ErrInvalidVariance) {
		t.Fatalf("zero variance prior returned %v", err)
	}
	if _, err := NewFilter(Prior(), Noiseless{R: 4}); !errors.Is(err, ErrInvalidVariance) {
		t.Fatalf("zero motion variance returned %v", err)
	}
	if _, err := NewFilter(Prior(), Noiseless{Q: 2}); !errors.Is(err, ErrInvalidVariance) {
		t.Fatalf("zero measurement variance returned %v", err)
	}
	if _, err := NewFilter(Prior(), nil); !errors.Is(err, ErrInvalidVariance) {
		t.Fatalf("nil noise returned %v", err)
	}
}

func TestFilter(t *testing.T) {
	kf, err := NewFilter(Prior(), referenceNoise())
	if err != nil {
		t.Fatal(err)
	}
	for k := range ReferenceMeasurements {
		upd, pred, err := kf.Step(ReferenceMeasurements[k], ReferenceMotion[k])
		if err != nil {
			t.Fatal(err)
		}
		for i, est := range []Estimate{upd, pred} {
			exp := referenceRun[2*k+i]
			if est.Step != k || est.Kind != exp.kind {
				t.Fatalf("k=%d: unexpected estimate %+v", k, est)
			}
			if math.Abs(est.Mean()-exp.mean) > 1e-9 || math.Abs(est.Variance()-exp.variance) > 1e-9 {
				t.Fatalf("k=%d: %s != %s: %v %v", k, est, exp.kind, exp.mean, exp.variance)
			}
		}
		if upd.Gain <= 0 || upd.Gain >= 1 {
			t.Fatalf("k=%d: gain %f outside of (0, 1)", k, upd.Gain)
		}
		if pred.Gain != 0 || pred.Innovation != 0 {
			t.Fatalf("k=%d: prediction carries update data: %+v", k, pred)
		}
		if kf.Belief() != pred.Belief {
			t.Fatalf("k=%d: belief not set to the prediction", k)
		}
	}
	if kf.StepCount() != len(ReferenceMeasurements) {
		t.Fatalf("step count %d", kf.StepCount())
	}

	kf.Reset()
	if kf.StepCount() != 0 || kf.Belief() != Prior() {
		t.Fatalf("reset did not restore the prior: %s", kf)
	}
	upd, _, _ := kf.Step(5, 1)
	if upd.Innovation != 5 {
		t.Fatalf("innovation %f != 5 after reset", upd.Innovation)
	}
}

func TestFilterSetNoise(t *testing.T) {
	kf, _ := NewFilter(Prior(), referenceNoise())
	if err := kf.SetNoise(Noiseless{}); !errors.Is(err, ErrInvalidVariance) {
		t.Fatalf("invalid noise accepted: %v", err)
	}
	if kf.GetNoise().MeasurementVariance() != ReferenceMeasurementVariance {
		t.Fatal("noise changed after invalid SetNoise")
	}
	if err := kf.SetNoise(NewNoiseless(1, 1)); err != nil {
		t.Fatal(err)
	}
	if kf.GetNoise().MotionVariance() != 1 {
		t.Fatal("noise not updated")
	}
}

func TestFilterRejectsInvalidMeasurement(t *testing.T) {
	kf, _ := NewFilter(Prior(), referenceNoise())
	if _, _, err := kf.Step(math.NaN(), 1); !errors.Is(err, ErrInvalidMean) {
		t.Fatalf("NaN measurement returned %v", err)
	}
	if _, _, err := kf.Step(5, math.Inf(1)); !errors.Is(err, ErrInvalidMean) {
		t.Fatalf("infinite motion returned %v", err)
	}
	if kf.StepCount() != 0 || kf.Belief() != Prior() {
		t.Fatal("failed step modified the filter")
	}
}

func TestFilterOverflow(t *testing.T) {
	prior := Gaussian{1e308, 1}
	kf, _ := NewFilter(prior, NewNoiseless(1e300, 1))
	if _, _, err := kf.Step(1e308, 1e308); !errors.Is(err, ErrInvalidMean) {
		t.Fatalf("overflowing prediction returned %v", err)
	}
	if kf.StepCount() != 0 || kf.Belief() != prior {
		t.Fatal("failed step modified the filter")
	}

	kf, _ = NewFilter(Gaussian{0, 1e-310}, NewNoiseless(1e-310, 1))
	if _, _, err := kf.Step(0, 0); !errors.Is(err, ErrInvalidVariance) {
		t.Fatalf("vanishing posterior variance returned %v", err)
	}
}

func TestFilterNIS(t *testing.T) {
	kf, _ := NewFilter(Prior(), referenceNoise())
	upd, pred, _ := kf.Step(5, 1)
	if upd.InnovationVariance != 1004 {
		t.Fatalf("S=%v instead of P+R=1004", upd.InnovationVariance)
	}
	if math.Abs(upd.NIS()-25.0/1004) > 1e-15 {
		t.Fatalf("NIS=%v", upd.NIS())
	}
	if pred.InnovationVariance != 0 || pred.NIS() != 0 {
		t.Fatalf("prediction carries an innovation: %+v", pred)
	}
	upd, _, _ = kf.Step(6, 1)
	if exp := (6 - 5.9800796812749) * (6 - 5.9800796812749) / (5.98406374501992 + 4); math.Abs(upd.NIS()-exp) > 1e-9 {
		t.Fatalf("NIS=%v instead of %v", upd.NIS(), exp)
	}
}

func TestFilterLogger(t *testing.T) {
	var buf bytes.Buffer
	kf, _ := NewFilter(Prior(), referenceNoise())
	kf.WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	if _, _, err := kf.Step(5, 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "k=0") || !strings.Contains(buf.String(), "gain=") {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}
