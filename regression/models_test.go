package regression

import (
	"math"
	"math/rand"
	"testing"
)

func syntheticGCTSamples(n int, noiseSeed int64) []Sample {
	r := rand.New(rand.NewSource(noiseSeed))
	// Real relationship: speed = exp(alpha) * gct^d, with alpha=6.0, d=-1.2.
	const alpha, d = 6.0, -1.2
	samples := make([]Sample, n)
	for i := 0; i < n; i++ {
		gct := 180 + float64(i%40)*4 // 180..336ms
		speed := math.Exp(alpha + d*math.Log(gct))
		speed += (r.Float64() - 0.5) * 0.05
		samples[i] = Sample{X: gct, Y: speed}
	}
	return samples
}

func TestFitGCTPowerMonotonic(t *testing.T) {
	samples := syntheticGCTSamples(40, 1)
	model, err := FitGCTPower(samples, true)
	if err != nil {
		t.Fatalf("FitGCTPower() error: %v", err)
	}
	if model.D >= 0 {
		t.Fatalf("expected d < 0, got %v", model.D)
	}
	if model.NSamples == 0 {
		t.Fatalf("expected nonzero sample count")
	}
}

func TestFitGCTPowerInsufficientData(t *testing.T) {
	samples := []Sample{{X: 200, Y: 3.0}, {X: 210, Y: 3.1}}
	_, err := FitGCTPower(samples, true)
	if err == nil {
		t.Fatalf("expected error for insufficient data")
	}
}

func TestGCTPowerModelPredictRoundTrip(t *testing.T) {
	model := GCTPowerModel{Alpha: 6.0, D: -1.2}
	gct := 220.0
	speed := model.Predict(gct)
	back := model.PredictInverse(speed)
	if math.Abs(back-gct) > 1e-6 {
		t.Fatalf("predict/predict_inverse round trip mismatch: got %v want %v", back, gct)
	}
}

func TestFitLinearVO(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	samples := make([]Sample, 30)
	for i := range samples {
		speed := 2.5 + float64(i)*0.1
		vo := 9.0 - 0.3*speed + (r.Float64()-0.5)*0.1
		samples[i] = Sample{X: speed, Y: vo}
	}
	model, err := FitLinear(samples, "vo")
	if err != nil {
		t.Fatalf("FitLinear(vo) error: %v", err)
	}
	if model.B >= 0 {
		t.Fatalf("expected negative slope for vo, got %v", model.B)
	}
}

func TestFitLinearUnknownMetric(t *testing.T) {
	_, err := FitLinear([]Sample{{X: 3, Y: 5}, {X: 4, Y: 6}}, "cadence")
	if err == nil {
		t.Fatalf("expected error for unknown metric")
	}
}

func TestFitPowerEfficiencyRequiresTenSamples(t *testing.T) {
	samples := make([]Sample, 9)
	for i := range samples {
		samples[i] = Sample{X: 3.0 + float64(i)*0.1, Y: 3.0}
	}
	_, err := FitPowerEfficiency(samples)
	if err == nil {
		t.Fatalf("expected insufficient-data error below 10 samples")
	}
}

func TestDropOutliers(t *testing.T) {
	samples := []Sample{
		{X: 50, Y: 3.0},  // X out of range
		{X: 200, Y: 10.0}, // Y out of range
		{X: 220, Y: 3.2},  // keep
	}
	kept := DropOutliers(samples, gctMS, speedMS)
	if len(kept) != 1 {
		t.Fatalf("expected 1 sample kept, got %d", len(kept))
	}
	if kept[0].X != 220 {
		t.Fatalf("unexpected sample kept: %+v", kept[0])
	}
}
