package regression

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when outlier removal leaves too few
// samples to fit a model (spec.md §4.1/§8, original_source's
// "Insufficient data after outlier removal" ValueError).
var ErrInsufficientData = errors.New("regression: insufficient data after outlier removal")

// ErrNonMonotonic is returned when neither Huber nor RANSAC can
// produce a GCT power-law slope satisfying d < 0.
var ErrNonMonotonic = errors.New("regression: non-monotonic GCT model")

const (
	gctMinSamples    = 3
	linearMinSamples = 2
)

var (
	gctMS   = Range{Min: 100, Max: 400}
	speedMS = Range{Min: 1.5, Max: 7.0}
	voRange = Range{Min: 2, Max: 15}
	vrRange = Range{Min: 2, Max: 20}
)

// GCTPowerModel is v = exp(alpha) * gct^d in real space, fit as
// log(v) = alpha + d*log(gct) in log-log space (spec.md §4.1).
type GCTPowerModel struct {
	Alpha      float64
	D          float64
	RMSE       float64
	NSamples   int
	SpeedRange Range
}

// Predict returns the expected speed (m/s) for a given GCT (ms).
func (m GCTPowerModel) Predict(gctMS float64) float64 {
	return math.Exp(m.Alpha + m.D*math.Log(gctMS))
}

// PredictInverse returns the expected GCT (ms) for a given speed
// (m/s) - the direction the evaluator actually calls (spec.md §4.4).
func (m GCTPowerModel) PredictInverse(speedMPS float64) float64 {
	return math.Exp((math.Log(speedMPS) - m.Alpha) / m.D)
}

// LinearModel is y = a + b*speed, used for VO and VR (spec.md §4.1).
type LinearModel struct {
	A          float64
	B          float64
	RMSE       float64
	NSamples   int
	SpeedRange Range
}

func (m LinearModel) Predict(speedMPS float64) float64 {
	return m.A + m.B*speedMPS
}

// FitGCTPower trains the GCT power-law model via Huber regression in
// log-log space, falling back to RANSAC when Huber's slope fails the
// monotonicity gate (d < 0: faster speed implies shorter ground
// contact time). Matches original_source's fit_gct_power exactly,
// including its outlier bounds and the RANSAC min_samples formula.
func FitGCTPower(rawSamples []Sample, fallbackRANSAC bool) (GCTPowerModel, error) {
	clean := DropOutliers(rawSamples, gctMS, speedMS)
	if len(clean) < gctMinSamples {
		return GCTPowerModel{}, fmt.Errorf("%w: %d samples", ErrInsufficientData, len(clean))
	}

	logSamples := make([]Sample, len(clean))
	for i, s := range clean {
		logSamples[i] = Sample{X: math.Log(s.X), Y: math.Log(s.Y)}
	}

	fit := FitHuber(logSamples)
	alpha, d := fit.Intercept, fit.Slope

	if d >= 0 {
		if !fallbackRANSAC {
			return GCTPowerModel{}, fmt.Errorf("%w: d=%.3f >= 0", ErrNonMonotonic, d)
		}
		minSamples := int(0.8 * float64(len(clean)))
		if minSamples < 3 {
			minSamples = 3
		}
		ransacFit := FitRANSAC(logSamples, minSamples)
		alpha, d = ransacFit.Intercept, ransacFit.Slope
		if d >= 0 {
			return GCTPowerModel{}, fmt.Errorf("%w: RANSAC d=%.3f >= 0", ErrNonMonotonic, d)
		}
		fit = ransacFit
	}

	speeds := make([]float64, len(clean))
	for i, s := range clean {
		speeds[i] = s.Y
	}
	min, max := minMax(speeds)

	logRMSE := rmseForSlope(logSamples, alpha, d)
	return GCTPowerModel{
		Alpha:      alpha,
		D:          d,
		RMSE:       logRMSE,
		NSamples:   len(clean),
		SpeedRange: Range{Min: min, Max: max},
	}, nil
}

// FitLinear trains a VO or VR linear model against speed. metric must
// be "vo" or "vr"; the outlier band differs per original_source's
// fit_linear.
func FitLinear(rawSamples []Sample, metric string) (LinearModel, error) {
	var metricRange Range
	switch metric {
	case "vo":
		metricRange = voRange
	case "vr":
		metricRange = vrRange
	default:
		return LinearModel{}, fmt.Errorf("regression: unknown linear metric %q", metric)
	}

	clean := DropOutliers(rawSamples, speedMS, metricRange)
	if len(clean) < linearMinSamples {
		return LinearModel{}, fmt.Errorf("%w: %d samples", ErrInsufficientData, len(clean))
	}

	fit := FitHuber(clean)

	speeds := xValues(clean)
	min, max := minMax(speeds)

	return LinearModel{
		A:          fit.Intercept,
		B:          fit.Slope,
		RMSE:       fit.RMSE,
		NSamples:   len(clean),
		SpeedRange: Range{Min: min, Max: max},
	}, nil
}

// FitPowerEfficiency trains the power-to-speed model: speed_mps =
// power_a + power_b*power_wkg (original_source's
// train_power_efficiency_baseline / PowerEfficiencyModel).
func FitPowerEfficiency(rawSamples []Sample) (LinearModel, error) {
	if len(rawSamples) < 10 {
		return LinearModel{}, fmt.Errorf("%w: %d samples", ErrInsufficientData, len(rawSamples))
	}
	fit := FitHuber(rawSamples)
	wkg := xValues(rawSamples)
	min, max := minMax(wkg)
	return LinearModel{
		A:          fit.Intercept,
		B:          fit.Slope,
		RMSE:       fit.RMSE,
		NSamples:   len(rawSamples),
		SpeedRange: Range{Min: min, Max: max},
	}, nil
}

func rmseForSlope(samples []Sample, intercept, slope float64) float64 {
	var sumSq float64
	for _, s := range samples {
		r := s.Y - (intercept + slope*s.X)
		sumSq += r * r
	}
	return math.Sqrt(sumSq / float64(len(samples)))
}
