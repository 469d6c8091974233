package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// HuberDelta is the transition point between quadratic and linear loss,
// the same default (1.35 scaled residual standard deviations) scikit-
// learn's HuberRegressor uses, which original_source relies on via
// sklearn.linear_model.HuberRegressor.
const HuberDelta = 1.35

const (
	huberMaxIterations = 50
	huberTolerance     = 1e-6
)

// LinearFit is a fitted intercept+slope pair with its RMSE, the common
// shape both the log-log GCT model and the VO/VR linear models reduce
// to internally.
type LinearFit struct {
	Intercept float64
	Slope     float64
	RMSE      float64
}

// FitHuber fits y = intercept + slope*x by iteratively reweighted least
// squares with a Huber weight function. gonum has no packaged Huber
// regressor, so this reimplements scikit-learn's IRLS loop on top of
// gonum/mat's weighted normal-equation solve rather than hand-rolling
// the linear algebra too.
func FitHuber(samples []Sample) LinearFit {
	n := len(samples)
	x := xValues(samples)
	y := yValues(samples)

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0
	}

	var intercept, slope float64
	for iter := 0; iter < huberMaxIterations; iter++ {
		intercept, slope = weightedLeastSquares(x, y, weights)

		residuals := make([]float64, n)
		for i := range residuals {
			residuals[i] = y[i] - (intercept + slope*x[i])
		}
		scale := residualScale(residuals)

		newWeights := make([]float64, n)
		maxDelta := 0.0
		for i, r := range residuals {
			w := huberWeight(r, scale)
			if d := math.Abs(w - weights[i]); d > maxDelta {
				maxDelta = d
			}
			newWeights[i] = w
		}
		weights = newWeights
		if maxDelta < huberTolerance {
			break
		}
	}

	return LinearFit{
		Intercept: intercept,
		Slope:     slope,
		RMSE:      rmse(x, y, intercept, slope),
	}
}

// huberWeight returns the IRLS weight for a residual given the current
// robust scale estimate: 1 inside the delta band, delta/|r/scale|
// outside it (down-weighting large residuals).
func huberWeight(residual, scale float64) float64 {
	if scale <= 0 {
		return 1.0
	}
	scaled := math.Abs(residual) / scale
	if scaled <= HuberDelta {
		return 1.0
	}
	return HuberDelta / scaled
}

// residualScale estimates the robust spread of residuals via the
// median absolute deviation, scaled to be a consistent estimator of
// the standard deviation under a Gaussian model (the same normalizing
// constant scikit-learn's HuberRegressor uses internally).
func residualScale(residuals []float64) float64 {
	abs := make([]float64, len(residuals))
	for i, r := range residuals {
		abs[i] = math.Abs(r)
	}
	mad := median(abs)
	return mad * 1.4826
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	insertionSort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func insertionSort(values []float64) {
	for i := 1; i < len(values); i++ {
		v := values[i]
		j := i - 1
		for j >= 0 && values[j] > v {
			values[j+1] = values[j]
			j--
		}
		values[j+1] = v
	}
}

// weightedLeastSquares solves the weighted normal equations for a
// simple intercept+slope model using gonum/mat, the linear-algebra
// backbone for every fit in this package.
func weightedLeastSquares(x, y, weights []float64) (intercept, slope float64) {
	n := len(x)
	a := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		a.Set(i, 0, 1.0)
		a.Set(i, 1, x[i])
	}
	w := mat.NewDiagDense(n, weights)
	yVec := mat.NewVecDense(n, y)

	var wa mat.Dense
	wa.Mul(w, a)

	var ata mat.Dense
	ata.Mul(a.T(), &wa)

	var aty mat.VecDense
	var wy mat.VecDense
	wy.MulVec(w, yVec)
	aty.MulVec(a.T(), &wy)

	var coeffs mat.VecDense
	if err := coeffs.SolveVec(&ata, &aty); err != nil {
		return 0, 0
	}
	return coeffs.AtVec(0), coeffs.AtVec(1)
}

func rmse(x, y []float64, intercept, slope float64) float64 {
	var sumSq float64
	for i := range x {
		r := y[i] - (intercept + slope*x[i])
		sumSq += r * r
	}
	return math.Sqrt(sumSq / float64(len(x)))
}
