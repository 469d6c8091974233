package scoring

import "math"

// expInverseGCT mirrors regression.GCTPowerModel.PredictInverse without
// scoring depending on the regression package: exp((log(speed)-alpha)/d).
func expInverseGCT(alpha, d, speedMPS float64) float64 {
	return math.Exp((math.Log(speedMPS) - alpha) / d)
}
