package regression

import "math"

const (
	ransacMaxTrials        = 200
	ransacResidualThreshold = 0.1 // log-space residual, same order as sklearn's default
)

// FitRANSAC fits y = intercept + slope*x by random sample consensus:
// repeatedly fit an exact line through a minimal subset, score it by
// inlier count under a residual threshold, and keep the best-scoring
// line's refit over its inlier set. Used as the fallback when Huber
// regression produces a non-monotonic GCT slope, the same two-stage
// "Huber then RANSAC" policy original_source's fit_gct_power follows.
//
// minSamples mirrors sklearn's RANSACRegressor(min_samples=max(3,
// 0.8*n)) call in original_source: a large minimal-subset size biases
// RANSAC toward a majority-consensus fit rather than chasing a small
// cluster of inliers.
func FitRANSAC(samples []Sample, minSamples int) LinearFit {
	n := len(samples)
	if minSamples < 2 {
		minSamples = 2
	}
	if minSamples > n {
		minSamples = n
	}

	x := xValues(samples)
	y := yValues(samples)

	bestInliers := 0
	var bestFit LinearFit
	found := false

	rng := newDeterministicRNG(uint64(n)*2654435761 + 1)

	for trial := 0; trial < ransacMaxTrials; trial++ {
		idx := rng.sample(n, minSamples)

		subX := make([]float64, len(idx))
		subY := make([]float64, len(idx))
		for i, j := range idx {
			subX[i] = x[j]
			subY[i] = y[j]
		}
		weights := make([]float64, len(idx))
		for i := range weights {
			weights[i] = 1.0
		}
		intercept, slope := weightedLeastSquares(subX, subY, weights)
		if slope == 0 && intercept == 0 {
			continue
		}

		inlierIdx := make([]int, 0, n)
		for i := 0; i < n; i++ {
			residual := math.Abs(y[i] - (intercept + slope*x[i]))
			if residual <= ransacResidualThreshold {
				inlierIdx = append(inlierIdx, i)
			}
		}

		if len(inlierIdx) > bestInliers {
			bestInliers = len(inlierIdx)
			found = true

			inX := make([]float64, len(inlierIdx))
			inY := make([]float64, len(inlierIdx))
			inW := make([]float64, len(inlierIdx))
			for i, j := range inlierIdx {
				inX[i] = x[j]
				inY[i] = y[j]
				inW[i] = 1.0
			}
			refIntercept, refSlope := weightedLeastSquares(inX, inY, inW)
			bestFit = LinearFit{
				Intercept: refIntercept,
				Slope:     refSlope,
				RMSE:      rmse(inX, inY, refIntercept, refSlope),
			}
		}
	}

	if !found {
		weights := make([]float64, n)
		for i := range weights {
			weights[i] = 1.0
		}
		intercept, slope := weightedLeastSquares(x, y, weights)
		return LinearFit{Intercept: intercept, Slope: slope, RMSE: rmse(x, y, intercept, slope)}
	}
	return bestFit
}

// deterministicRNG is a small xorshift generator. RANSAC's subset
// sampling only needs a cheap, repeatable source of randomness - a
// fixed seed keeps model training reproducible across retrains of the
// same window, which matters more here than statistical strength.
type deterministicRNG struct {
	state uint64
}

func newDeterministicRNG(seed uint64) *deterministicRNG {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &deterministicRNG{state: seed}
}

func (r *deterministicRNG) next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// sample draws k distinct indices in [0,n) without replacement.
func (r *deterministicRNG) sample(n, k int) []int {
	if k >= n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	chosen := make(map[int]bool, k)
	out := make([]int, 0, k)
	for len(out) < k {
		i := int(r.next() % uint64(n))
		if chosen[i] {
			continue
		}
		chosen[i] = true
		out = append(out, i)
	}
	return out
}
