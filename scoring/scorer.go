package scoring

import (
	"math"

	"formbaseline/domain"
)

// CadenceThreshold is the compile-time cadence achievement bar
// (spec.md §6: "not configurable").
const CadenceThreshold = 180.0

// improvementFactor and degradationFactor are the direction-dependent
// penalty factors per metric (spec.md §4.5).
var improvementFactor = map[domain.Metric]float64{
	domain.MetricGCT: 0.3,
	domain.MetricVO:  0.3,
	domain.MetricVR:  0.2,
}

var degradationFactor = map[domain.Metric]float64{
	domain.MetricGCT: 1.0,
	domain.MetricVO:  1.0,
	domain.MetricVR:  1.0,
}

// DeltaPercent computes Δ = (actual-expected)/expected*100 (spec.md §4.5).
func DeltaPercent(actual, expected float64) float64 {
	if expected == 0 {
		return 0
	}
	return (actual - expected) / expected * 100
}

// Penalty computes the asymmetric per-metric penalty (spec.md §4.5).
func Penalty(metric domain.Metric, deltaPct float64) float64 {
	factor := degradationFactor[metric]
	if deltaPct < 0 {
		factor = improvementFactor[metric]
	}
	p := math.Abs(deltaPct) * factor * 10
	return clamp(p, 0, 100)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// StarRating buckets a penalty into a star count, numeric 1-5 score,
// and category label (spec.md §4.5 table). Buckets use a strict upper
// bound on each row so the boundary behavior in spec.md §8 holds
// (9.999 -> 5 stars, 10.000 -> 4 stars).
func StarRating(penalty float64) (stars string, numeric float64, category string) {
	switch {
	case penalty < 10:
		return "★★★★★", 5.0, "excellent"
	case penalty < 20:
		return "★★★★☆", 4.0, "good"
	case penalty < 40:
		return "★★★☆☆", 3.0, "average"
	case penalty < 60:
		return "★★☆☆☆", 2.0, "below_average"
	default:
		return "★☆☆☆☆", 1.0, "poor"
	}
}

// NeedsImprovement reports whether a metric's penalty crosses the
// improvement-flag threshold (spec.md §4.5).
func NeedsImprovement(penalty float64) bool {
	return penalty > 20
}

// ScoreMetric runs the full per-metric scoring pipeline: delta,
// penalty, star rating, needs-improvement flag. For VO it also sets
// the absolute centimetre delta alongside the percentage delta
// (spec.md §3: "for VO also absolute cm").
func ScoreMetric(metric domain.Metric, actual, expected float64) domain.MetricEvaluation {
	delta := DeltaPercent(actual, expected)
	penalty := Penalty(metric, delta)
	stars, numeric, _ := StarRating(penalty)
	eval := domain.MetricEvaluation{
		Actual: actual, Expected: expected, DeltaPct: delta,
		Penalty: penalty, StarRating: stars, Score: numeric,
		NeedsImprovement: NeedsImprovement(penalty),
	}
	if metric == domain.MetricVO {
		deltaAbs := actual - expected
		eval.DeltaAbsCM = &deltaAbs
	}
	return eval
}

// ConsistencyAdjustment computes the cross-metric adjustment from the
// three signed delta percentages (spec.md §4.5). Deliberately-unused
// by evaluator.Evaluate: the persisted evaluation row's overall score
// and star rating come from the mean-of-stars path (spec.md §4.7 step
// 5), not from this 100-point formula or OverallScore below. Kept
// exported and exercised by scorer_test.go because spec.md §8 names
// both as standalone testable properties (boundary behaviour at
// spread 5/10/15), independent of whether C7 wires them in.
func ConsistencyAdjustment(deltaGCT, deltaVO, deltaVR float64) float64 {
	allImproved := deltaGCT <= 0 && deltaVO <= 0 && deltaVR <= 0
	if allImproved {
		sum := math.Abs(deltaGCT + deltaVO + deltaVR)
		return math.Min(5.0, sum/3*0.5)
	}

	values := []float64{deltaGCT, deltaVO, deltaVR}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	spread := max - min

	switch {
	case spread > 15:
		return -10
	case spread > 10:
		return -5
	case spread > 5:
		return -2
	default:
		return 0
	}
}

// OverallScore combines the three per-metric penalties and the
// consistency adjustment into the 0-100 overall score (spec.md §4.5).
// See the note on ConsistencyAdjustment above: deliberately-unused
// public API, not wired into evaluator.Evaluate's persisted row.
func OverallScore(penaltyGCT, penaltyVO, penaltyVR, adjustment float64) float64 {
	mean := (penaltyGCT + penaltyVO + penaltyVR) / 3
	return clamp(100-mean+adjustment, 0, 100)
}

// OverallStarFromScore converts a 0-5 mean star numeric back into a
// star rating via the documented penalty = (5-score)*20 inverse
// mapping (spec.md §4.5, §9 open question: intentionally left
// unreconciled with the per-metric thresholds).
func OverallStarFromScore(meanStarNumeric float64) (stars string, category string) {
	penalty := (5 - meanStarNumeric) * 20
	stars, _, category = StarRating(penalty)
	return stars, category
}

// ScoreCadence applies the boolean cadence rule (spec.md §4.5).
func ScoreCadence(cadenceMean float64) domain.CadenceEvaluation {
	return domain.CadenceEvaluation{
		Actual:   cadenceMean,
		Minimum:  CadenceThreshold,
		Achieved: cadenceMean >= CadenceThreshold,
	}
}
