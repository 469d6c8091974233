package scoring

import "formbaseline/domain"

// ModeWeights is the {w_gct, w_vo, w_vr, w_power} weight set for one
// training mode (spec.md §4.6).
type ModeWeights struct {
	GCT, VO, VR, Power float64
}

var modeWeights = map[domain.TrainingMode]ModeWeights{
	domain.ModeIntervalSprint: {GCT: 0.30, VO: 0.15, VR: 0.15, Power: 0.40},
	domain.ModeTempoThreshold: {GCT: 0.25, VO: 0.20, VR: 0.20, Power: 0.35},
	domain.ModeLowModerate:    {GCT: 0.30, VO: 0.25, VR: 0.25, Power: 0.20},
}

// WeightsFor returns the weight set for a mode, defaulting unknown
// modes to low_moderate (spec.md §4.6).
func WeightsFor(mode domain.TrainingMode) ModeWeights {
	return modeWeights[mode.Normalize()]
}

// renormalizeWithoutPower divides {w_gct, w_vo, w_vr} by their sum,
// discarding the power weight entirely rather than redistributing it
// (spec.md §4.6).
func (w ModeWeights) renormalizeWithoutPower() ModeWeights {
	sum := w.GCT + w.VO + w.VR
	if sum == 0 {
		return w
	}
	return ModeWeights{GCT: w.GCT / sum, VO: w.VO / sum, VR: w.VR / sum, Power: 0}
}

// PenaltyRatios is the signed penalty/100 ratio per metric fed into
// integrated scoring (spec.md §4.6): negative means better than
// expected. Power is an explicit optional since it is frequently
// absent (spec.md §9 redesign flag: explicit optional types, not
// ad hoc None checks).
type PenaltyRatios struct {
	GCT, VO, VR float64
	Power       *float64
}

// IntegratedScore computes the mode-weighted 100-point score,
// renormalising away the power weight when no power penalty is
// supplied (spec.md §4.6).
func IntegratedScore(ratios PenaltyRatios, mode domain.TrainingMode) float64 {
	w := WeightsFor(mode)
	if ratios.Power == nil {
		w = w.renormalizeWithoutPower()
		weighted := w.GCT*ratios.GCT + w.VO*ratios.VO + w.VR*ratios.VR
		return 100 - weighted*100
	}
	weighted := w.GCT*ratios.GCT + w.VO*ratios.VO + w.VR*ratios.VR + w.Power**ratios.Power
	return 100 - weighted*100
}

// PowerPath computes the power-efficiency block from raw measurements
// and a trained power baseline (spec.md §4.6).
func PowerPath(avgWatts, bodyMassKG, actualSpeedMPS float64, baseline domain.Baseline) domain.PowerEvaluation {
	wkg := avgWatts / bodyMassKG
	expectedSpeed := baseline.PowerA + baseline.PowerB*wkg
	efficiency := (actualSpeedMPS - expectedSpeed) / expectedSpeed

	stars, needsImprovement := powerStarRating(efficiency)

	return domain.PowerEvaluation{
		AvgWatts: avgWatts, WattsPerKG: wkg,
		ActualSpeedMPS: actualSpeedMPS, ExpectedSpeedMPS: expectedSpeed,
		EfficiencyScore: efficiency, StarRating: stars,
		NeedsImprovement: needsImprovement,
	}
}

// PowerPenaltyRatio is the power penalty ratio fed into integrated
// scoring: the negative of the efficiency score, since a negative
// efficiency (worse than expected) means a positive penalty (spec.md
// §4.6).
func PowerPenaltyRatio(efficiencyScore float64) float64 {
	return -efficiencyScore
}

// powerStarRating applies the fixed power-path thresholds (spec.md
// §4.6), distinct from the per-metric penalty buckets in scorer.go.
func powerStarRating(efficiency float64) (stars string, needsImprovement bool) {
	switch {
	case efficiency >= 0.05:
		return "★★★★★", false
	case efficiency >= 0.02:
		return "★★★★☆", false
	case efficiency > -0.02:
		return "★★★☆☆", false
	case efficiency >= -0.05:
		return "★★☆☆☆", true
	default:
		return "★☆☆☆☆", true
	}
}
