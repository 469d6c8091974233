// Package scoring implements the predictor, per-metric scorer, and
// mode-weighted integrated scorer (C4/C5/C6).
package scoring

import "formbaseline/domain"

// Expectations is the predictor's output for one pace (spec.md §4.4).
type Expectations struct {
	SpeedMPS float64
	GCTExp   float64
	VOExp    float64
	VRExp    float64
}

// FormModel is the minimal surface the predictor needs from a trained
// baseline, letting scoring depend on regression's model types without
// importing modelstore.
type FormModel interface {
	PredictInverse(speedMPS float64) float64
}

type ForwardModel interface {
	Predict(speedMPS float64) float64
}

// PredictExpectations computes {speed, gct_exp, vo_exp, vr_exp} from a
// pace and the three trained models (spec.md §4.4). No extrapolation
// guard is applied - callers are expected to stay within the trained
// speed_range.
func PredictExpectations(gct FormModel, vo, vr ForwardModel, paceSecPerKM float64) Expectations {
	speed := 1000.0 / paceSecPerKM
	return Expectations{
		SpeedMPS: speed,
		GCTExp:   gct.PredictInverse(speed),
		VOExp:    vo.Predict(speed),
		VRExp:    vr.Predict(speed),
	}
}

// baselineFormModel and baselineForwardModel adapt domain.Baseline to
// the FormModel/ForwardModel interfaces so the evaluator can call
// PredictExpectations directly off stored baselines without the
// scoring package importing the regression fitting code.
type baselineFormModel struct{ b domain.Baseline }

func (m baselineFormModel) PredictInverse(speedMPS float64) float64 {
	return expInverseGCT(m.b.Alpha, m.b.D, speedMPS)
}

type baselineForwardModel struct{ b domain.Baseline }

func (m baselineForwardModel) Predict(speedMPS float64) float64 {
	return m.b.A + m.b.B*speedMPS
}

// NewFormModel and NewForwardModel wrap a domain.Baseline for use with
// PredictExpectations.
func NewFormModel(b domain.Baseline) FormModel       { return baselineFormModel{b: b} }
func NewForwardModel(b domain.Baseline) ForwardModel { return baselineForwardModel{b: b} }
