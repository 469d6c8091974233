// Package evaluator orchestrates the full per-activity evaluation
// (C7): load baselines, select splits, predict, score, run the
// freshness check, fold in the power path, and persist the result.
package evaluator

import (
	"errors"
	"fmt"
	"time"

	"formbaseline/domain"
	"formbaseline/logging"
	"formbaseline/modelstore"
	"formbaseline/scoring"
	"formbaseline/trainer"
)

// ErrNoSplitsFound is returned when neither the run_splits list nor
// the GCT/VO/VR fallback selects any split (spec.md §4.7 step 2, §7:
// "Fatal for this activity; no row written").
var ErrNoSplitsFound = errors.New("evaluator: no splits found for activity")

// FreshnessWindow is the retrain trigger threshold (spec.md §4.7 step
// 6: "> 7 days triggers retrain").
const FreshnessWindow = 7 * 24 * time.Hour

// ActivitySource supplies the split data an evaluation needs for one
// activity.
type ActivitySource interface {
	GetActivity(activityID int64) (domain.Activity, error)
}

// Evaluator ties together the model store, the activity source, and a
// trainer for auto-retrain.
type Evaluator struct {
	Store      *modelstore.Store
	Activities ActivitySource
	Trainer    *trainer.Trainer
	Upsert     func(domain.Evaluation) error
	Now        func() time.Time
}

// New constructs an Evaluator with sane zero-value defaults for Now.
func New(store *modelstore.Store, activities ActivitySource, tr *trainer.Trainer, upsert func(domain.Evaluation) error) *Evaluator {
	return &Evaluator{Store: store, Activities: activities, Trainer: tr, Upsert: upsert, Now: time.Now}
}

// Evaluate runs the full C7 pipeline for one activity (spec.md §4.7).
func (e *Evaluator) Evaluate(userID, conditionGroup string, activityID int64, activityDate time.Time, trainingMode domain.TrainingMode) (domain.Evaluation, error) {
	// Step 1: load form baselines.
	baselines, err := e.Store.LoadModelsCovering(userID, conditionGroup, activityDate)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("evaluator: load baselines: %w", err)
	}

	// Step 6 (ordered after the load per spec.md §4.7: "must not be
	// reordered before the baseline load"), but before prediction.
	retrained := e.checkFreshnessAndRetrain(userID, conditionGroup, activityDate)
	if retrained {
		reloaded, err := e.Store.LoadModelsCovering(userID, conditionGroup, activityDate)
		if err == nil {
			baselines = reloaded
		}
	}

	activity, err := e.Activities.GetActivity(activityID)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("evaluator: load activity: %w", err)
	}

	// Step 2: select splits and average.
	agg, ok := averageRunSplits(activity)
	if !ok {
		return domain.Evaluation{}, ErrNoSplitsFound
	}

	// Step 3: predict then score.
	gctModel := scoring.NewFormModel(baselines.GCT)
	voModel := scoring.NewForwardModel(baselines.VO)
	vrModel := scoring.NewForwardModel(baselines.VR)
	expectations := scoring.PredictExpectations(gctModel, voModel, vrModel, agg.paceSecPerKM)

	gctEval := scoring.ScoreMetric(domain.MetricGCT, agg.gct, expectations.GCTExp)
	voEval := scoring.ScoreMetric(domain.MetricVO, agg.vo, expectations.VOExp)
	vrEval := scoring.ScoreMetric(domain.MetricVR, agg.vr, expectations.VRExp)

	// Step 4: cadence.
	cadenceEval := scoring.ScoreCadence(agg.cadence)

	// Step 5: overall 0-5 score (mean of the three star numerics) and
	// overall star rating via the penalty-conversion rule (spec.md
	// §4.7 step 5, §8 invariant 2).
	meanStars := (gctEval.Score + voEval.Score + vrEval.Score) / 3
	overallStars, _ := scoring.OverallStarFromScore(meanStars)

	// Integrated score is always computed (spec.md §4.6): renormalised
	// across {gct,vo,vr} until a power block is available to fold in.
	integratedRatios := scoring.PenaltyRatios{
		GCT: gctEval.Penalty / 100, VO: voEval.Penalty / 100, VR: vrEval.Penalty / 100,
	}

	eval := domain.Evaluation{
		ActivityID: activityID, UserID: userID, ConditionGroup: conditionGroup,
		TrainingMode: trainingMode, EvaluatedAt: e.now(),
		GCT: gctEval, VO: voEval, VR: vrEval,
		Cadence: cadenceEval,
		OverallScore: meanStars, OverallStar: overallStars,
		BaselineRetrained: retrained,
	}

	// Step 7: power path, if available.
	if powerBaseline, ok := e.Store.LoadPowerBaseline(userID, conditionGroup, activityDate); ok {
		if agg.power != nil && activity.BaseWeightKG != nil {
			powerEval := scoring.PowerPath(*agg.power, *activity.BaseWeightKG, agg.speedMPS(), powerBaseline)
			eval.Power = &powerEval
			ratio := scoring.PowerPenaltyRatio(powerEval.EfficiencyScore)
			integratedRatios.Power = &ratio
		}
	}
	eval.IntegratedScore = scoring.IntegratedScore(integratedRatios, trainingMode)

	// Step 8: upsert.
	if err := e.Upsert(eval); err != nil {
		return domain.Evaluation{}, fmt.Errorf("evaluator: upsert evaluation: %w", err)
	}

	return eval, nil
}

func (e *Evaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// checkFreshnessAndRetrain implements spec.md §4.7 step 6. It queries
// the newest period_end across all four metrics and, if the gap to
// activityDate exceeds FreshnessWindow, retrains with a 2-month
// window. A retrain failure is logged and the stale baseline is kept
// (spec.md §7: "Logged; evaluation proceeds with the stale baseline").
func (e *Evaluator) checkFreshnessAndRetrain(userID, conditionGroup string, activityDate time.Time) bool {
	newest, ok := e.Store.NewestPeriodEnd(userID, conditionGroup)
	if !ok {
		return false
	}
	if activityDate.Sub(newest) <= FreshnessWindow {
		return false
	}
	if e.Trainer == nil {
		return false
	}
	if _, err := e.Trainer.Train(userID, conditionGroup, activityDate, trainer.DefaultWindowMonths); err != nil {
		logging.Logger().Warn().Err(err).Str("component", "evaluator").Str("user_id", userID).Msg("auto-retrain failed, evaluating with stale baseline")
		return false
	}
	return true
}

