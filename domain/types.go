// Package domain holds the shared entity types for the running-form
// baseline and evaluation engine: activities, splits, baselines, and
// evaluation results. Keeping these in one leaf package (no behavior,
// just shapes) mirrors how the teacher repository kept Analysis,
// LapSummary and friends as plain structs in analyzer.go, separate from
// the code that builds and writes them.
package domain

import "time"

// Activity is one ingested run, identified by the remote provider's
// opaque activity id (spec.md §3).
type Activity struct {
	ActivityID      int64     `json:"activity_id"`
	ActivityDate    time.Time `json:"activity_date"`
	Name            string    `json:"activity_name"`
	LocationName    string    `json:"location_name,omitempty"`
	BaseWeightKG    *float64  `json:"body_mass_kg,omitempty"`
	BodyMassSource  string    `json:"body_mass_source,omitempty"`
	BodyMassMethod  string    `json:"body_mass_method,omitempty"`
	DistanceKM      float64   `json:"distance_km"`
	DurationSeconds float64   `json:"duration_seconds"`
	AvgPaceSecPerKM float64   `json:"avg_pace_seconds_per_km"`
	AvgHeartRate    float64   `json:"avg_heart_rate,omitempty"`
	ExternalTempC   *float64  `json:"external_temp_c,omitempty"`
	Humidity        *float64  `json:"humidity,omitempty"`
	WindSpeedMS     *float64  `json:"wind_speed_ms,omitempty"`
	WindDirection   string    `json:"wind_direction_compass,omitempty"`

	Splits  []Split `json:"splits,omitempty"`
	UserID  string  `json:"user_id"`
	RunSplitIndexes []int `json:"run_split_indexes,omitempty"`
}

// Split is one contiguous segment of an activity (spec.md §3).
type Split struct {
	SplitIndex          int           `json:"split_index"`
	RolePhase           RolePhase     `json:"role_phase"`
	IntensityType       IntensityType `json:"intensity_type"`
	IntensityEstimated  bool          `json:"intensity_estimated"`
	DistanceM           float64       `json:"distance"`
	DurationSeconds     float64       `json:"duration_seconds"`
	StartTimeS          float64       `json:"start_time_s"`
	EndTimeS            float64       `json:"end_time_s"`
	PaceSecPerKM        float64       `json:"pace_seconds_per_km"`
	HeartRate           *float64      `json:"heart_rate,omitempty"`
	MaxHeartRate         *float64      `json:"max_heart_rate,omitempty"`
	Cadence             *float64      `json:"cadence,omitempty"`
	MaxCadence          *float64      `json:"max_cadence,omitempty"`
	Power               *float64      `json:"power,omitempty"`
	MaxPower            *float64      `json:"max_power,omitempty"`
	NormalizedPower     *float64      `json:"normalized_power,omitempty"`
	StrideLength        *float64      `json:"stride_length,omitempty"`
	GroundContactTimeMS *float64      `json:"ground_contact_time,omitempty"`
	VerticalOscillation *float64      `json:"vertical_oscillation,omitempty"`
	VerticalRatio       *float64      `json:"vertical_ratio,omitempty"`
	ElevationGainM      float64       `json:"elevation_gain,omitempty"`
	ElevationLossM      float64       `json:"elevation_loss,omitempty"`
	TerrainType         string        `json:"terrain_type,omitempty"`
	AverageSpeedMPS     float64       `json:"average_speed"`
	GradeAdjustedSpeed  float64       `json:"grade_adjusted_speed,omitempty"`
}

// SpeedMPS derives speed from pace, per spec.md §4.3 ("speed = 1000/pace").
func (s Split) SpeedMPS() float64 {
	if s.PaceSecPerKM <= 0 {
		return 0
	}
	return 1000.0 / s.PaceSecPerKM
}

// HasCompleteFormData reports whether a split carries the GCT/VO/VR/pace
// quadruple the trainer requires (spec.md §4.3 step 2).
func (s Split) HasCompleteFormData() bool {
	return s.GroundContactTimeMS != nil &&
		s.VerticalOscillation != nil &&
		s.VerticalRatio != nil &&
		s.PaceSecPerKM > 0 &&
		s.SpeedMPS() > 0
}

// Baseline is one trained model row (spec.md §3).
type Baseline struct {
	UserID         string    `json:"user_id"`
	ConditionGroup string    `json:"condition_group"`
	Metric         Metric    `json:"metric"`
	ModelKind      ModelKind `json:"model_kind"`

	// Power-law (GCT) coefficients.
	Alpha float64 `json:"coef_alpha,omitempty"`
	D     float64 `json:"coef_d,omitempty"`

	// Linear (VO/VR) coefficients.
	A float64 `json:"coef_a,omitempty"`
	B float64 `json:"coef_b,omitempty"`

	// Power-to-speed linear coefficients.
	PowerA    float64 `json:"power_a,omitempty"`
	PowerB    float64 `json:"power_b,omitempty"`
	PowerRMSE float64 `json:"power_rmse,omitempty"`

	NSamples  int       `json:"n_samples"`
	RMSE      float64   `json:"rmse"`
	SpeedMin  float64   `json:"speed_range_min"`
	SpeedMax  float64   `json:"speed_range_max"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	TrainedAt   time.Time `json:"trained_at"`
}

// BaselineKey is the composite logical key baselines are upserted and looked up by.
type BaselineKey struct {
	UserID         string
	ConditionGroup string
	Metric         Metric
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

func (b Baseline) Key() BaselineKey {
	return BaselineKey{
		UserID:         b.UserID,
		ConditionGroup: b.ConditionGroup,
		Metric:         b.Metric,
		PeriodStart:    b.PeriodStart,
		PeriodEnd:      b.PeriodEnd,
	}
}

// MetricEvaluation captures the per-metric scoring outcome for one of
// {gct, vo, vr} (spec.md §3).
type MetricEvaluation struct {
	Actual           float64 `json:"actual"`
	Expected         float64 `json:"expected"`
	DeltaPct         float64 `json:"delta"`
	DeltaAbsCM       *float64 `json:"delta_abs_cm,omitempty"` // VO only
	Penalty          float64 `json:"penalty"`
	StarRating       string  `json:"star_rating"`
	Score            float64 `json:"score"`
	NeedsImprovement bool    `json:"needs_improvement"`
	EvaluationText   string  `json:"evaluation_text,omitempty"`
}

// CadenceEvaluation is the boolean cadence check (spec.md §4.5).
type CadenceEvaluation struct {
	Actual   float64 `json:"actual"`
	Minimum  float64 `json:"minimum"`
	Achieved bool    `json:"achieved"`
}

// PowerEvaluation is the optional power-path block (spec.md §4.6).
type PowerEvaluation struct {
	AvgWatts         float64 `json:"avg_w"`
	WattsPerKG       float64 `json:"wkg"`
	ActualSpeedMPS   float64 `json:"speed_actual_mps"`
	ExpectedSpeedMPS float64 `json:"speed_expected_mps"`
	EfficiencyScore  float64 `json:"efficiency_score"`
	StarRating       string  `json:"star_rating"`
	NeedsImprovement bool    `json:"needs_improvement"`
}

// Evaluation is one activity's complete scoring row (spec.md §3).
type Evaluation struct {
	ActivityID     int64     `json:"activity_id"`
	UserID         string    `json:"user_id"`
	ConditionGroup string    `json:"condition_group"`
	TrainingMode   TrainingMode `json:"training_mode"`
	EvaluatedAt    time.Time `json:"evaluated_at"`

	GCT MetricEvaluation `json:"gct"`
	VO  MetricEvaluation `json:"vo"`
	VR  MetricEvaluation `json:"vr"`

	Cadence CadenceEvaluation `json:"cadence"`
	Power   *PowerEvaluation  `json:"power,omitempty"`

	// OverallScore is the 0-5 mean of the three per-metric star numerics
	// (spec.md §4.7 step 5, §8 invariant 2: "0 <= overall_score <= 5").
	OverallScore float64 `json:"overall_score"`
	OverallStar  string  `json:"overall_star_rating"`

	// IntegratedScore is the mode-weighted 100-point (possibly >100)
	// score from spec.md §4.6, always computed: renormalised across
	// {gct,vo,vr} when no power block is present.
	IntegratedScore float64 `json:"integrated_score"`

	BaselineRetrained bool `json:"baseline_retrained"`
}

// MetricEvaluations returns the three required per-metric blocks keyed
// by Metric, for callers that need to iterate rather than name fields
// directly.
func (e Evaluation) MetricEvaluations() map[Metric]MetricEvaluation {
	return map[Metric]MetricEvaluation{
		MetricGCT: e.GCT,
		MetricVO:  e.VO,
		MetricVR:  e.VR,
	}
}
