// Package trainer implements the windowed baseline-fitting pipeline
// (C3): pull a period's splits, fit each metric's robust regression
// model, and upsert the results via modelstore.
package trainer

import (
	"errors"
	"fmt"
	"time"

	"formbaseline/dateutil"
	"formbaseline/domain"
	"formbaseline/logging"
	"formbaseline/modelstore"
	"formbaseline/regression"
)

// DefaultWindowMonths is the trainer's default lookback window
// (spec.md §4.3).
const DefaultWindowMonths = 2

// MinFormSamples is the minimum post-filter sample count required to
// train the three form models (spec.md §4.3 step 5).
const MinFormSamples = 50

// MinPowerSamples is the minimum sample count required to train the
// power-efficiency model (spec.md §4.3 step 6).
const MinPowerSamples = 10

// ErrInsufficientData is returned when the windowed pull yields fewer
// than MinFormSamples usable rows.
var ErrInsufficientData = errors.New("trainer: insufficient data in training window")

// TrainingRow is one joined split+activity observation suitable for
// form-model fitting (spec.md §4.3 step 2-3).
type TrainingRow struct {
	ActivityDate time.Time
	GCTMS        float64
	VOCm         float64
	VRPercent    float64
	SpeedMPS     float64
}

// PowerRow is one joined split+activity observation suitable for
// power-efficiency fitting (spec.md §4.3 step 6).
type PowerRow struct {
	ActivityDate time.Time
	PowerW       float64
	BodyMassKG   float64
	SpeedMPS     float64
}

// DataSource abstracts the windowed query against whatever backs the
// joined splits+activities data (the analytical store, in production).
// Keeping this a narrow two-method interface is what lets trainer
// tests run entirely against an in-memory fake.
type DataSource interface {
	FetchTrainingRows(userID, conditionGroup string, window dateutil.Window) ([]TrainingRow, error)
	FetchPowerRows(userID, conditionGroup string, window dateutil.Window) ([]PowerRow, error)
}

// MetricResult is the per-metric outcome of one Train call (spec.md
// §4.3 step 4: "wrap exceptions as a per-metric failure but do not
// abort the whole training").
type MetricResult struct {
	Metric domain.Metric
	Err    error
	NSamples int
	RMSE     float64
}

// Result is the return value of Train (spec.md §4.3 step 8).
type Result struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Metrics     []MetricResult
	PowerTrained bool
	PowerErr     error
}

// Trainer ties a DataSource to a modelstore.Store.
type Trainer struct {
	Source DataSource
	Store  *modelstore.Store
}

// New constructs a Trainer.
func New(source DataSource, store *modelstore.Store) *Trainer {
	return &Trainer{Source: source, Store: store}
}

// Train runs the full windowed fit for (userID, conditionGroup) ending
// at endDate, per spec.md §4.3.
func (tr *Trainer) Train(userID, conditionGroup string, endDate time.Time, windowMonths int) (Result, error) {
	if windowMonths <= 0 {
		windowMonths = DefaultWindowMonths
	}
	window := dateutil.TrainingWindow(endDate, windowMonths)

	rows, err := tr.Source.FetchTrainingRows(userID, conditionGroup, window)
	if err != nil {
		return Result{}, fmt.Errorf("trainer: fetch training rows: %w", err)
	}
	if len(rows) < MinFormSamples {
		return Result{}, fmt.Errorf("%w: %d rows (need %d)", ErrInsufficientData, len(rows), MinFormSamples)
	}

	result := Result{PeriodStart: window.Start, PeriodEnd: window.End}

	for _, metric := range []domain.Metric{domain.MetricGCT, domain.MetricVO, domain.MetricVR} {
		mr := tr.trainMetric(userID, conditionGroup, window, metric, rows)
		result.Metrics = append(result.Metrics, mr)
	}

	powerRows, err := tr.Source.FetchPowerRows(userID, conditionGroup, window)
	if err != nil {
		logging.Logger().Warn().Err(err).Str("component", "trainer").Msg("fetch power rows failed, skipping power baseline")
		result.PowerErr = err
		return result, nil
	}
	if len(powerRows) < MinPowerSamples {
		result.PowerErr = fmt.Errorf("%w: %d power rows (need %d)", ErrInsufficientData, len(powerRows), MinPowerSamples)
		return result, nil
	}

	samples := make([]regression.Sample, len(powerRows))
	for i, r := range powerRows {
		samples[i] = regression.Sample{X: r.PowerW / r.BodyMassKG, Y: r.SpeedMPS}
	}
	fit, err := regression.FitPowerEfficiency(samples)
	if err != nil {
		result.PowerErr = err
		return result, nil
	}

	baseline := domain.Baseline{
		UserID: userID, ConditionGroup: conditionGroup,
		Metric: domain.MetricPower, ModelKind: domain.ModelKindLinear,
		PowerA: fit.A, PowerB: fit.B, PowerRMSE: fit.RMSE,
		NSamples: fit.NSamples,
		PeriodStart: window.Start, PeriodEnd: window.End,
	}
	if err := tr.Store.UpsertBaseline(baseline); err != nil {
		result.PowerErr = fmt.Errorf("trainer: upsert power baseline: %w", err)
		return result, nil
	}
	result.PowerTrained = true
	return result, nil
}

func (tr *Trainer) trainMetric(userID, conditionGroup string, window dateutil.Window, metric domain.Metric, rows []TrainingRow) MetricResult {
	switch metric {
	case domain.MetricGCT:
		samples := make([]regression.Sample, len(rows))
		for i, r := range rows {
			samples[i] = regression.Sample{X: r.GCTMS, Y: r.SpeedMPS}
		}
		model, err := regression.FitGCTPower(samples, true)
		if err != nil {
			return MetricResult{Metric: metric, Err: err}
		}
		baseline := domain.Baseline{
			UserID: userID, ConditionGroup: conditionGroup,
			Metric: metric, ModelKind: domain.ModelKindPower,
			Alpha: model.Alpha, D: model.D,
			NSamples: model.NSamples, RMSE: model.RMSE,
			SpeedMin: model.SpeedRange.Min, SpeedMax: model.SpeedRange.Max,
			PeriodStart: window.Start, PeriodEnd: window.End,
		}
		if err := tr.Store.UpsertBaseline(baseline); err != nil {
			return MetricResult{Metric: metric, Err: err}
		}
		return MetricResult{Metric: metric, NSamples: model.NSamples, RMSE: model.RMSE}

	case domain.MetricVO, domain.MetricVR:
		metricName := "vo"
		if metric == domain.MetricVR {
			metricName = "vr"
		}
		samples := make([]regression.Sample, len(rows))
		for i, r := range rows {
			value := r.VOCm
			if metric == domain.MetricVR {
				value = r.VRPercent
			}
			samples[i] = regression.Sample{X: r.SpeedMPS, Y: value}
		}
		model, err := regression.FitLinear(samples, metricName)
		if err != nil {
			return MetricResult{Metric: metric, Err: err}
		}
		baseline := domain.Baseline{
			UserID: userID, ConditionGroup: conditionGroup,
			Metric: metric, ModelKind: domain.ModelKindLinear,
			A: model.A, B: model.B,
			NSamples: model.NSamples, RMSE: model.RMSE,
			SpeedMin: model.SpeedRange.Min, SpeedMax: model.SpeedRange.Max,
			PeriodStart: window.Start, PeriodEnd: window.End,
		}
		if err := tr.Store.UpsertBaseline(baseline); err != nil {
			return MetricResult{Metric: metric, Err: err}
		}
		return MetricResult{Metric: metric, NSamples: model.NSamples, RMSE: model.RMSE}

	default:
		return MetricResult{Metric: metric, Err: fmt.Errorf("trainer: unsupported metric %v", metric)}
	}
}
