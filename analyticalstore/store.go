// Package analyticalstore provides the narrow write-through surface
// the ingest pipeline and the evaluate command's evaluation upsert
// target (spec.md §9
// redesign flag: "Keep the store-facing interface narrow:
// upsert_by_key(table, row)"). The store itself is documented as an
// external collaborator (spec.md §1); this package supplies that
// narrow interface plus one concrete, disk-backed implementation.
package analyticalstore

// Key is an opaque composite key; implementations format it however
// their backing storage needs (a SQL WHERE clause, a Parquet row
// filter, a map key).
type Key map[string]any

// Store is the single contractual operation every implementation must
// support (spec.md §9).
type Store interface {
	UpsertByKey(table string, key Key, row any) error
}

// Table name constants, matching the schema list in spec.md §6.
const (
	TableActivities         = "activities"
	TableSplits              = "splits"
	TableFormBaselineHistory = "form_baseline_history"
	TableFormEvaluations     = "form_evaluations"
	TablePerformanceTrends   = "performance_trends"
	TableHREfficiency        = "hr_efficiency"
	TableHeartRateZones      = "heart_rate_zones"
	TableVO2Max              = "vo2_max"
	TableLactateThreshold    = "lactate_threshold"
	TableTimeSeriesMetrics   = "time_series_metrics"
)
