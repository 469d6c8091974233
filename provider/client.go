// Package provider defines the remote activity-provider abstraction
// (spec.md §6) and a resty-backed implementation.
package provider

import (
	"encoding/json"
	"time"
)

// ActivitySummary, ActivityDetails, Splits, and friends are left as
// raw JSON payloads: the ingest pipeline's job is to cache and write
// through these documents, not to impose a typed schema the remote
// API doesn't itself guarantee (spec.md §4.8 treats every section as
// an opaque JSON blob until the summary-computation step).
type RawJSON = json.RawMessage

// Client is the abstract remote activity provider (spec.md §6). Every
// method name mirrors the spec's operation list one-to-one.
type Client interface {
	GetActivity(activityID int64) (RawJSON, error)
	GetActivityDetails(activityID int64, maxChart int) (RawJSON, error)
	GetActivitySplits(activityID int64) (RawJSON, error)
	GetActivityWeather(activityID int64) (RawJSON, error)
	GetActivityGear(activityID int64) (RawJSON, error)
	GetActivityHRInTimezones(activityID int64) (RawJSON, error)
	GetMaxMetrics(date time.Time) (RawJSON, error)
	GetLactateThreshold(latest bool) (RawJSON, error)
	GetDailyWeighIns(date time.Time) (RawJSON, error)
	GetActivitiesForDate(date time.Time) ([]int64, error)
}
