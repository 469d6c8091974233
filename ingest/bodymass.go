package ingest

import (
	"sort"
	"time"
)

// WeightCache loads the cached daily weight for one date, in grams,
// mirroring the raw-file cache layout <data>/raw/weight/<date>.json
// (spec.md §6). ok is false when no cached sample exists for that day.
type WeightCache interface {
	DailyWeightGrams(date time.Time) (grams float64, ok bool)
}

// RecentActivityWeights supplies the most recent activity-carried
// body-mass readings within a window, for the §4.12 fallback.
type RecentActivityWeights interface {
	RecentBodyMassKG(before time.Time, within time.Duration) (kg float64, ok bool)
}

// SevenDayMedianWeightKG implements C10 (spec.md §4.10): the median
// of up to seven daily weigh-ins ending on activityDate inclusive,
// converted from grams to kilograms. Missing days are skipped; fewer
// than one sample yields ok=false.
func SevenDayMedianWeightKG(cache WeightCache, activityDate time.Time) (kg float64, ok bool) {
	var samples []float64
	for offset := 0; offset < 7; offset++ {
		day := activityDate.AddDate(0, 0, -offset)
		if grams, found := cache.DailyWeightGrams(day); found {
			samples = append(samples, grams/1000.0)
		}
	}
	if len(samples) == 0 {
		return 0, false
	}
	return medianOf(samples), true
}

// BodyMassKG implements §4.12: the seven-day median, falling back to
// the most recent activity-carried body mass within the same
// seven-day window when the scale has no readings at all. Preserves
// §4.10's "return none" behaviour when both sources are empty.
func BodyMassKG(cache WeightCache, recent RecentActivityWeights, activityDate time.Time) (kg float64, ok bool) {
	if kg, ok := SevenDayMedianWeightKG(cache, activityDate); ok {
		return kg, true
	}
	if recent == nil {
		return 0, false
	}
	return recent.RecentBodyMassKG(activityDate, 7*24*time.Hour)
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
