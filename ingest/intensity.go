// Package ingest implements the three-tier cache pipeline (C8),
// intensity estimation, the activity resolver (C9), the body-mass
// aggregator (C10), and local FIT-file import.
package ingest

import "formbaseline/domain"

// EstimateIntensity fills in IntensityType for every split whose
// provider-assigned value is IntensityUnknown, applying the ordered
// rules in spec.md §4.8. Existing non-unknown values are preserved
// untouched.
func EstimateIntensity(splits []domain.Split) {
	n := len(splits)
	if n == 0 {
		return
	}

	avgPace := meanPace(splits)
	avgHR, haveHR := meanHeartRate(splits)

	for i := range splits {
		if splits[i].IntensityType != domain.IntensityUnknown {
			continue
		}
		splits[i].IntensityType = classify(splits, i, n, avgPace, avgHR, haveHR)
		splits[i].IntensityEstimated = true
	}
}

func classify(splits []domain.Split, i, n int, avgPace, avgHR float64, haveHR bool) domain.IntensityType {
	// 1. Position-based warmup.
	if i == 0 || (n > 6 && i == 1) {
		return domain.IntensityWarmup
	}
	// 2. Position-based cooldown.
	if i == n-1 || (n > 6 && i == n-2) {
		return domain.IntensityCooldown
	}
	// 3. Recovery: slow pace following an interval or recovery split.
	pace := splits[i].PaceSecPerKM
	if pace > 400 {
		prev := splits[i-1].IntensityType
		if prev == domain.IntensityInterval || prev == domain.IntensityRecovery {
			return domain.IntensityRecovery
		}
	}
	// 4. Interval by fast pace.
	if pace < avgPace*0.90 {
		return domain.IntensityInterval
	}
	// 5. Interval by high heart rate.
	if haveHR && splits[i].HeartRate != nil && *splits[i].HeartRate > avgHR*1.1 {
		return domain.IntensityInterval
	}
	// 6. Default.
	return domain.IntensityActive
}

func meanPace(splits []domain.Split) float64 {
	var sum float64
	for _, s := range splits {
		sum += s.PaceSecPerKM
	}
	return sum / float64(len(splits))
}

func meanHeartRate(splits []domain.Split) (float64, bool) {
	var sum float64
	var count int
	for _, s := range splits {
		if s.HeartRate != nil {
			sum += *s.HeartRate
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
