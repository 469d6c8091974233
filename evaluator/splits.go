package evaluator

import "formbaseline/domain"

// splitAggregate is the averaged (pace, gct, vo, vr, cadence, power)
// tuple the evaluator scores against (spec.md §4.7 step 2).
type splitAggregate struct {
	paceSecPerKM float64
	gct          float64
	vo           float64
	vr           float64
	cadence      float64
	power        *float64
}

func (a splitAggregate) speedMPS() float64 {
	if a.paceSecPerKM <= 0 {
		return 0
	}
	return 1000.0 / a.paceSecPerKM
}

// averageRunSplits selects splits per spec.md §4.7 step 2: prefer the
// activity's run_splits index list; fall back to every split carrying
// non-null GCT/VO/VR. Returns ok=false when the selected set is empty.
func averageRunSplits(activity domain.Activity) (splitAggregate, bool) {
	var selected []domain.Split

	if len(activity.RunSplitIndexes) > 0 {
		byIndex := make(map[int]domain.Split, len(activity.Splits))
		for _, s := range activity.Splits {
			byIndex[s.SplitIndex] = s
		}
		for _, idx := range activity.RunSplitIndexes {
			if s, ok := byIndex[idx]; ok {
				selected = append(selected, s)
			}
		}
	}

	if len(selected) == 0 {
		for _, s := range activity.Splits {
			if s.GroundContactTimeMS != nil && s.VerticalOscillation != nil && s.VerticalRatio != nil {
				selected = append(selected, s)
			}
		}
	}

	if len(selected) == 0 {
		return splitAggregate{}, false
	}

	var sumPace, sumGCT, sumVO, sumVR, sumCadence float64
	var cadenceCount int
	var sumPower float64
	var powerCount int

	for _, s := range selected {
		sumPace += s.PaceSecPerKM
		if s.GroundContactTimeMS != nil {
			sumGCT += *s.GroundContactTimeMS
		}
		if s.VerticalOscillation != nil {
			sumVO += *s.VerticalOscillation
		}
		if s.VerticalRatio != nil {
			sumVR += *s.VerticalRatio
		}
		if s.Cadence != nil {
			sumCadence += *s.Cadence
			cadenceCount++
		}
		if s.Power != nil {
			sumPower += *s.Power
			powerCount++
		}
	}

	n := float64(len(selected))
	agg := splitAggregate{
		paceSecPerKM: sumPace / n,
		gct:          sumGCT / n,
		vo:           sumVO / n,
		vr:           sumVR / n,
	}
	if cadenceCount > 0 {
		agg.cadence = sumCadence / float64(cadenceCount)
	}
	if powerCount > 0 {
		avg := sumPower / float64(powerCount)
		agg.power = &avg
	}
	return agg, true
}
