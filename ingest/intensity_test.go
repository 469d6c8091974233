package ingest

import (
	"testing"

	"formbaseline/domain"
)

func floatPtr(v float64) *float64 { return &v }

// TestEstimateIntensityPositionalRules checks the warmup/cooldown
// positional rules on a run long enough (n > 6) to exercise the
// two-split warmup/cooldown bands.
func TestEstimateIntensityPositionalRules(t *testing.T) {
	splits := make([]domain.Split, 8)
	for i := range splits {
		splits[i] = domain.Split{SplitIndex: i, PaceSecPerKM: 300}
	}

	EstimateIntensity(splits)

	if splits[0].IntensityType != domain.IntensityWarmup {
		t.Errorf("split 0 = %s, want warmup", splits[0].IntensityType)
	}
	if splits[1].IntensityType != domain.IntensityWarmup {
		t.Errorf("split 1 = %s, want warmup (n>6 second-split rule)", splits[1].IntensityType)
	}
	if splits[7].IntensityType != domain.IntensityCooldown {
		t.Errorf("split 7 = %s, want cooldown", splits[7].IntensityType)
	}
	if splits[6].IntensityType != domain.IntensityCooldown {
		t.Errorf("split 6 = %s, want cooldown (n>6 penultimate-split rule)", splits[6].IntensityType)
	}
}

// TestEstimateIntensityFastPaceInterval uses an interior pace well
// under 90% of the mean (unambiguous, unlike spec.md's own worked
// boundary example) so the classification is not sensitive to a
// rounding edge.
func TestEstimateIntensityFastPaceInterval(t *testing.T) {
	paces := []float64{300, 290, 180, 180, 180, 180, 180, 180, 300, 310}
	splits := make([]domain.Split, len(paces))
	for i, p := range paces {
		splits[i] = domain.Split{SplitIndex: i, PaceSecPerKM: p}
	}

	EstimateIntensity(splits)

	for i := 2; i <= 7; i++ {
		if splits[i].IntensityType != domain.IntensityInterval {
			t.Errorf("split %d (pace %.0f) = %s, want interval", i, paces[i], splits[i].IntensityType)
		}
		if !splits[i].IntensityEstimated {
			t.Errorf("split %d: IntensityEstimated not set", i)
		}
	}
}

// TestEstimateIntensityRecoveryFollowsInterval checks rule 3: a slow
// split immediately after an interval (or another recovery split) is
// classified recovery, not merely "active".
func TestEstimateIntensityRecoveryFollowsInterval(t *testing.T) {
	splits := []domain.Split{
		{SplitIndex: 0, PaceSecPerKM: 300},
		{SplitIndex: 1, PaceSecPerKM: 150}, // fast -> interval
		{SplitIndex: 2, PaceSecPerKM: 450}, // slow, follows interval -> recovery
		{SplitIndex: 3, PaceSecPerKM: 460}, // slow, follows recovery -> recovery
		{SplitIndex: 4, PaceSecPerKM: 300},
	}

	EstimateIntensity(splits)

	if splits[1].IntensityType != domain.IntensityInterval {
		t.Fatalf("split 1 = %s, want interval", splits[1].IntensityType)
	}
	if splits[2].IntensityType != domain.IntensityRecovery {
		t.Errorf("split 2 = %s, want recovery", splits[2].IntensityType)
	}
	if splits[3].IntensityType != domain.IntensityRecovery {
		t.Errorf("split 3 = %s, want recovery (chained)", splits[3].IntensityType)
	}
}

// TestEstimateIntensityHighHeartRateInterval exercises rule 5: a split
// whose pace is not fast but whose heart rate exceeds 110% of the
// activity's mean heart rate is still classified interval.
func TestEstimateIntensityHighHeartRateInterval(t *testing.T) {
	splits := []domain.Split{
		{SplitIndex: 0, PaceSecPerKM: 300, HeartRate: floatPtr(140)},
		{SplitIndex: 1, PaceSecPerKM: 300, HeartRate: floatPtr(140)},
		{SplitIndex: 2, PaceSecPerKM: 298, HeartRate: floatPtr(175)}, // pace near mean, HR spikes
		{SplitIndex: 3, PaceSecPerKM: 300, HeartRate: floatPtr(140)},
		{SplitIndex: 4, PaceSecPerKM: 300, HeartRate: floatPtr(140)},
	}

	EstimateIntensity(splits)

	if splits[2].IntensityType != domain.IntensityInterval {
		t.Errorf("split 2 = %s, want interval (HR rule)", splits[2].IntensityType)
	}
}

// TestEstimateIntensityDefaultActive checks the final fallback: steady
// pace, no heart rate data, non-boundary position.
func TestEstimateIntensityDefaultActive(t *testing.T) {
	splits := []domain.Split{
		{SplitIndex: 0, PaceSecPerKM: 300},
		{SplitIndex: 1, PaceSecPerKM: 300},
		{SplitIndex: 2, PaceSecPerKM: 300},
		{SplitIndex: 3, PaceSecPerKM: 300},
		{SplitIndex: 4, PaceSecPerKM: 300},
	}

	EstimateIntensity(splits)

	if splits[2].IntensityType != domain.IntensityActive {
		t.Errorf("split 2 = %s, want active", splits[2].IntensityType)
	}
}

// TestEstimateIntensityPreservesKnownValues checks that a split whose
// IntensityType was already assigned by the provider is left alone.
func TestEstimateIntensityPreservesKnownValues(t *testing.T) {
	splits := []domain.Split{
		{SplitIndex: 0, PaceSecPerKM: 300, IntensityType: domain.IntensityRecovery},
		{SplitIndex: 1, PaceSecPerKM: 300},
	}

	EstimateIntensity(splits)

	if splits[0].IntensityType != domain.IntensityRecovery {
		t.Errorf("split 0 was overwritten: %s", splits[0].IntensityType)
	}
	if splits[0].IntensityEstimated {
		t.Errorf("split 0: IntensityEstimated should remain false, provider-assigned value was kept")
	}
}
