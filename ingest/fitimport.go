package ingest

import (
	"fmt"
	"os"

	"github.com/tormoder/fit"

	"formbaseline/domain"
)

// ImportFITFile decodes a watch-exported .fit file into a domain
// Activity, per §4.11. It is a standalone entry point: Pipeline.Ingest
// never calls it, so a caller holding a local file invokes it
// directly. Mirrors
// the teacher's AnalyzeFile: open, fit.Decode, decoded.Activity(),
// then walk the lap messages for per-segment metrics.
func ImportFITFile(path string) (domain.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("ingest: open FIT file: %w", err)
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("ingest: decode FIT file: %w", err)
	}

	activityFile, err := decoded.Activity()
	if err != nil {
		return domain.Activity{}, fmt.Errorf("ingest: activity FIT expected: %w", err)
	}
	if len(activityFile.Sessions) == 0 {
		return domain.Activity{}, fmt.Errorf("ingest: FIT file has no session message")
	}
	session := activityFile.Sessions[0]

	activity := domain.Activity{
		ActivityDate:    session.StartTime,
		DistanceKM:      session.GetTotalDistanceScaled() / 1000.0,
		DurationSeconds: session.GetTotalTimerTimeScaled(),
	}

	if len(activityFile.Laps) == 0 {
		// No lap messages: derive one synthetic split from the
		// session summary (mirrors the teacher's
		// DistanceMeters==0 -> series.lastDistanceMeters fallback
		// chain in analyzer.go).
		activity.Splits = []domain.Split{sessionSyntheticSplit(session)}
	} else {
		activity.Splits = make([]domain.Split, len(activityFile.Laps))
		for i, lap := range activityFile.Laps {
			activity.Splits[i] = lapToSplit(i, lap)
		}
	}

	EstimateIntensity(activity.Splits)
	return activity, nil
}

func sessionSyntheticSplit(session *fit.SessionMsg) domain.Split {
	speed := session.GetEnhancedAvgSpeedScaled()
	if speed == 0 {
		speed = session.GetAvgSpeedScaled()
	}
	var pace float64
	if speed > 0 {
		pace = 1000.0 / speed
	}
	return domain.Split{
		SplitIndex:      0,
		DistanceM:       session.GetTotalDistanceScaled(),
		DurationSeconds: session.GetTotalTimerTimeScaled(),
		PaceSecPerKM:    pace,
		AverageSpeedMPS: speed,
	}
}

// lapToSplit builds one Split from a FIT lap message, pulling ground
// contact time, vertical oscillation, and vertical ratio from the
// lap's running-dynamics fields the same way the teacher pulls
// power/HR/cadence from RecordMsg accessors.
func lapToSplit(index int, lap *fit.LapMsg) domain.Split {
	speed := lap.GetEnhancedAvgSpeedScaled()
	if speed == 0 {
		speed = lap.GetAvgSpeedScaled()
	}
	var pace float64
	if speed > 0 {
		pace = 1000.0 / speed
	}

	split := domain.Split{
		SplitIndex:      index,
		DistanceM:       lap.GetTotalDistanceScaled(),
		DurationSeconds: lap.GetTotalTimerTimeScaled(),
		PaceSecPerKM:    pace,
		AverageSpeedMPS: speed,
		ElevationGainM:  float64(lap.TotalAscent),
		ElevationLossM:  float64(lap.TotalDescent),
	}

	if hr := float64(lap.AvgHeartRate); hr > 0 {
		split.HeartRate = &hr
	}
	if cadence := lap.GetAvgCadenceScaled(); cadence > 0 {
		split.Cadence = &cadence
	}
	if power := float64(lap.AvgPower); power > 0 {
		split.Power = &power
	}
	if gct := lap.GetAvgStanceTimeScaled(); gct > 0 {
		split.GroundContactTimeMS = &gct
	}
	if vo := lap.GetAvgVerticalOscillationScaled(); vo > 0 {
		split.VerticalOscillation = &vo
	}
	if vr := lap.GetAvgVerticalRatioScaled(); vr > 0 {
		split.VerticalRatio = &vr
	}

	return split
}
