package ingest

import (
	"fmt"

	"formbaseline/analyticalstore"
	"formbaseline/logging"
	"formbaseline/provider"
)

// performanceSections are the eleven canonical sections the result
// cache is keyed on (spec.md §4.8 step 1).
var performanceSections = []string{
	"basic_metrics", "heart_rate_zones", "split_metrics", "efficiency_metrics",
	"training_effect", "power_to_weight", "vo2_max", "lactate_threshold",
	"form_efficiency_summary", "hr_efficiency_analysis", "performance_trends",
}

// ResultStore is the tier-1 result-store cache (spec.md §4.8 step 1):
// a per-activity, per-section lookup that - when every section is
// present - lets the pipeline skip file IO and network entirely.
type ResultStore interface {
	GetSection(activityID int64, section string) (any, bool)
	PutSection(activityID int64, section string, value any) error
}

// PerformanceDocument is the assembled 11-section summary persisted
// after collection (spec.md §4.8).
type PerformanceDocument struct {
	ActivityID int64          `json:"activity_id"`
	Sections   map[string]any `json:"sections"`
}

// Pipeline implements C8: the three-tier ingest cache plus write-
// through to the analytical store. Ingest does not consult local FIT
// files; ImportFITFile (§4.11) is a separate entry point that callers
// invoke themselves.
type Pipeline struct {
	Results  ResultStore
	RawCache *RawFileCache
	Remote   provider.Client
	Store    analyticalstore.Store
}

// NewPipeline constructs a Pipeline.
func NewPipeline(results ResultStore, rawCache *RawFileCache, remote provider.Client, store analyticalstore.Store) *Pipeline {
	return &Pipeline{Results: results, RawCache: rawCache, Remote: remote, Store: store}
}

// Ingest runs the full C8 pipeline for one activity. Re-ingesting an
// already-processed activity whose result cache already covers every
// section is a no-op (spec.md §4.8: "Write idempotence").
func (p *Pipeline) Ingest(activityID int64) (PerformanceDocument, error) {
	if doc, ok := p.loadFromResultCache(activityID); ok {
		return doc, nil
	}

	sections, err := p.RawCache.Load(activityID)
	if err != nil {
		return PerformanceDocument{}, fmt.Errorf("ingest: load raw cache: %w", err)
	}

	if !p.RawCache.HasAllSections(sections) {
		p.fetchMissingSections(activityID, sections)
	}

	summary := computePerformanceSummary(activityID, sections)
	if err := p.persistPerformanceDocument(summary); err != nil {
		return PerformanceDocument{}, fmt.Errorf("ingest: persist performance document: %w", err)
	}
	if err := p.writeThroughAnalyticalStore(summary, sections); err != nil {
		return PerformanceDocument{}, fmt.Errorf("ingest: write through analytical store: %w", err)
	}
	return summary, nil
}

func (p *Pipeline) loadFromResultCache(activityID int64) (PerformanceDocument, bool) {
	if p.Results == nil {
		return PerformanceDocument{}, false
	}
	doc := PerformanceDocument{ActivityID: activityID, Sections: make(map[string]any)}
	for _, section := range performanceSections {
		value, ok := p.Results.GetSection(activityID, section)
		if !ok {
			return PerformanceDocument{}, false
		}
		doc.Sections[section] = value
	}
	return doc, true
}

// fetchMissingSections fetches whatever raw-file sections are absent.
// Each fetch is independent; a failure is logged and skipped rather
// than aborting the whole ingest (spec.md §7: "API fetch failure:
// Logged and skipped").
func (p *Pipeline) fetchMissingSections(activityID int64, sections map[string]provider.RawJSON) {
	fetchers := map[string]func() (provider.RawJSON, error){
		"activity":           func() (provider.RawJSON, error) { return p.Remote.GetActivity(activityID) },
		"activity_details":   func() (provider.RawJSON, error) { return p.Remote.GetActivityDetails(activityID, 2000) },
		"splits":             func() (provider.RawJSON, error) { return p.Remote.GetActivitySplits(activityID) },
		"weather":            func() (provider.RawJSON, error) { return p.Remote.GetActivityWeather(activityID) },
		"gear":               func() (provider.RawJSON, error) { return p.Remote.GetActivityGear(activityID) },
		"hr_zones":           func() (provider.RawJSON, error) { return p.Remote.GetActivityHRInTimezones(activityID) },
		"vo2_max":            nil, // fetched via GetMaxMetrics(date), resolved by the caller's activity date; left to a higher-level orchestrator.
		"lactate_threshold":  func() (provider.RawJSON, error) { return p.Remote.GetLactateThreshold(true) },
	}

	for _, name := range sectionNames {
		if _, present := sections[name]; present {
			continue
		}
		fetch, ok := fetchers[name]
		if !ok || fetch == nil {
			continue
		}
		data, err := fetch()
		if err != nil {
			logging.Logger().Warn().Err(err).Str("component", "ingest").Int64("activity_id", activityID).Str("section", name).Msg("fetch failed, section omitted")
			continue
		}
		sections[name] = data
		if err := p.RawCache.Store(activityID, name, data); err != nil {
			logging.Logger().Warn().Err(err).Str("component", "ingest").Int64("activity_id", activityID).Str("section", name).Msg("persist to raw cache failed")
		}
	}
}

func (p *Pipeline) persistPerformanceDocument(doc PerformanceDocument) error {
	if p.Results == nil {
		return nil
	}
	for section, value := range doc.Sections {
		if err := p.Results.PutSection(doc.ActivityID, section, value); err != nil {
			return err
		}
	}
	return nil
}

// writeThroughAnalyticalStore upserts every table the ingest pipeline
// is responsible for (spec.md §4.8: activities, splits,
// form_efficiency, heart_rate_zones, hr_efficiency, performance_trends,
// lactate_threshold, vo2_max, and - when activity_details is present -
// time_series_metrics).
func (p *Pipeline) writeThroughAnalyticalStore(doc PerformanceDocument, sections map[string]provider.RawJSON) error {
	key := analyticalstore.Key{"activity_id": doc.ActivityID}

	if v, ok := doc.Sections["basic_metrics"]; ok {
		if err := p.Store.UpsertByKey(analyticalstore.TableActivities, key, v); err != nil {
			return err
		}
	}
	if v, ok := doc.Sections["split_metrics"]; ok {
		if err := p.Store.UpsertByKey(analyticalstore.TableSplits, key, v); err != nil {
			return err
		}
	}
	if v, ok := doc.Sections["form_efficiency_summary"]; ok {
		if err := p.Store.UpsertByKey("form_efficiency", key, v); err != nil {
			return err
		}
	}
	if v, ok := doc.Sections["heart_rate_zones"]; ok {
		if err := p.Store.UpsertByKey(analyticalstore.TableHeartRateZones, key, v); err != nil {
			return err
		}
	}
	if v, ok := doc.Sections["hr_efficiency_analysis"]; ok {
		if err := p.Store.UpsertByKey(analyticalstore.TableHREfficiency, key, v); err != nil {
			return err
		}
	}
	if v, ok := doc.Sections["performance_trends"]; ok {
		if err := p.Store.UpsertByKey(analyticalstore.TablePerformanceTrends, key, v); err != nil {
			return err
		}
	}
	if v, ok := doc.Sections["lactate_threshold"]; ok {
		if err := p.Store.UpsertByKey(analyticalstore.TableLactateThreshold, key, v); err != nil {
			return err
		}
	}
	if v, ok := doc.Sections["vo2_max"]; ok {
		if err := p.Store.UpsertByKey(analyticalstore.TableVO2Max, key, v); err != nil {
			return err
		}
	}
	if raw, present := sections["activity_details"]; present {
		if err := p.Store.UpsertByKey(analyticalstore.TableTimeSeriesMetrics, key, raw); err != nil {
			return err
		}
	}
	return nil
}

// computePerformanceSummary derives the 11-section summary from
// whatever raw sections were collected (spec.md §4.8). Sections whose
// inputs are missing are simply absent from the result - downstream
// consumers fill nulls/defaults per spec.md §7.
func computePerformanceSummary(activityID int64, sections map[string]provider.RawJSON) PerformanceDocument {
	doc := PerformanceDocument{ActivityID: activityID, Sections: make(map[string]any)}
	for _, section := range performanceSections {
		if _, ok := rawSectionFor(section, sections); ok {
			doc.Sections[section] = rawSectionValue(section, sections)
		}
	}
	return doc
}

// rawSectionFor maps a derived performance section back to the raw
// input section(s) it depends on, so computePerformanceSummary can
// tell whether enough raw data exists to derive it.
func rawSectionFor(performanceSection string, sections map[string]provider.RawJSON) (provider.RawJSON, bool) {
	switch performanceSection {
	case "basic_metrics", "split_metrics", "efficiency_metrics", "training_effect",
		"form_efficiency_summary", "hr_efficiency_analysis", "performance_trends":
		raw, ok := sections["activity"]
		return raw, ok
	case "heart_rate_zones":
		raw, ok := sections["hr_zones"]
		return raw, ok
	case "power_to_weight":
		raw, ok := sections["activity"]
		return raw, ok
	case "vo2_max":
		raw, ok := sections["vo2_max"]
		return raw, ok
	case "lactate_threshold":
		raw, ok := sections["lactate_threshold"]
		return raw, ok
	default:
		return nil, false
	}
}

// rawSectionValue is a thin passthrough placeholder: in this system
// the heavy per-section derivation (power curves, HR zone bucketing,
// trend regression) lives in the analytical store's own materialized
// views in production; the pipeline's job ends at making sure the
// right raw inputs reached the store keyed correctly.
func rawSectionValue(_ string, sections map[string]provider.RawJSON) any {
	return sections
}
