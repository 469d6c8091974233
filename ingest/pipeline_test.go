package ingest

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"formbaseline/analyticalstore"
	"formbaseline/provider"
)

type fakeResultStore struct {
	sections map[int64]map[string]any
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{sections: make(map[int64]map[string]any)}
}

func (f *fakeResultStore) GetSection(activityID int64, section string) (any, bool) {
	byActivity, ok := f.sections[activityID]
	if !ok {
		return nil, false
	}
	v, ok := byActivity[section]
	return v, ok
}

func (f *fakeResultStore) PutSection(activityID int64, section string, value any) error {
	if f.sections[activityID] == nil {
		f.sections[activityID] = make(map[string]any)
	}
	f.sections[activityID][section] = value
	return nil
}

// fakeProviderClient implements provider.Client with canned responses;
// every method the pipeline exercises during fetchMissingSections
// returns a minimal valid payload.
type fakeProviderClient struct {
	failSections map[string]bool
}

func (f fakeProviderClient) raw() provider.RawJSON { b, _ := json.Marshal(map[string]any{"ok": true}); return b }

func (f fakeProviderClient) GetActivity(int64) (provider.RawJSON, error) {
	if f.failSections["activity"] {
		return nil, errors.New("fetch failed")
	}
	return f.raw(), nil
}
func (f fakeProviderClient) GetActivityDetails(int64, int) (provider.RawJSON, error) {
	return f.raw(), nil
}
func (f fakeProviderClient) GetActivitySplits(int64) (provider.RawJSON, error) { return f.raw(), nil }
func (f fakeProviderClient) GetActivityWeather(int64) (provider.RawJSON, error) {
	return f.raw(), nil
}
func (f fakeProviderClient) GetActivityGear(int64) (provider.RawJSON, error) { return f.raw(), nil }
func (f fakeProviderClient) GetActivityHRInTimezones(int64) (provider.RawJSON, error) {
	return f.raw(), nil
}
func (f fakeProviderClient) GetMaxMetrics(time.Time) (provider.RawJSON, error) { return f.raw(), nil }
func (f fakeProviderClient) GetLactateThreshold(bool) (provider.RawJSON, error) {
	return f.raw(), nil
}
func (f fakeProviderClient) GetDailyWeighIns(time.Time) (provider.RawJSON, error) {
	return f.raw(), nil
}
func (f fakeProviderClient) GetActivitiesForDate(time.Time) ([]int64, error) { return nil, nil }

func TestIngestSkipsWhenResultCacheComplete(t *testing.T) {
	results := newFakeResultStore()
	for _, section := range performanceSections {
		results.PutSection(55, section, map[string]any{"cached": true})
	}

	p := NewPipeline(results, NewRawFileCache(t.TempDir()), fakeProviderClient{}, analyticalstore.NewMemoryStore())

	doc, err := p.Ingest(55)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(doc.Sections) != len(performanceSections) {
		t.Errorf("got %d sections, want %d", len(doc.Sections), len(performanceSections))
	}
}

func TestIngestFetchesMissingSectionsAndWritesThrough(t *testing.T) {
	store := analyticalstore.NewMemoryStore()
	p := NewPipeline(newFakeResultStore(), NewRawFileCache(t.TempDir()), fakeProviderClient{}, store)

	doc, err := p.Ingest(77)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.ActivityID != 77 {
		t.Errorf("ActivityID = %d, want 77", doc.ActivityID)
	}
	if _, ok := store.Get(analyticalstore.TableActivities, analyticalstore.Key{"activity_id": int64(77)}); !ok {
		t.Error("expected activities table to be written through")
	}
}

func TestIngestContinuesWhenOneSectionFetchFails(t *testing.T) {
	p := NewPipeline(newFakeResultStore(), NewRawFileCache(t.TempDir()),
		fakeProviderClient{failSections: map[string]bool{"activity": true}}, analyticalstore.NewMemoryStore())

	_, err := p.Ingest(88)
	if err != nil {
		t.Fatalf("Ingest should tolerate a single failed section fetch, got: %v", err)
	}
}
