package ingest

import (
	"testing"
)

func TestRawFileCacheStoreThenLoad(t *testing.T) {
	dir := t.TempDir()
	cache := NewRawFileCache(dir)

	if err := cache.Store(100, "activity", []byte(`{"distance":10}`)); err != nil {
		t.Fatalf("Store: %v", err)
	}

	sections, err := cache.Load(100)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := sections["activity"]; !ok {
		t.Error("expected activity section to be present after store")
	}
}

func TestRawFileCacheLoadMissingSectionsNotAnError(t *testing.T) {
	dir := t.TempDir()
	cache := NewRawFileCache(dir)

	sections, err := cache.Load(999)
	if err != nil {
		t.Fatalf("Load on empty cache should not error: %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("expected no sections, got %d", len(sections))
	}
}

func TestRawFileCacheHasAllSections(t *testing.T) {
	dir := t.TempDir()
	cache := NewRawFileCache(dir)

	for _, name := range sectionNames {
		if err := cache.Store(1, name, []byte(`{}`)); err != nil {
			t.Fatalf("Store %s: %v", name, err)
		}
	}

	sections, err := cache.Load(1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cache.HasAllSections(sections) {
		t.Error("expected HasAllSections to be true once every section is stored")
	}
}

func TestRawFileCacheHasAllSectionsFalseWhenPartial(t *testing.T) {
	dir := t.TempDir()
	cache := NewRawFileCache(dir)

	if err := cache.Store(1, "activity", []byte(`{}`)); err != nil {
		t.Fatalf("Store: %v", err)
	}
	sections, _ := cache.Load(1)
	if cache.HasAllSections(sections) {
		t.Error("expected HasAllSections to be false with only one section stored")
	}
}

func TestWeightCachePath(t *testing.T) {
	cache := NewRawFileCache("/data")
	got := cache.WeightCachePath("2026-03-10")
	want := "/data/raw/weight/2026-03-10.json"
	if got != want {
		t.Errorf("WeightCachePath = %q, want %q", got, want)
	}
}
