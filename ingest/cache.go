package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"formbaseline/provider"
)

// sectionNames are the eight raw-file cache sections fetched per
// activity (spec.md §4.8 step 2 / §6's raw-file cache layout).
var sectionNames = []string{
	"activity", "activity_details", "splits", "weather",
	"gear", "hr_zones", "vo2_max", "lactate_threshold",
}

// RawFileCache implements the per-activity JSON cache tier (spec.md
// §6): <data>/raw/activity/<activity_id>/{section}.json. Uses the
// same os.Create + json.NewEncoder idiom the teacher uses for every
// on-disk artifact.
type RawFileCache struct {
	dataDir string
}

// NewRawFileCache constructs a RawFileCache rooted at dataDir.
func NewRawFileCache(dataDir string) *RawFileCache {
	return &RawFileCache{dataDir: dataDir}
}

func (c *RawFileCache) activityDir(activityID int64) string {
	return filepath.Join(c.dataDir, "raw", "activity", fmt.Sprintf("%d", activityID))
}

func (c *RawFileCache) sectionPath(activityID int64, section string) string {
	return filepath.Join(c.activityDir(activityID), section+".json")
}

// Load reads whatever sections are present on disk for an activity.
// Missing files are simply absent from the returned map - this is not
// an error (spec.md §4.8: "Any file present is loaded").
func (c *RawFileCache) Load(activityID int64) (map[string]provider.RawJSON, error) {
	sections := make(map[string]provider.RawJSON)
	for _, name := range sectionNames {
		data, err := os.ReadFile(c.sectionPath(activityID, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("ingest: read cached %s for activity %d: %w", name, activityID, err)
		}
		sections[name] = data
	}
	return sections, nil
}

// Store persists one section's raw JSON to disk.
func (c *RawFileCache) Store(activityID int64, section string, data provider.RawJSON) error {
	dir := c.activityDir(activityID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(c.sectionPath(activityID, section))
	if err != nil {
		return err
	}
	defer f.Close()
	var pretty interface{}
	if err := json.Unmarshal(data, &pretty); err != nil {
		_, err := f.Write(data)
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(pretty)
}

// HasAllSections reports whether every documented section is present.
func (c *RawFileCache) HasAllSections(sections map[string]provider.RawJSON) bool {
	for _, name := range sectionNames {
		if _, ok := sections[name]; !ok {
			return false
		}
	}
	return true
}

// WeightCachePath returns the per-date weight cache file path
// (spec.md §6: <data>/raw/weight/<YYYY-MM-DD>.json).
func (c *RawFileCache) WeightCachePath(dateISO string) string {
	return filepath.Join(c.dataDir, "raw", "weight", dateISO+".json")
}
