// Package modelstore persists trained form/power baselines as one JSON
// document per (user_id, condition_group), the same writeJSON/
// json.Decoder idiom the teacher uses for its on-disk artifacts, rather
// than standing up a database for what is, in practice, a handful of
// small versioned rows queried by a few predicates.
package modelstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"formbaseline/domain"
)

// ErrIncompleteBaseline is returned by LoadModelsCovering when the
// selected period_end has fewer than all three form metrics trained.
var ErrIncompleteBaseline = errors.New("modelstore: incomplete baseline, not all of gct/vo/vr present")

// ErrNoBaselineFound is returned when no baseline row satisfies the
// period filter at all.
var ErrNoBaselineFound = errors.New("modelstore: no baseline found")

// FormBaselines is the {gct, vo, vr} triple LoadModelsCovering returns.
type FormBaselines struct {
	GCT domain.Baseline
	VO  domain.Baseline
	VR  domain.Baseline
}

// document is the on-disk shape for one (user_id, condition_group)
// file: every baseline ever trained for that pair, keyed by metric and
// period. Kept append-only on disk (upserts mutate the in-memory slice
// then rewrite the whole file) since the row count per user/condition
// is always small.
type document struct {
	UserID         string            `json:"user_id"`
	ConditionGroup string            `json:"condition_group"`
	Baselines      []domain.Baseline `json:"baselines"`
}

// Store is a directory of per-(user,condition) JSON documents guarded
// by a single RWMutex. spec.md's concurrency model calls for a shared
// read connection with short-lived exclusive transactions; a package
// file-per-shard layout with one mutex is the closest equivalent for a
// JSON-backed store with this little contention.
type Store struct {
	mu      sync.RWMutex
	dataDir string
}

// New returns a Store rooted at dataDir/models. The directory is
// created lazily on first write.
func New(dataDir string) *Store {
	return &Store{dataDir: filepath.Join(dataDir, "models")}
}

func (s *Store) docPath(userID, conditionGroup string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s__%s.json", userID, conditionGroup))
}

func (s *Store) readDoc(userID, conditionGroup string) (document, error) {
	path := s.docPath(userID, conditionGroup)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return document{UserID: userID, ConditionGroup: conditionGroup}, nil
	}
	if err != nil {
		return document{}, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("modelstore: decode %s: %w", path, err)
	}
	return doc, nil
}

func (s *Store) writeDoc(doc document) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return err
	}
	path := s.docPath(doc.UserID, doc.ConditionGroup)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// UpsertBaseline writes a baseline, replacing every numeric field and
// TrainedAt of any existing row sharing the same logical key
// (spec.md §4.2).
func (s *Store) UpsertBaseline(row domain.Baseline) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row.TrainedAt.IsZero() {
		row.TrainedAt = timeNow()
	}

	doc, err := s.readDoc(row.UserID, row.ConditionGroup)
	if err != nil {
		return err
	}

	key := row.Key()
	replaced := false
	for i, existing := range doc.Baselines {
		if existing.Key() == key {
			doc.Baselines[i] = row
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Baselines = append(doc.Baselines, row)
	}

	return s.writeDoc(doc)
}

// LoadModelsCovering returns the {gct, vo, vr} baselines whose
// period_end equals MAX(period_end) among rows with period_end <=
// activityDate (spec.md §4.2).
func (s *Store) LoadModelsCovering(userID, conditionGroup string, activityDate time.Time) (FormBaselines, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDoc(userID, conditionGroup)
	if err != nil {
		return FormBaselines{}, err
	}

	var maxPeriodEnd time.Time
	found := false
	for _, b := range doc.Baselines {
		if b.Metric == domain.MetricPower {
			continue
		}
		if b.PeriodEnd.After(activityDate) {
			continue
		}
		if !found || b.PeriodEnd.After(maxPeriodEnd) {
			maxPeriodEnd = b.PeriodEnd
			found = true
		}
	}
	if !found {
		return FormBaselines{}, ErrNoBaselineFound
	}

	var result FormBaselines
	have := map[domain.Metric]bool{}
	for _, b := range doc.Baselines {
		if b.Metric == domain.MetricPower {
			continue
		}
		if !b.PeriodEnd.Equal(maxPeriodEnd) {
			continue
		}
		switch b.Metric {
		case domain.MetricGCT:
			result.GCT = b
			have[domain.MetricGCT] = true
		case domain.MetricVO:
			result.VO = b
			have[domain.MetricVO] = true
		case domain.MetricVR:
			result.VR = b
			have[domain.MetricVR] = true
		}
	}

	if !have[domain.MetricGCT] || !have[domain.MetricVO] || !have[domain.MetricVR] {
		return FormBaselines{}, ErrIncompleteBaseline
	}
	return result, nil
}

// LoadPowerBaseline returns the most recent power baseline with
// period_start <= activityDate, or (zero, false) if none exists
// (spec.md §4.2).
func (s *Store) LoadPowerBaseline(userID, conditionGroup string, activityDate time.Time) (domain.Baseline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDoc(userID, conditionGroup)
	if err != nil {
		return domain.Baseline{}, false
	}

	var best domain.Baseline
	found := false
	for _, b := range doc.Baselines {
		if b.Metric != domain.MetricPower {
			continue
		}
		if b.PeriodStart.After(activityDate) {
			continue
		}
		if !found || b.PeriodStart.After(best.PeriodStart) {
			best = b
			found = true
		}
	}
	return best, found
}

// NewestPeriodEnd returns the newest period_end among every baseline
// on file for (user, condition) - form and power alike - used by the
// evaluator's freshness check (spec.md §4.7 step 6, §9 open question:
// power is included deliberately, preserving the source's behaviour).
func (s *Store) NewestPeriodEnd(userID, conditionGroup string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDoc(userID, conditionGroup)
	if err != nil || len(doc.Baselines) == 0 {
		return time.Time{}, false
	}

	newest := doc.Baselines[0].PeriodEnd
	for _, b := range doc.Baselines[1:] {
		if b.PeriodEnd.After(newest) {
			newest = b.PeriodEnd
		}
	}
	return newest, true
}

// timeNow is a seam for tests; production code always wants wall
// clock time when stamping a new baseline.
var timeNow = time.Now
