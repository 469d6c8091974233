package modelstore

import (
	"testing"
	"time"

	"formbaseline/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestUpsertBaselineReplacesSameKey(t *testing.T) {
	store := New(t.TempDir())
	base := domain.Baseline{
		UserID:         "u1",
		ConditionGroup: "flat_road",
		Metric:         domain.MetricGCT,
		PeriodStart:    mustDate(t, "2026-01-01"),
		PeriodEnd:      mustDate(t, "2026-03-01"),
		NSamples:       10,
	}
	if err := store.UpsertBaseline(base); err != nil {
		t.Fatalf("UpsertBaseline() error: %v", err)
	}
	base.NSamples = 20
	if err := store.UpsertBaseline(base); err != nil {
		t.Fatalf("UpsertBaseline() replace error: %v", err)
	}

	doc, err := store.readDoc("u1", "flat_road")
	if err != nil {
		t.Fatalf("readDoc() error: %v", err)
	}
	if len(doc.Baselines) != 1 {
		t.Fatalf("expected 1 baseline after replace, got %d", len(doc.Baselines))
	}
	if doc.Baselines[0].NSamples != 20 {
		t.Fatalf("expected replaced n_samples=20, got %d", doc.Baselines[0].NSamples)
	}
}

func TestLoadModelsCoveringRequiresAllThreeMetrics(t *testing.T) {
	store := New(t.TempDir())
	periodEnd := mustDate(t, "2026-03-01")
	for _, m := range []domain.Metric{domain.MetricGCT, domain.MetricVO} {
		b := domain.Baseline{
			UserID: "u1", ConditionGroup: "flat_road", Metric: m,
			PeriodStart: mustDate(t, "2026-01-01"), PeriodEnd: periodEnd,
		}
		if err := store.UpsertBaseline(b); err != nil {
			t.Fatalf("UpsertBaseline() error: %v", err)
		}
	}

	_, err := store.LoadModelsCovering("u1", "flat_road", mustDate(t, "2026-03-15"))
	if err != ErrIncompleteBaseline {
		t.Fatalf("expected ErrIncompleteBaseline, got %v", err)
	}
}

func TestLoadModelsCoveringPicksMaxPeriodEndNotAfterActivity(t *testing.T) {
	store := New(t.TempDir())
	older := mustDate(t, "2026-02-01")
	newer := mustDate(t, "2026-03-01")
	for _, periodEnd := range []time.Time{older, newer} {
		for _, m := range []domain.Metric{domain.MetricGCT, domain.MetricVO, domain.MetricVR} {
			b := domain.Baseline{
				UserID: "u1", ConditionGroup: "flat_road", Metric: m,
				PeriodStart: periodEnd.AddDate(0, -2, 0), PeriodEnd: periodEnd,
				NSamples: int(periodEnd.Unix() % 1000),
			}
			if err := store.UpsertBaseline(b); err != nil {
				t.Fatalf("UpsertBaseline() error: %v", err)
			}
		}
	}

	got, err := store.LoadModelsCovering("u1", "flat_road", mustDate(t, "2026-03-15"))
	if err != nil {
		t.Fatalf("LoadModelsCovering() error: %v", err)
	}
	if !got.GCT.PeriodEnd.Equal(newer) {
		t.Fatalf("expected newer period_end %v, got %v", newer, got.GCT.PeriodEnd)
	}

	// Activity dated before the newer period_end must fall back to the older row.
	got, err = store.LoadModelsCovering("u1", "flat_road", mustDate(t, "2026-02-15"))
	if err != nil {
		t.Fatalf("LoadModelsCovering() error: %v", err)
	}
	if !got.GCT.PeriodEnd.Equal(older) {
		t.Fatalf("expected older period_end %v, got %v", older, got.GCT.PeriodEnd)
	}
}

func TestLoadModelsCoveringNoBaselineFound(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.LoadModelsCovering("nobody", "flat_road", mustDate(t, "2026-03-15"))
	if err != ErrNoBaselineFound {
		t.Fatalf("expected ErrNoBaselineFound, got %v", err)
	}
}

func TestLoadPowerBaselineMostRecentNotAfterActivity(t *testing.T) {
	store := New(t.TempDir())
	for _, start := range []string{"2026-01-01", "2026-02-01", "2026-03-01"} {
		b := domain.Baseline{
			UserID: "u1", ConditionGroup: "flat_road", Metric: domain.MetricPower,
			PeriodStart: mustDate(t, start), PeriodEnd: mustDate(t, start).AddDate(0, 2, 0),
		}
		if err := store.UpsertBaseline(b); err != nil {
			t.Fatalf("UpsertBaseline() error: %v", err)
		}
	}

	got, ok := store.LoadPowerBaseline("u1", "flat_road", mustDate(t, "2026-02-15"))
	if !ok {
		t.Fatalf("expected a power baseline")
	}
	if !got.PeriodStart.Equal(mustDate(t, "2026-02-01")) {
		t.Fatalf("expected period_start 2026-02-01, got %v", got.PeriodStart)
	}

	_, ok = store.LoadPowerBaseline("u1", "flat_road", mustDate(t, "2025-12-01"))
	if ok {
		t.Fatalf("expected no power baseline before any period_start")
	}
}
