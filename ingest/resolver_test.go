package ingest

import (
	"errors"
	"testing"
	"time"
)

type fakeAnalyticalLookup struct {
	ids []int64
	err error
}

func (f fakeAnalyticalLookup) ActivityIDsForDate(time.Time) ([]int64, error) {
	return f.ids, f.err
}

type fakeRemoteDateLookup struct {
	ids []int64
	err error
}

func (f fakeRemoteDateLookup) GetActivitiesForDate(time.Time) ([]int64, error) {
	return f.ids, f.err
}

func TestResolveActivityIDFromAnalyticalStore(t *testing.T) {
	r := NewResolver(fakeAnalyticalLookup{ids: []int64{42}}, fakeRemoteDateLookup{})

	id, err := r.ResolveActivityID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
}

func TestResolveActivityIDFallsBackToRemote(t *testing.T) {
	r := NewResolver(fakeAnalyticalLookup{ids: nil}, fakeRemoteDateLookup{ids: []int64{7}})

	id, err := r.ResolveActivityID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}
}

func TestResolveActivityIDNoActivity(t *testing.T) {
	r := NewResolver(fakeAnalyticalLookup{}, fakeRemoteDateLookup{ids: nil})

	_, err := r.ResolveActivityID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNoActivity) {
		t.Errorf("err = %v, want ErrNoActivity", err)
	}
}

func TestResolveActivityIDAmbiguous(t *testing.T) {
	r := NewResolver(fakeAnalyticalLookup{}, fakeRemoteDateLookup{ids: []int64{1, 2}})

	_, err := r.ResolveActivityID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrAmbiguousActivity) {
		t.Errorf("err = %v, want ErrAmbiguousActivity", err)
	}
}

func TestResolveActivityIDRemoteErrorSurfaced(t *testing.T) {
	boom := errors.New("boom")
	r := NewResolver(fakeAnalyticalLookup{}, fakeRemoteDateLookup{err: boom})

	_, err := r.ResolveActivityID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}
