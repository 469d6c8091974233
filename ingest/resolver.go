package ingest

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoActivity and ErrAmbiguousActivity are the C9 resolver's failure
// modes (spec.md §4.9, §7: "Surface; user must disambiguate").
var (
	ErrNoActivity        = errors.New("ingest: no activity found for date")
	ErrAmbiguousActivity = errors.New("ingest: multiple activities found for date")
)

// AnalyticalLookup is the narrow analytical-store query the resolver
// needs: activity ids recorded for a given date.
type AnalyticalLookup interface {
	ActivityIDsForDate(date time.Time) ([]int64, error)
}

// RemoteDateLookup is the remote provider's get_activities_fordate
// call, used only when the analytical store has no record.
type RemoteDateLookup interface {
	GetActivitiesForDate(date time.Time) ([]int64, error)
}

// Resolver implements C9: resolve a calendar date to an activity id.
type Resolver struct {
	Store  AnalyticalLookup
	Remote RemoteDateLookup
}

// NewResolver constructs a Resolver.
func NewResolver(store AnalyticalLookup, remote RemoteDateLookup) *Resolver {
	return &Resolver{Store: store, Remote: remote}
}

// ResolveActivityID implements spec.md §4.9.
func (r *Resolver) ResolveActivityID(date time.Time) (int64, error) {
	ids, err := r.Store.ActivityIDsForDate(date)
	if err == nil && len(ids) == 1 {
		return ids[0], nil
	}

	remoteIDs, err := r.Remote.GetActivitiesForDate(date)
	if err != nil {
		return 0, fmt.Errorf("ingest: resolve activity for %s: %w", date.Format("2006-01-02"), err)
	}
	switch len(remoteIDs) {
	case 0:
		return 0, fmt.Errorf("%w: %s", ErrNoActivity, date.Format("2006-01-02"))
	case 1:
		return remoteIDs[0], nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrAmbiguousActivity, remoteIDs)
	}
}
