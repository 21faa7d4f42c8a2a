package listings

import (
	"sort"

	"github.com/mavumo/jobbyist/internal/models"
)

// DefaultRetention is the persisted set's size bound.
const DefaultRetention = 100

// MergeStats accounts for every record that entered a merge.
type MergeStats struct {
	TotalExisting   int
	TotalNew        int
	InvalidExisting int
	InvalidNew      int
	Duplicate       int
	Added           int
	Truncated       int
	TotalOut        int
}

// InvalidSkipped returns the total invalid records dropped during the merge.
func (s MergeStats) InvalidSkipped() int {
	return s.InvalidExisting + s.InvalidNew
}

// Merge combines the previously persisted set with freshly scraped listings.
// Existing entries always win key collisions, the combined set is sorted by
// datePosted descending (stable on ties), and the result is truncated to
// bound. Pure function: deterministic, no IO.
func Merge(existing []models.Listing, incoming []models.Listing, bound int, mode KeyMode) ([]models.Listing, MergeStats) {
	stats := MergeStats{
		TotalExisting: len(existing),
		TotalNew:      len(incoming),
	}

	keys := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]models.Listing, 0, len(existing)+len(incoming))

	for _, l := range existing {
		key, ok := Key(l, mode)
		if !ok {
			stats.InvalidExisting++
			continue
		}
		if _, dup := keys[key]; dup {
			stats.Duplicate++
			continue
		}
		keys[key] = struct{}{}
		out = append(out, l)
	}

	for _, l := range incoming {
		key, ok := Key(l, mode)
		if !ok {
			stats.InvalidNew++
			continue
		}
		if _, dup := keys[key]; dup {
			stats.Duplicate++
			continue
		}
		keys[key] = struct{}{}
		out = append(out, l)
		stats.Added++
	}

	SortByDatePosted(out)

	if bound > 0 && len(out) > bound {
		stats.Truncated = len(out) - bound
		out = out[:bound]
	}

	stats.TotalOut = len(out)
	return out, stats
}

// SortByDatePosted orders listings newest first, preserving relative order on
// equal dates.
func SortByDatePosted(set []models.Listing) {
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].DatePosted.After(set[j].DatePosted.Time)
	})
}

// DiffStats accounts for an unseen-listings comparison.
type DiffStats struct {
	TotalNew      int
	TotalExisting int
	Invalid       int
	Unseen        int
}

// Diff returns the listings from fresh whose key does not appear in existing.
// Used by the offline listings utilities; the pipeline itself merges.
func Diff(fresh []models.Listing, existing []models.Listing, mode KeyMode) ([]models.Listing, DiffStats) {
	stats := DiffStats{
		TotalNew:      len(fresh),
		TotalExisting: len(existing),
	}

	known := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		key, ok := Key(l, mode)
		if !ok {
			stats.Invalid++
			continue
		}
		known[key] = struct{}{}
	}

	emitted := make(map[string]struct{}, len(fresh))
	unseen := make([]models.Listing, 0, len(fresh))
	for _, l := range fresh {
		key, ok := Key(l, mode)
		if !ok {
			stats.Invalid++
			continue
		}
		if _, dup := emitted[key]; dup {
			continue
		}
		emitted[key] = struct{}{}
		if _, seen := known[key]; seen {
			continue
		}
		unseen = append(unseen, l)
	}

	stats.Unseen = len(unseen)
	return unseen, stats
}
