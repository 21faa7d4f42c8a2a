// Package pipeline sequences one aggregation run: fetch every (locale,
// source) pair, filter and normalize the cards, merge with the persisted set,
// and hand the result to persistence and publishing.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mavumo/jobbyist/internal/filter"
	"github.com/mavumo/jobbyist/internal/listings"
	"github.com/mavumo/jobbyist/internal/models"
	"github.com/mavumo/jobbyist/internal/normalize"
	"github.com/mavumo/jobbyist/internal/publish"
	"github.com/mavumo/jobbyist/internal/source"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single adapter invocation. A timeout is the same
// soft failure as an unreachable site.
const DefaultTimeout = 2 * time.Minute

// Options configures one run. Sources are processed in slice order, which
// fixes which record wins when two sources carry the same job.
type Options struct {
	Locales   []string
	Filters   models.Filters
	Sources   []source.Source
	Retention int
	KeyMode   listings.KeyMode
	Timeout   time.Duration

	DataPath string
	MetaPath string

	Publisher publish.Publisher
	Logger    zerolog.Logger

	// Now is the run's clock; tests pin it.
	Now func() time.Time
}

// SourceFailure records one adapter that could not deliver.
type SourceFailure struct {
	Site   string
	Locale string
	Err    error
}

// Summary is the operational signal a scheduler or log consumer reads after
// each run.
type Summary struct {
	Fetched        int
	FilteredOut    int
	DroppedInvalid int
	DedupedOut     int
	Added          int
	Total          int
	Sources        []string
	Failures       []SourceFailure
}

type task struct {
	src    source.Source
	locale string
}

type fetchResult struct {
	cards []models.RawCard
	err   error
}

// Run executes the full pipeline. Only persistence failure is fatal; source
// failures and publish failures are reported in the summary and logs.
func Run(ctx context.Context, opts Options) (Summary, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = listings.DefaultRetention
	}

	existing, err := listings.ReadAllowMissing(opts.DataPath)
	if err != nil {
		return Summary{}, fmt.Errorf("read persisted listings: %w", err)
	}

	tasks := make([]task, 0, len(opts.Locales)*len(opts.Sources))
	for _, locale := range opts.Locales {
		for _, src := range opts.Sources {
			tasks = append(tasks, task{src: src, locale: locale})
		}
	}

	// Fan out, but keep results in task order so dedup is deterministic:
	// the merge below must not start before every adapter finished or
	// soft-failed.
	results := make([]fetchResult, len(tasks))
	var wg sync.WaitGroup
	for i, tk := range tasks {
		wg.Add(1)
		go func(i int, tk task) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			cards, err := tk.src.Fetch(fetchCtx, tk.locale, opts.Filters)
			results[i] = fetchResult{cards: cards, err: err}
		}(i, tk)
	}
	wg.Wait()

	summary := Summary{Sources: sourceNames(opts.Sources)}
	var fresh []models.Listing
	runTime := now()

	for i, tk := range tasks {
		res := results[i]
		if res.err != nil {
			summary.Failures = append(summary.Failures, SourceFailure{
				Site:   tk.src.Name(),
				Locale: tk.locale,
				Err:    res.err,
			})
			opts.Logger.Warn().
				Str("source", tk.src.Name()).
				Str("locale", tk.locale).
				Err(res.err).
				Msg("source failed, continuing")
			continue
		}

		summary.Fetched += len(res.cards)
		for _, card := range res.cards {
			if !filter.Matches(card, opts.Filters) {
				summary.FilteredOut++
				continue
			}
			listing, err := normalize.Card(card, tk.src.Name(), tk.locale, "", runTime)
			if err != nil {
				summary.DroppedInvalid++
				opts.Logger.Debug().
					Str("source", tk.src.Name()).
					Err(err).
					Msg("card dropped")
				continue
			}
			fresh = append(fresh, listing)
		}
	}

	// fresh stays in adapter registration order going into the merge: the
	// first adapter to carry a key owns it. Merge sorts its output.
	merged, stats := listings.Merge(existing, fresh, retention, opts.KeyMode)
	summary.DedupedOut = stats.Duplicate
	summary.Added = stats.Added
	summary.Total = stats.TotalOut

	if err := listings.Write(opts.DataPath, merged); err != nil {
		return summary, fmt.Errorf("persist listings: %w", err)
	}

	if opts.MetaPath != "" {
		meta := listings.RunMetadata{
			LastUpdate: runTime,
			JobsAdded:  summary.Added,
			TotalJobs:  summary.Total,
			Sources:    summary.Sources,
		}
		if err := listings.WriteMetadata(opts.MetaPath, meta); err != nil {
			return summary, fmt.Errorf("persist metadata: %w", err)
		}
	}

	if opts.Publisher != nil {
		artifact, err := json.MarshalIndent(merged, "", "  ")
		if err != nil {
			return summary, fmt.Errorf("render artifact: %w", err)
		}
		message := fmt.Sprintf("Auto-update job listings (%d total)", summary.Total)
		if err := opts.Publisher.Publish(ctx, artifact, message); err != nil {
			// Local state is already safe; published state catches up
			// on the next run.
			opts.Logger.Error().Err(err).Msg("publish failed")
		}
	}

	opts.Logger.Info().
		Int("fetched", summary.Fetched).
		Int("filtered_out", summary.FilteredOut).
		Int("dropped_invalid", summary.DroppedInvalid).
		Int("deduped_out", summary.DedupedOut).
		Int("added", summary.Added).
		Int("total", summary.Total).
		Int("source_failures", len(summary.Failures)).
		Msg("run complete")

	return summary, nil
}

func sourceNames(sources []source.Source) []string {
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name())
	}
	return names
}
