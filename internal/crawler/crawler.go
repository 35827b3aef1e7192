// Package crawler drives the results page indexer, the store and the match
// extractor across successive pages.
package crawler

import (
	"context"
	"strconv"
	"time"

	"hltvminer/internal/components/assert"
	"hltvminer/internal/components/chrono"
	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/records"
	"hltvminer/internal/scrapers/hltv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"
)

const (
	report_crawler_results_page = "crawler.results-page"
	report_crawler_match        = "crawler.match"
	report_crawler_insert       = "crawler.insert"
	report_crawler_mined        = "crawler.mined"
	report_crawler_known        = "crawler.known"
	report_crawler_page         = "crawler.page"
)

const (
	DefaultBatchBudget    = 5 * time.Second
	DefaultKnownDecrement = 50 * time.Millisecond
)

// Source is the upstream the crawler mines from, it is implemented by
// *hltv.Client.
type Source interface {
	ResultsPage(ctx context.Context, page int) ([]hltv.MatchRef, error)
	Match(ctx context.Context, ref hltv.MatchRef) (hltv.MatchResult, error)
}

// Store is implemented by *store.Store.
type Store interface {
	ExistsMatch(ctx context.Context, id int64) bool
	InsertMatch(ctx context.Context, match records.Match) bool
	InsertMap(ctx context.Context, m records.Map) bool
	AllMatchIDs(ctx context.Context) []int64
}

type Options struct {
	StartPage int
	// BatchBudget is the nominal duration of one page.
	BatchBudget time.Duration
	// KnownDecrement shrinks the budget of a page for every match on it that
	// is already stored.
	KnownDecrement time.Duration
}

// BatchStats describes one processed results page.
type BatchStats struct {
	Page    int
	Refs    int
	Known   int
	Mined   int
	Failed  int
	Elapsed time.Duration
	Slept   time.Duration
}

type Crawler struct {
	source Source
	store  Store
	time   chrono.TimeAPI
	tel    telemetry.API
	opts   Options

	runID string
	known *bloom.BloomFilter
	mined int64
}

func New(source Source, store Store, clock chrono.TimeAPI, tel telemetry.API, opts Options) *Crawler {
	assert.NotNil(source)
	assert.NotNil(store)
	assert.NotNil(clock)
	assert.NotNil(tel)

	if opts.BatchBudget == 0 {
		opts.BatchBudget = DefaultBatchBudget
	}
	if opts.StartPage < 0 {
		opts.StartPage = 0
	}

	runID := uuid.NewString()
	return &Crawler{
		source: source,
		store:  store,
		time:   clock,
		tel:    telemetry.NewScopedAPI("crawler", tel),
		opts:   opts,
		runID:  runID,
		known:  bloom.NewWithEstimates(500000, 0.001),
	}
}

func (c *Crawler) RunID() string {
	return c.runID
}

func filterKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// seed adds every stored match id to the known filter.
func (c *Crawler) seed(ctx context.Context) {
	ids := c.store.AllMatchIDs(ctx)
	for _, id := range ids {
		c.known.AddString(filterKey(id))
	}
	c.tel.ReportCount(report_crawler_known, int64(len(ids)))
}

// isKnown checks the filter first so that ids that were never seen skip the
// existence query, a filter hit is confirmed against the store.
func (c *Crawler) isKnown(ctx context.Context, id int64) bool {
	if !c.known.TestString(filterKey(id)) {
		return false
	}
	return c.store.ExistsMatch(ctx, id)
}

// Run crawls successive results pages from the start page until ctx is done,
// it always returns ctx.Err().
func (c *Crawler) Run(ctx context.Context) error {
	c.tel.ReportDebug("start crawl", c.runID, c.opts.StartPage)
	c.seed(ctx)

	for page := c.opts.StartPage; ; page++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stats, err := c.Batch(ctx, page)
		c.tel.ReportDebug(
			report_crawler_page,
			c.runID,
			stats,
		)
		if err != nil {
			return err
		}
	}
}

// Batch processes a single results page and paces itself against the batch
// budget. It only returns an error if ctx was done.
func (c *Crawler) Batch(ctx context.Context, page int) (BatchStats, error) {
	stats := BatchStats{Page: page}
	start := c.time.Now()
	budget := c.opts.BatchBudget

	refs, err := c.source.ResultsPage(ctx, page)
	if err != nil {
		c.tel.ReportBroken(report_crawler_results_page, err, page)
	}
	stats.Refs = len(refs)

	for _, ref := range refs {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		if c.isKnown(ctx, ref.ID) {
			stats.Known++
			budget -= c.opts.KnownDecrement
			continue
		}

		if c.mine(ctx, ref) {
			stats.Mined++
		} else {
			stats.Failed++
		}
	}

	stats.Elapsed = c.time.Now().Sub(start)
	slept, err := pace(ctx, c.time, budget, stats.Elapsed)
	stats.Slept = slept
	return stats, err
}

// mine extracts and stores one match. The maps are stored before the match
// itself so that a stored match always has its maps.
func (c *Crawler) mine(ctx context.Context, ref hltv.MatchRef) bool {
	result, err := c.source.Match(ctx, ref)
	if err != nil {
		c.tel.ReportWarning(report_crawler_match, err, ref.URL)
		return false
	}

	for _, m := range result.Maps {
		if !c.store.InsertMap(ctx, m) {
			c.tel.ReportWarning(report_crawler_insert, "map", m.ID, ref.ID)
			return false
		}
	}
	if !c.store.InsertMatch(ctx, result.Match) {
		c.tel.ReportWarning(report_crawler_insert, "match", ref.ID)
		return false
	}

	c.known.AddString(filterKey(ref.ID))
	c.mined++
	c.tel.ReportCount(report_crawler_mined, c.mined)
	return true
}

// pace sleeps for what is left of budget after elapsed, it never sleeps a
// negative duration.
func pace(ctx context.Context, clock chrono.TimeAPI, budget, elapsed time.Duration) (time.Duration, error) {
	remaining := budget - elapsed
	if remaining <= 0 {
		return 0, ctx.Err()
	}
	err := clock.Sleep(ctx, remaining)
	return remaining, err
}
