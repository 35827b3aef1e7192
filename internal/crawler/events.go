package crawler

import (
	"context"
	"time"

	"hltvminer/internal/components/assert"
	"hltvminer/internal/components/chrono"
	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/records"
)

const (
	report_events_page   = "events.page"
	report_events_insert = "events.insert"
	report_events_mined  = "events.mined"
)

const DefaultMaxFailures = 3

type EventSource interface {
	EventsPage(ctx context.Context, page int) ([]records.Event, error)
}

// EventStore is implemented by *store.Store.
type EventStore interface {
	ExistsEvent(ctx context.Context, name string) bool
	InsertEvents(ctx context.Context, events []records.Event) bool
}

type EventOptions struct {
	StartPage   int
	BatchBudget time.Duration
	// MaxFailures is the number of consecutive failed pages after which the
	// crawl gives up.
	MaxFailures int
}

// EventCrawler mines the event archive page by page until it reaches an
// empty page.
type EventCrawler struct {
	source EventSource
	store  EventStore
	time   chrono.TimeAPI
	tel    telemetry.API
	opts   EventOptions
}

func NewEventCrawler(source EventSource, store EventStore, clock chrono.TimeAPI, tel telemetry.API, opts EventOptions) *EventCrawler {
	assert.NotNil(source)
	assert.NotNil(store)
	assert.NotNil(clock)
	assert.NotNil(tel)

	if opts.BatchBudget == 0 {
		opts.BatchBudget = DefaultBatchBudget
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = DefaultMaxFailures
	}
	if opts.StartPage < 0 {
		opts.StartPage = 0
	}

	return &EventCrawler{
		source: source,
		store:  store,
		time:   clock,
		tel:    telemetry.NewScopedAPI("crawler", tel),
		opts:   opts,
	}
}

// Run returns the number of newly stored events.
func (c *EventCrawler) Run(ctx context.Context) (int, error) {
	var mined int
	failures := 0

	for page := c.opts.StartPage; ; page++ {
		if ctx.Err() != nil {
			return mined, ctx.Err()
		}
		start := c.time.Now()

		events, err := c.source.EventsPage(ctx, page)
		if err != nil {
			failures++
			c.tel.ReportBroken(report_events_page, err, page)
			if failures >= c.opts.MaxFailures {
				return mined, err
			}
		} else {
			failures = 0
			if len(events) == 0 {
				c.tel.ReportDebug("event archive exhausted", page)
				return mined, nil
			}

			var unknown []records.Event
			for _, event := range events {
				if c.store.ExistsEvent(ctx, event.Name) {
					continue
				}
				unknown = append(unknown, event)
			}
			if len(unknown) > 0 {
				if c.store.InsertEvents(ctx, unknown) {
					mined += len(unknown)
					c.tel.ReportCount(report_events_mined, int64(mined))
				} else {
					c.tel.ReportWarning(report_events_insert, page, len(unknown))
				}
			}
		}

		_, err = pace(ctx, c.time, c.opts.BatchBudget, c.time.Now().Sub(start))
		if err != nil {
			return mined, err
		}
	}
}
