package hltv

import (
	"context"
	"strconv"
	"strings"

	"hltvminer/internal/records"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_events_page = "events.page"
)

const (
	eventsPath = "/events/archive"
	// EventsPerPage is the offset step of one event archive page.
	EventsPerPage = 50
)

// EventsPage returns the events of an event archive page, the descriptors
// are kept as the raw cell text. A negative page returns no events.
func (c *Client) EventsPage(ctx context.Context, page int) ([]records.Event, error) {
	if page < 0 {
		return nil, nil
	}

	c.tel.ReportDebug("parse events page", page)

	doc, err := c.fetch(ctx, eventsPath, map[string]string{
		"offset": strconv.Itoa(page * EventsPerPage),
	})
	if err != nil {
		return nil, err
	}

	return c.parseEvents(doc), nil
}

func (c *Client) parseEvents(doc *goquery.Document) []records.Event {
	var events []records.Event

	doc.Find("a.a-reset.small-event.standard-box").Each(func(i int, row *goquery.Selection) {
		event, err := parseEventRow(row)
		if err != nil {
			c.tel.ReportWarning(report_events_page, err, i)
			return
		}
		events = append(events, event)
	})

	return events
}

func parseEventRow(row *goquery.Selection) (records.Event, error) {
	cell := func(selector string) (string, error) {
		td, err := findFirst(row, selector)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(td.Text()), nil
	}

	name, err := cell("td.col-value.event-col")
	if err != nil {
		return records.Event{}, err
	}
	if name == "" {
		return records.Event{}, notFound("event name")
	}
	teams, err := cell(`td[class="col-value small-col"]`)
	if err != nil {
		return records.Event{}, err
	}
	prize, err := cell("td.col-value.small-col.prizePoolEllipsis")
	if err != nil {
		return records.Event{}, err
	}
	kind, err := cell("td.col-value.small-col.gtSmartphone-only")
	if err != nil {
		return records.Event{}, err
	}

	return records.Event{
		Name:  name,
		Teams: teams,
		Prize: prize,
		Type:  kind,
	}, nil
}
