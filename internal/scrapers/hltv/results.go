package hltv

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_results_page = "results.page"
)

const (
	resultsPath = "/results"
	// ResultsPerPage is the offset step of one results page.
	ResultsPerPage = 100
)

// MatchRef references a match found on a results page.
type MatchRef struct {
	ID  int64
	URL string
}

// ResultsPage returns the match references of a results page in document
// order. A negative page returns no references without fetching anything.
func (c *Client) ResultsPage(ctx context.Context, page int) ([]MatchRef, error) {
	if page < 0 {
		return nil, nil
	}

	c.tel.ReportDebug("parse results page", page)

	doc, err := c.fetch(ctx, resultsPath, map[string]string{
		"offset": strconv.Itoa(page * ResultsPerPage),
	})
	if err != nil {
		return nil, err
	}

	return c.parseResults(doc), nil
}

func (c *Client) parseResults(doc *goquery.Document) []MatchRef {
	var refs []MatchRef
	seen := make(map[int64]struct{})

	doc.Find("div.result-con > a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		ref, err := parseMatchRef(href)
		if err != nil {
			c.tel.ReportWarning(report_results_page, err)
			return
		}
		if _, duplicate := seen[ref.ID]; duplicate {
			return
		}
		seen[ref.ID] = struct{}{}
		refs = append(refs, ref)
	})

	return refs
}

// parseMatchRef reads the match id of a link like "/matches/2336135/a-vs-b".
func parseMatchRef(href string) (MatchRef, error) {
	segment, err := pathSegment(href, 2)
	if err != nil {
		return MatchRef{}, err
	}
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil {
		return MatchRef{}, fmt.Errorf("match id of %q: %w", href, err)
	}
	return MatchRef{ID: id, URL: href}, nil
}
