package hltv

import (
	"context"
	"fmt"
	"strings"

	"hltvminer/internal/records"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/scrapers/hltv")

const (
	report_match_extract = "match.extract"
	report_match_maplink = "match.map-link"
)

// MaxMapsPerMatch is the largest played map count of a series, a larger
// score sum means the scores are the round counts of a best of one.
const MaxMapsPerMatch = 5

// MatchResult is everything extracted for one match.
type MatchResult struct {
	Match records.Match
	Maps  []records.Map
}

// PlayedMaps returns the number of maps played given the two displayed
// series scores.
func PlayedMaps(score1, score2 int64) int {
	played := score1 + score2
	if played > MaxMapsPerMatch {
		return 1
	}
	if played < 0 {
		return 0
	}
	return int(played)
}

// Match extracts a match, its maps and their player stats. Any map that
// cannot be extracted fails the whole match, so nothing partial is returned.
func (c *Client) Match(ctx context.Context, ref MatchRef) (MatchResult, error) {
	ctx, span := tracer.Start(ctx, "Match")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("match_id", ref.ID),
		attribute.String("url", ref.URL),
	)

	result, err := c.extractMatch(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_match_extract, err, ref.URL)
		return MatchResult{}, err
	}
	return result, nil
}

func (c *Client) extractMatch(ctx context.Context, ref MatchRef) (MatchResult, error) {
	c.tel.ReportDebug("parse match page", ref.URL)

	doc, err := c.fetch(ctx, ref.URL, nil)
	if err != nil {
		return MatchResult{}, err
	}

	detailed, err := findFirst(doc.Selection, "div.small-padding.stats-detailed-stats a[href]")
	if err != nil {
		return MatchResult{}, fmt.Errorf("detailed stats link: %w", err)
	}
	statsLink, _ := detailed.Attr("href")

	var scores [2]int64
	for i, selector := range []string{"div.team1-gradient", "div.team2-gradient"} {
		team, err := findFirst(doc.Selection, selector)
		if err != nil {
			return MatchResult{}, fmt.Errorf("series score: %w", err)
		}
		score, err := contentAt(team, 2)
		if err != nil {
			return MatchResult{}, fmt.Errorf("series score %s: %w", selector, err)
		}
		scores[i] = c.conv.Int(score.Text())
	}
	played := PlayedMaps(scores[0], scores[1])

	holders := doc.Find("div.mapholder")
	var mapLinks []string
	for i := 0; i < played; i++ {
		if i >= holders.Length() {
			c.tel.ReportWarning(report_match_maplink, notFound(fmt.Sprintf("mapholder %d", i)), ref.URL)
			continue
		}
		link, ok := holders.Eq(i).Find("a[href]").First().Attr("href")
		if !ok {
			c.tel.ReportDebug("map link missing", ref.URL, i)
			continue
		}
		mapLinks = append(mapLinks, link)
	}
	// a stored match must reference at least one map
	if len(mapLinks) == 0 {
		return MatchResult{}, notFound(fmt.Sprintf("map links (%d played)", played))
	}

	event, matchTime, err := c.matchInfo(ctx, statsLink)
	if err != nil {
		return MatchResult{}, err
	}

	result := MatchResult{
		Match: records.Match{
			ID:    ref.ID,
			Time:  matchTime,
			Event: event,
		},
	}
	for _, link := range mapLinks {
		m, err := c.MapStats(ctx, link)
		if err != nil {
			return MatchResult{}, err
		}
		result.Maps = append(result.Maps, m)
		result.Match.MapIDs = append(result.Match.MapIDs, m.ID)
	}

	return result, nil
}

// matchInfo reads the event name and match time from the detailed stats page.
func (c *Client) matchInfo(ctx context.Context, link string) (event, matchTime string, err error) {
	c.tel.ReportDebug("parse match stats page", link)

	doc, err := c.fetch(ctx, link, nil)
	if err != nil {
		return "", "", err
	}

	box, err := findFirst(doc.Selection, "div.match-info-box")
	if err != nil {
		return "", "", fmt.Errorf("match info: %w", err)
	}
	eventLink, err := findFirst(box, "a.block.text-ellipsis")
	if err != nil {
		return "", "", fmt.Errorf("match event: %w", err)
	}
	timeBox, err := findFirst(box, "div.small-text")
	if err != nil {
		return "", "", fmt.Errorf("match time: %w", err)
	}
	timeNode, err := contentAt(timeBox, 0)
	if err != nil {
		return "", "", fmt.Errorf("match time: %w", err)
	}

	return strings.TrimSpace(eventLink.Text()), strings.TrimSpace(timeNode.Text()), nil
}
