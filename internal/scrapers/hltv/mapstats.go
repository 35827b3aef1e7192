package hltv

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hltvminer/internal/records"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_map_reconcile = "map.reconcile"
)

// indexes of the raw child nodes of the score box, text separators included
//
// ex. <span>16</span> : <span>9</span> (<span class="ct-color">9</span> : ...
const (
	scoreT1Total      = 0
	scoreT2Total      = 2
	scoreT1FirstHalf  = 4
	scoreT2FirstHalf  = 6
	scoreT1SecondHalf = 8
	scoreT2SecondHalf = 10
	scoreOvertime     = 11
)

const (
	// statsTables is the number of team blocks of a map stats page.
	statsTables = 2
	// firstKillDiffOffset is the cell of a player row holding the first kill
	// differential, counted from the end.
	firstKillDiffOffset = -2
)

// MapStats extracts a map and its player stats from a map stats page, the
// map id is read from the link, ex. "/stats/matches/mapstatsid/93503/a-vs-b".
func (c *Client) MapStats(ctx context.Context, link string) (records.Map, error) {
	c.tel.ReportDebug("parse map stats page", link)

	idSegment, err := pathSegment(link, -2)
	if err != nil {
		return records.Map{}, fmt.Errorf("map id: %w", err)
	}
	id, err := strconv.ParseInt(idSegment, 10, 64)
	if err != nil {
		return records.Map{}, fmt.Errorf("map id of %q: %w", link, err)
	}

	doc, err := c.fetch(ctx, link, nil)
	if err != nil {
		return records.Map{}, err
	}

	m, err := c.parseMapStats(doc)
	if err != nil {
		return records.Map{}, fmt.Errorf("map %d: %w", id, err)
	}
	m.ID = id
	return m, nil
}

func (c *Client) parseMapStats(doc *goquery.Document) (records.Map, error) {
	var m records.Map

	box, err := findFirst(doc.Selection, "div.match-info-box-con")
	if err != nil {
		return m, err
	}

	m.Team1, err = teamName(box, "div.team-left")
	if err != nil {
		return m, err
	}
	m.Team2, err = teamName(box, "div.team-right")
	if err != nil {
		return m, err
	}

	smallText, err := findFirst(box, "div.small-text")
	if err != nil {
		return m, fmt.Errorf("map name: %w", err)
	}
	m.Name, err = nextText(smallText)
	if err != nil {
		return m, fmt.Errorf("map name: %w", err)
	}

	t1Total, t2Total, err := c.parseScore(box, &m)
	if err != nil {
		return m, err
	}

	m.Players, err = c.parsePlayers(doc)
	if err != nil {
		return m, err
	}

	got1, got2 := m.Totals()
	if got1 != t1Total || got2 != t2Total {
		c.tel.ReportWarning(
			report_map_reconcile,
			fmt.Errorf("round totals %d:%d do not match score %d:%d", got1, got2, t1Total, t2Total),
			m.Team1, m.Team2, m.Name,
		)
	}

	return m, nil
}

func teamName(box *goquery.Selection, selector string) (string, error) {
	team, err := findFirst(box, selector)
	if err != nil {
		return "", fmt.Errorf("team name: %w", err)
	}
	first, err := elementAt(team, 0)
	if err != nil {
		return "", fmt.Errorf("team name %s: %w", selector, err)
	}
	title, err := attr(first, "title")
	if err != nil {
		return "", fmt.Errorf("team name %s: %w", selector, err)
	}
	return strings.Trim(title, "\n"), nil
}

// parseScore fills the half, overtime and start side fields of m and returns
// the displayed map totals.
func (c *Client) parseScore(box *goquery.Selection, m *records.Map) (int64, int64, error) {
	row, err := findFirst(box, "div.match-info-row")
	if err != nil {
		return 0, 0, fmt.Errorf("score: %w", err)
	}
	score, err := findFirst(row, "div.right")
	if err != nil {
		return 0, 0, fmt.Errorf("score: %w", err)
	}

	read := func(i int) (int64, error) {
		node, err := contentAt(score, i)
		if err != nil {
			return 0, fmt.Errorf("score: %w", err)
		}
		return c.conv.Int(node.Text()), nil
	}

	fields := []struct {
		index int
		dst   *int64
	}{
		{scoreT1FirstHalf, &m.T1FirstHalf},
		{scoreT2FirstHalf, &m.T2FirstHalf},
		{scoreT1SecondHalf, &m.T1SecondHalf},
		{scoreT2SecondHalf, &m.T2SecondHalf},
	}
	t1Total, err := read(scoreT1Total)
	if err != nil {
		return 0, 0, err
	}
	t2Total, err := read(scoreT2Total)
	if err != nil {
		return 0, 0, err
	}
	for _, f := range fields {
		*f.dst, err = read(f.index)
		if err != nil {
			return 0, 0, err
		}
	}

	if t1Total > records.RegulationRounds || t2Total > records.RegulationRounds {
		node, err := contentAt(score, scoreOvertime)
		if err != nil {
			return 0, 0, fmt.Errorf("overtime: %w", err)
		}
		m.T1Overtime, m.T2Overtime = c.conv.IntPair(node.Text(), ":")
	}

	firstHalf, _ := contentAt(score, scoreT1FirstHalf)
	class, err := firstClass(firstHalf)
	if err != nil {
		return 0, 0, fmt.Errorf("start side: %w", err)
	}
	m.StartSide = records.ParseSide(class)

	return t1Total, t2Total, nil
}

func (c *Client) parsePlayers(doc *goquery.Document) ([records.PlayerSlots]records.PlayerStat, error) {
	var players [records.PlayerSlots]records.PlayerStat

	tables, err := findAll(doc.Selection, "table.stats-table", statsTables)
	if err != nil {
		return players, fmt.Errorf("player stats: %w", err)
	}

	for team := 0; team < statsTables; team++ {
		rows, err := findAll(tables.Eq(team), "tbody tr", records.SlotsPerTeam)
		if err != nil {
			return players, fmt.Errorf("player stats team %d: %w", team+1, err)
		}
		for i := 0; i < records.SlotsPerTeam; i++ {
			slot := team*records.SlotsPerTeam + i
			players[slot], err = c.parsePlayer(rows.Eq(i))
			if err != nil {
				return players, fmt.Errorf("player stats slot %d: %w", slot, err)
			}
		}
	}

	return players, nil
}

func (c *Client) parsePlayer(row *goquery.Selection) (records.PlayerStat, error) {
	var p records.PlayerStat

	cell := func(selector string) (string, error) {
		td, err := findFirst(row, selector)
		if err != nil {
			return "", err
		}
		return td.Text(), nil
	}

	name, err := findFirst(row, "a[href]")
	if err != nil {
		return p, err
	}
	p.Name = strings.TrimSpace(name.Text())

	kills, err := cell("td.st-kills")
	if err != nil {
		return p, err
	}
	// "kills (headshots)"
	p.Kills, p.Headshots = c.conv.IntPair(kills, " ")

	assists, err := cell("td.st-assists")
	if err != nil {
		return p, err
	}
	// "assists (flash assists)"
	p.Assists, p.FlashAssists = c.conv.IntPair(assists, " ")

	deaths, err := cell("td.st-deaths")
	if err != nil {
		return p, err
	}
	p.Deaths = c.conv.Int(deaths)

	adr, err := cell("td.st-adr")
	if err != nil {
		return p, err
	}
	p.ADR = c.conv.Float(adr)

	fkDiff, err := findAll(row, "td", -firstKillDiffOffset)
	if err != nil {
		return p, err
	}
	p.FirstKillDiff = c.conv.Int(fkDiff.Eq(fkDiff.Length() + firstKillDiffOffset).Text())

	rating, err := cell("td.st-rating")
	if err != nil {
		return p, err
	}
	p.Rating = c.conv.Float(rating)

	return p, nil
}
