package db

import (
	"fmt"
	"strings"
)

type Match struct {
	MatchID   int64
	MatchTime string
	EventName string
	MapIds    string
}

type Map struct {
	MapID        int64
	MapName      string
	Team1        string
	Team2        string
	T1FirstHalf  int64
	T2FirstHalf  int64
	T1SecondHalf int64
	T2SecondHalf int64
	T1Overtime   int64
	T2Overtime   int64
	T1StartSide  string
}

type Event struct {
	EventName  string
	EventTeams string
	EventPrize string
	EventType  string
}

// PlayerSlot is one repeated group of the player_stats table.
type PlayerSlot struct {
	Name          string
	Kills         int64
	Assists       int64
	Deaths        int64
	Adr           float64
	Headshots     int64
	FlashAssists  int64
	FirstKillDiff int64
	Rating        float64
}

const PlayerStatSlots = 10

type PlayerStats struct {
	MapID int64
	Slots [PlayerStatSlots]PlayerSlot
}

// playerSlotColumns is the column order of a single slot group, it must match
// the order of PlayerSlot.values and PlayerSlot.scanTargets.
var playerSlotColumns = []string{
	"name",
	"kills",
	"assists",
	"deaths",
	"adr",
	"headshots",
	"flash_assists",
	"first_kill_diff",
	"rating",
}

func (p PlayerSlot) values() []any {
	return []any{
		p.Name,
		p.Kills,
		p.Assists,
		p.Deaths,
		p.Adr,
		p.Headshots,
		p.FlashAssists,
		p.FirstKillDiff,
		p.Rating,
	}
}

func (p *PlayerSlot) scanTargets() []any {
	return []any{
		&p.Name,
		&p.Kills,
		&p.Assists,
		&p.Deaths,
		&p.Adr,
		&p.Headshots,
		&p.FlashAssists,
		&p.FirstKillDiff,
		&p.Rating,
	}
}

// PlayerStatColumns returns every player_stats column after map_id, in slot order.
func PlayerStatColumns() []string {
	columns := make([]string, 0, PlayerStatSlots*len(playerSlotColumns))
	for slot := 0; slot < PlayerStatSlots; slot++ {
		for _, name := range playerSlotColumns {
			columns = append(columns, fmt.Sprintf("p%d_%s", slot, name))
		}
	}
	return columns
}

var (
	createPlayerStats string
	getPlayerStats    string
)

func init() {
	columns := PlayerStatColumns()
	placeholders := strings.Repeat(", ?", len(columns))

	createPlayerStats = fmt.Sprintf(
		"INSERT OR IGNORE INTO player_stats (map_id, %s) VALUES (?%s)",
		strings.Join(columns, ", "),
		placeholders,
	)
	getPlayerStats = fmt.Sprintf(
		"SELECT map_id, %s FROM player_stats WHERE map_id = ?",
		strings.Join(columns, ", "),
	)
}
