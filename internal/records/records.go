// Package records holds the fixed-schema records mined from hltv.
package records

import (
	"strings"

	"hltvminer/internal/components/assert"
)

// Side is the starting tactical side of team 1 on a map.
type Side string

const (
	SideCT Side = "ct"
	SideT  Side = "t"
)

// ParseSide maps a score cell class token to a side, anything that is not
// exactly the ct token is treated as T.
func ParseSide(class string) Side {
	if class == "ct-color" {
		return SideCT
	}
	return SideT
}

func (s Side) Opposite() Side {
	if s == SideCT {
		return SideT
	}
	return SideCT
}

func (s Side) String() string {
	return strings.ToUpper(string(s))
}

// Match is one played contest between two teams.
type Match struct {
	ID int64
	// Time is formatted as "YYYY-MM-DD HH:MM".
	Time string
	// Event is a logical reference to Event.Name, it is not enforced on insert.
	Event  string
	MapIDs []int64
}

const (
	// SlotsPerTeam is the number of player rows in each team block of a map.
	SlotsPerTeam = 5
	// PlayerSlots is the number of player stat slots per map, slots
	// [0, SlotsPerTeam) belong to team 1 and the rest to team 2.
	PlayerSlots = SlotsPerTeam * 2
)

// PlayerStat is the stat line of one player slot on a map.
type PlayerStat struct {
	Name          string
	Kills         int64
	Assists       int64
	Deaths        int64
	ADR           float64
	Headshots     int64
	FlashAssists  int64
	FirstKillDiff int64
	Rating        float64
}

// Map is one played game instance within a match.
type Map struct {
	ID           int64
	Name         string
	Team1        string
	Team2        string
	T1FirstHalf  int64
	T2FirstHalf  int64
	T1SecondHalf int64
	T2SecondHalf int64
	// T1Overtime and T2Overtime are zero unless either team's total exceeds
	// RegulationRounds.
	T1Overtime int64
	T2Overtime int64
	StartSide  Side
	Players    [PlayerSlots]PlayerStat
}

// RegulationRounds is the round count above which a map went to overtime.
const RegulationRounds = 16

// Totals returns the reconciled round totals of each team.
func (m Map) Totals() (int64, int64) {
	return m.T1FirstHalf + m.T1SecondHalf + m.T1Overtime,
		m.T2FirstHalf + m.T2SecondHalf + m.T2Overtime
}

// Team returns the team name a player slot belongs to.
func (m Map) Team(slot int) string {
	assert.InRange(slot, 0, PlayerSlots)
	if slot < SlotsPerTeam {
		return m.Team1
	}
	return m.Team2
}

// Event is a historical tournament.
type Event struct {
	Name string
	// Teams is a numeric descriptor or "N+".
	Teams string
	// Prize is a money descriptor or "Other".
	Prize string
	Type  string
}
