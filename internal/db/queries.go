package db

import (
	"context"
)

const createMatch = `INSERT OR IGNORE INTO matches (match_id, match_time, event_name, map_ids)
VALUES (?, ?, ?, ?)`

type CreateMatchParams struct {
	MatchID   int64
	MatchTime string
	EventName string
	MapIds    string
}

func (q *Queries) CreateMatch(ctx context.Context, arg CreateMatchParams) error {
	_, err := q.db.ExecContext(ctx, createMatch,
		arg.MatchID,
		arg.MatchTime,
		arg.EventName,
		arg.MapIds,
	)
	return err
}

const matchExists = `SELECT EXISTS (SELECT 1 FROM matches WHERE match_id = ?)`

func (q *Queries) MatchExists(ctx context.Context, matchID int64) (bool, error) {
	row := q.db.QueryRowContext(ctx, matchExists, matchID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getMatch = `SELECT match_id, match_time, event_name, map_ids FROM matches WHERE match_id = ?`

func (q *Queries) GetMatch(ctx context.Context, matchID int64) (Match, error) {
	row := q.db.QueryRowContext(ctx, getMatch, matchID)
	var i Match
	err := row.Scan(
		&i.MatchID,
		&i.MatchTime,
		&i.EventName,
		&i.MapIds,
	)
	return i, err
}

const getAllMatchIds = `SELECT match_id FROM matches ORDER BY match_id`

func (q *Queries) GetAllMatchIds(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, getAllMatchIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getMatchEventNames = `SELECT DISTINCT event_name FROM matches ORDER BY event_name`

func (q *Queries) GetMatchEventNames(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, getMatchEventNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countMatches = `SELECT COUNT(*) FROM matches`

func (q *Queries) CountMatches(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMatches)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createMap = `INSERT OR IGNORE INTO maps (
    map_id, map_name, team1, team2,
    t1_first_half, t2_first_half, t1_second_half, t2_second_half,
    t1_overtime, t2_overtime, t1_start_side
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateMapParams struct {
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

func (q *Queries) CreateMap(ctx context.Context, arg CreateMapParams) error {
	_, err := q.db.ExecContext(ctx, createMap,
		arg.MapID,
		arg.MapName,
		arg.Team1,
		arg.Team2,
		arg.T1FirstHalf,
		arg.T2FirstHalf,
		arg.T1SecondHalf,
		arg.T2SecondHalf,
		arg.T1Overtime,
		arg.T2Overtime,
		arg.T1StartSide,
	)
	return err
}

const getMap = `SELECT
    map_id, map_name, team1, team2,
    t1_first_half, t2_first_half, t1_second_half, t2_second_half,
    t1_overtime, t2_overtime, t1_start_side
FROM maps WHERE map_id = ?`

func (q *Queries) GetMap(ctx context.Context, mapID int64) (Map, error) {
	row := q.db.QueryRowContext(ctx, getMap, mapID)
	var i Map
	err := row.Scan(
		&i.MapID,
		&i.MapName,
		&i.Team1,
		&i.Team2,
		&i.T1FirstHalf,
		&i.T2FirstHalf,
		&i.T1SecondHalf,
		&i.T2SecondHalf,
		&i.T1Overtime,
		&i.T2Overtime,
		&i.T1StartSide,
	)
	return i, err
}

const countMaps = `SELECT COUNT(*) FROM maps`

func (q *Queries) CountMaps(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMaps)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func (q *Queries) CreatePlayerStats(ctx context.Context, arg PlayerStats) error {
	args := make([]any, 0, 1+len(arg.Slots)*len(playerSlotColumns))
	args = append(args, arg.MapID)
	for _, slot := range arg.Slots {
		args = append(args, slot.values()...)
	}
	_, err := q.db.ExecContext(ctx, createPlayerStats, args...)
	return err
}

func (q *Queries) GetPlayerStats(ctx context.Context, mapID int64) (PlayerStats, error) {
	row := q.db.QueryRowContext(ctx, getPlayerStats, mapID)
	var i PlayerStats
	targets := make([]any, 0, 1+len(i.Slots)*len(playerSlotColumns))
	targets = append(targets, &i.MapID)
	for idx := range i.Slots {
		targets = append(targets, i.Slots[idx].scanTargets()...)
	}
	err := row.Scan(targets...)
	return i, err
}

const createEvent = `INSERT OR IGNORE INTO events (event_name, event_teams, event_prize, event_type)
VALUES (?, ?, ?, ?)`

type CreateEventParams struct {
	EventName  string
	EventTeams string
	EventPrize string
	EventType  string
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, createEvent,
		arg.EventName,
		arg.EventTeams,
		arg.EventPrize,
		arg.EventType,
	)
	return err
}

const eventExists = `SELECT EXISTS (SELECT 1 FROM events WHERE event_name = ?)`

func (q *Queries) EventExists(ctx context.Context, eventName string) (bool, error) {
	row := q.db.QueryRowContext(ctx, eventExists, eventName)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getEvent = `SELECT event_name, event_teams, event_prize, event_type FROM events WHERE event_name = ?`

func (q *Queries) GetEvent(ctx context.Context, eventName string) (Event, error) {
	row := q.db.QueryRowContext(ctx, getEvent, eventName)
	var i Event
	err := row.Scan(
		&i.EventName,
		&i.EventTeams,
		&i.EventPrize,
		&i.EventType,
	)
	return i, err
}

const getAllEvents = `SELECT event_name, event_teams, event_prize, event_type FROM events ORDER BY event_name`

func (q *Queries) GetAllEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, getAllEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(
			&i.EventName,
			&i.EventTeams,
			&i.EventPrize,
			&i.EventType,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
