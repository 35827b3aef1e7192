// Package store is the durable, idempotent persistence of mined records.
//
// Every write is insert-or-ignore and every operation handles its own
// persistence error: the error is reported as broken and the operation
// returns a negative or empty result. Callers cannot tell "not found" apart
// from a storage failure.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hltvminer/internal/components/assert"
	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/db"
	"hltvminer/internal/records"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/store")

const (
	report_store_exists_match        = "store.exists-match"
	report_store_insert_match        = "store.insert-match"
	report_store_insert_map          = "store.insert-map"
	report_store_insert_player_stats = "store.insert-player-stats"
	report_store_insert_event        = "store.insert-event"
	report_store_exists_event        = "store.exists-event"
	report_store_get_match           = "store.get-match"
	report_store_get_map             = "store.get-map"
	report_store_get_player_stats    = "store.get-player-stats"
	report_store_get_event           = "store.get-event"
	report_store_get_all_events      = "store.get-all-events"
	report_store_all_match_ids       = "store.all-match-ids"
	report_store_match_events        = "store.match-events"
	report_store_count               = "store.count"
	report_store_close               = "store.close"
)

type Store struct {
	db  *sql.DB
	qry *db.Queries
	tel telemetry.API
}

// New wraps an already migrated database, see db.Open.
func New(database *sql.DB, tel telemetry.API) *Store {
	assert.NotNil(database)
	assert.NotNil(tel)

	return &Store{
		db:  database,
		qry: db.New(database),
		tel: telemetry.NewScopedAPI("store", tel),
	}
}

// Open opens the database at path and wraps it in a Store.
func Open(path string, tel telemetry.API) (*Store, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return New(database, tel), nil
}

func (s *Store) Close() error {
	err := s.db.Close()
	if err != nil {
		s.tel.ReportBroken(report_store_close, err)
	}
	return err
}

// reportRead reports err unless it is the absent row sentinel.
func (s *Store) reportRead(id string, err error, params ...any) {
	if errors.Is(err, sql.ErrNoRows) {
		s.tel.ReportDebug("not found", append([]any{id}, params...)...)
		return
	}
	s.tel.ReportBroken(id, append([]any{err}, params...)...)
}

func (s *Store) ExistsMatch(ctx context.Context, id int64) bool {
	exists, err := s.qry.MatchExists(ctx, id)
	if err != nil {
		s.tel.ReportBroken(report_store_exists_match, err, id)
		return false
	}
	return exists
}

func (s *Store) InsertMatch(ctx context.Context, match records.Match) bool {
	err := s.qry.CreateMatch(ctx, db.CreateMatchParams{
		MatchID:   match.ID,
		MatchTime: match.Time,
		EventName: match.Event,
		MapIds:    records.EncodeMapIDs(match.MapIDs),
	})
	if err != nil {
		s.tel.ReportBroken(report_store_insert_match, err, match.ID)
		return false
	}
	return true
}

// InsertMap inserts the map and its ten player stat slots as one unit.
func (s *Store) InsertMap(ctx context.Context, m records.Map) bool {
	ctx, span := tracer.Start(ctx, "InsertMap")
	defer span.End()
	span.SetAttributes(attribute.Int64("map_id", m.ID))

	err := db.InTx(ctx, s.db, func(qry *db.Queries) error {
		err := qry.CreateMap(ctx, mapParams(m))
		if err != nil {
			return fmt.Errorf("create map: %w", err)
		}
		err = qry.CreatePlayerStats(ctx, playerStatsRow(m.ID, m.Players))
		if err != nil {
			return fmt.Errorf("create player stats: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportBroken(report_store_insert_map, err, m.ID)
		return false
	}
	return true
}

func (s *Store) InsertPlayerStats(ctx context.Context, mapID int64, players [records.PlayerSlots]records.PlayerStat) bool {
	err := s.qry.CreatePlayerStats(ctx, playerStatsRow(mapID, players))
	if err != nil {
		s.tel.ReportBroken(report_store_insert_player_stats, err, mapID)
		return false
	}
	return true
}

func (s *Store) InsertEvent(ctx context.Context, event records.Event) bool {
	err := s.qry.CreateEvent(ctx, db.CreateEventParams{
		EventName:  event.Name,
		EventTeams: event.Teams,
		EventPrize: event.Prize,
		EventType:  event.Type,
	})
	if err != nil {
		s.tel.ReportBroken(report_store_insert_event, err, event.Name)
		return false
	}
	return true
}

// InsertEvents inserts a batch of events in a single transaction, it returns
// false if nothing was committed.
func (s *Store) InsertEvents(ctx context.Context, events []records.Event) bool {
	err := db.InTx(ctx, s.db, func(qry *db.Queries) error {
		for _, event := range events {
			err := qry.CreateEvent(ctx, db.CreateEventParams{
				EventName:  event.Name,
				EventTeams: event.Teams,
				EventPrize: event.Prize,
				EventType:  event.Type,
			})
			if err != nil {
				return fmt.Errorf("create event %q: %w", event.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		s.tel.ReportBroken(report_store_insert_event, err, len(events))
		return false
	}
	return true
}

func (s *Store) ExistsEvent(ctx context.Context, name string) bool {
	exists, err := s.qry.EventExists(ctx, name)
	if err != nil {
		s.tel.ReportBroken(report_store_exists_event, err, name)
		return false
	}
	return exists
}

func (s *Store) GetMatchByID(ctx context.Context, id int64) (records.Match, bool) {
	row, err := s.qry.GetMatch(ctx, id)
	if err != nil {
		s.reportRead(report_store_get_match, err, id)
		return records.Match{}, false
	}
	return records.Match{
		ID:     row.MatchID,
		Time:   row.MatchTime,
		Event:  row.EventName,
		MapIDs: records.DecodeMapIDs(row.MapIds),
	}, true
}

// GetMapByID returns the map along with its player stats, a map whose player
// stats are missing is returned with zero value slots.
func (s *Store) GetMapByID(ctx context.Context, id int64) (records.Map, bool) {
	row, err := s.qry.GetMap(ctx, id)
	if err != nil {
		s.reportRead(report_store_get_map, err, id)
		return records.Map{}, false
	}
	m := records.Map{
		ID:           row.MapID,
		Name:         row.MapName,
		Team1:        row.Team1,
		Team2:        row.Team2,
		T1FirstHalf:  row.T1FirstHalf,
		T2FirstHalf:  row.T2FirstHalf,
		T1SecondHalf: row.T1SecondHalf,
		T2SecondHalf: row.T2SecondHalf,
		T1Overtime:   row.T1Overtime,
		T2Overtime:   row.T2Overtime,
		StartSide:    records.Side(row.T1StartSide),
	}
	players, ok := s.GetPlayerStatsByMapID(ctx, id)
	if ok {
		m.Players = players
	}
	return m, true
}

// GetMapsByMatchID dereferences the map ids of a match, maps that are not
// stored are left out.
func (s *Store) GetMapsByMatchID(ctx context.Context, matchID int64) []records.Map {
	match, ok := s.GetMatchByID(ctx, matchID)
	if !ok {
		return nil
	}
	var maps []records.Map
	for _, id := range match.MapIDs {
		m, ok := s.GetMapByID(ctx, id)
		if !ok {
			continue
		}
		maps = append(maps, m)
	}
	return maps
}

func (s *Store) GetPlayerStatsByMapID(ctx context.Context, mapID int64) ([records.PlayerSlots]records.PlayerStat, bool) {
	var players [records.PlayerSlots]records.PlayerStat
	row, err := s.qry.GetPlayerStats(ctx, mapID)
	if err != nil {
		s.reportRead(report_store_get_player_stats, err, mapID)
		return players, false
	}
	for i, slot := range row.Slots {
		players[i] = records.PlayerStat{
			Name:          slot.Name,
			Kills:         slot.Kills,
			Assists:       slot.Assists,
			Deaths:        slot.Deaths,
			ADR:           slot.Adr,
			Headshots:     slot.Headshots,
			FlashAssists:  slot.FlashAssists,
			FirstKillDiff: slot.FirstKillDiff,
			Rating:        slot.Rating,
		}
	}
	return players, true
}

// GetPlayerStatsByMatchID returns the player stats of every stored map of a
// match keyed by map id.
func (s *Store) GetPlayerStatsByMatchID(ctx context.Context, matchID int64) map[int64][records.PlayerSlots]records.PlayerStat {
	match, ok := s.GetMatchByID(ctx, matchID)
	if !ok {
		return nil
	}
	result := make(map[int64][records.PlayerSlots]records.PlayerStat, len(match.MapIDs))
	for _, id := range match.MapIDs {
		players, ok := s.GetPlayerStatsByMapID(ctx, id)
		if !ok {
			continue
		}
		result[id] = players
	}
	return result
}

func (s *Store) GetEventByName(ctx context.Context, name string) (records.Event, bool) {
	row, err := s.qry.GetEvent(ctx, name)
	if err != nil {
		s.reportRead(report_store_get_event, err, name)
		return records.Event{}, false
	}
	return eventRecord(row), true
}

func (s *Store) GetAllEvents(ctx context.Context) []records.Event {
	rows, err := s.qry.GetAllEvents(ctx)
	if err != nil {
		s.tel.ReportBroken(report_store_get_all_events, err)
		return nil
	}
	events := make([]records.Event, len(rows))
	for i, row := range rows {
		events[i] = eventRecord(row)
	}
	return events
}

// AllMatchIDs returns the id of every stored match.
func (s *Store) AllMatchIDs(ctx context.Context) []int64 {
	ids, err := s.qry.GetAllMatchIds(ctx)
	if err != nil {
		s.tel.ReportBroken(report_store_all_match_ids, err)
		return nil
	}
	return ids
}

// MatchEventNames returns the distinct event names referenced by stored
// matches, sorted.
func (s *Store) MatchEventNames(ctx context.Context) []string {
	names, err := s.qry.GetMatchEventNames(ctx)
	if err != nil {
		s.tel.ReportBroken(report_store_match_events, err)
		return nil
	}
	return names
}

func (s *Store) CountMatches(ctx context.Context) int64 {
	count, err := s.qry.CountMatches(ctx)
	if err != nil {
		s.tel.ReportBroken(report_store_count, err, "matches")
		return 0
	}
	return count
}

func (s *Store) CountMaps(ctx context.Context) int64 {
	count, err := s.qry.CountMaps(ctx)
	if err != nil {
		s.tel.ReportBroken(report_store_count, err, "maps")
		return 0
	}
	return count
}

func mapParams(m records.Map) db.CreateMapParams {
	side := m.StartSide
	if side != records.SideCT {
		side = records.SideT
	}
	return db.CreateMapParams{
		MapID:        m.ID,
		MapName:      m.Name,
		Team1:        m.Team1,
		Team2:        m.Team2,
		T1FirstHalf:  m.T1FirstHalf,
		T2FirstHalf:  m.T2FirstHalf,
		T1SecondHalf: m.T1SecondHalf,
		T2SecondHalf: m.T2SecondHalf,
		T1Overtime:   m.T1Overtime,
		T2Overtime:   m.T2Overtime,
		T1StartSide:  string(side),
	}
}

func playerStatsRow(mapID int64, players [records.PlayerSlots]records.PlayerStat) db.PlayerStats {
	row := db.PlayerStats{MapID: mapID}
	for i, p := range players {
		row.Slots[i] = db.PlayerSlot{
			Name:          p.Name,
			Kills:         p.Kills,
			Assists:       p.Assists,
			Deaths:        p.Deaths,
			Adr:           p.ADR,
			Headshots:     p.Headshots,
			FlashAssists:  p.FlashAssists,
			FirstKillDiff: p.FirstKillDiff,
			Rating:        p.Rating,
		}
	}
	return row
}

func eventRecord(row db.Event) records.Event {
	return records.Event{
		Name:  row.EventName,
		Teams: row.EventTeams,
		Prize: row.EventPrize,
		Type:  row.EventType,
	}
}
