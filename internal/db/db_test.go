package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t testing.TB) *sql.DB {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestPlayerStatColumnsMatchSchema(t *testing.T) {
	columns := PlayerStatColumns()
	require.Len(t, columns, PlayerStatSlots*9)
	require.Equal(t, "p0_name", columns[0])
	require.Equal(t, "p9_rating", columns[len(columns)-1])

	for _, column := range columns {
		require.True(t, strings.Contains(Schema, column+" "), column)
	}
}

func TestPlayerStatsRoundTrip(t *testing.T) {
	ctx := context.Background()
	qry := New(openTestDB(t))

	var stats PlayerStats
	stats.MapID = 93503
	for i := range stats.Slots {
		stats.Slots[i] = PlayerSlot{
			Name:          strings.Repeat("p", i+1),
			Kills:         int64(20 + i),
			Assists:       int64(i),
			Deaths:        int64(15 + i),
			Adr:           70.5 + float64(i),
			Headshots:     int64(10 + i),
			FlashAssists:  int64(i % 3),
			FirstKillDiff: int64(i - 5),
			Rating:        1.01 + float64(i)/100,
		}
	}
	require.NoError(t, qry.CreatePlayerStats(ctx, stats))

	got, err := qry.GetPlayerStats(ctx, 93503)
	require.NoError(t, err)
	require.Equal(t, stats, got)

	_, err = qry.GetPlayerStats(ctx, 1)
	require.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	failure := errors.New("fail")
	err := InTx(ctx, database, func(qry *Queries) error {
		err := qry.CreateMatch(ctx, CreateMatchParams{MatchID: 1, MatchTime: "2019-09-08 17:00", EventName: "e", MapIds: "1"})
		if err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	exists, err := New(database).MatchExists(ctx, 1)
	require.NoError(t, err)
	require.False(t, exists)

	err = InTx(ctx, database, func(qry *Queries) error {
		return qry.CreateMatch(ctx, CreateMatchParams{MatchID: 1, MatchTime: "2019-09-08 17:00", EventName: "e", MapIds: "1"})
	})
	require.NoError(t, err)

	exists, err = New(database).MatchExists(ctx, 1)
	require.NoError(t, err)
	require.True(t, exists)
}
