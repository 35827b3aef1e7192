package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/config"
	"hltvminer/internal/records"
	"hltvminer/internal/store"

	"github.com/stretchr/testify/require"
)

func setupDatabase(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "hltv.db")
	t.Setenv(config.EnvDatabase, path)

	ctx := context.Background()
	st, err := store.Open(path, telemetry.NewRecorder())
	require.NoError(t, err)
	defer st.Close()

	require.True(t, st.InsertMap(ctx, records.Map{
		ID:           93503,
		Name:         "Inferno",
		Team1:        "Astralis",
		Team2:        "Liquid",
		T1FirstHalf:  9,
		T2FirstHalf:  6,
		T1SecondHalf: 7,
		T2SecondHalf: 3,
		StartSide:    records.SideCT,
	}))
	require.True(t, st.InsertMatch(ctx, records.Match{
		ID:     42,
		Time:   "2019-09-08 17:00",
		Event:  "ESL One New York 2019",
		MapIDs: []int64{93503},
	}))
	require.True(t, st.InsertMatch(ctx, records.Match{
		ID:     43,
		Time:   "2019-09-09 17:00",
		Event:  "zzz",
		MapIDs: []int64{93504},
	}))
	require.True(t, st.InsertEvent(ctx, records.Event{
		Name:  "ESL One: New York 2019",
		Teams: "8",
		Prize: "$250,000",
		Type:  "Intl. LAN",
	}))

	return filepath.Join(t.TempDir(), "config.json5")
}

func run(t *testing.T, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	err := execute(ctx, args)
	return out.String(), err
}

func TestShowMatch(t *testing.T) {
	configFile := setupDatabase(t)

	out, err := run(t, "--config", configFile, "show", "match", "42")
	require.NoError(t, err)
	require.Contains(t, out, "match 42, 2019-09-08 17:00, ESL One New York 2019 (stored as \"ESL One: New York 2019\"")
	require.Contains(t, out, "Inferno (93503) Astralis 16:9 Liquid, Astralis starts CT and plays T in the second half")
}

func TestShowMatchErrors(t *testing.T) {
	configFile := setupDatabase(t)

	_, err := run(t, "--config", configFile, "show", "match", "abc")
	require.ErrorContains(t, err, "invalid match id")

	_, err = run(t, "--config", configFile, "show", "match", "7")
	require.ErrorContains(t, err, "match 7 is not stored")
}

func TestShowLinks(t *testing.T) {
	configFile := setupDatabase(t)

	out, err := run(t, "--config", configFile, "show", "links")
	require.NoError(t, err)
	require.Contains(t, out, "ESL One: New York 2019")
	require.Regexp(t, `zzz\s+\S\s+-`, out)
}
