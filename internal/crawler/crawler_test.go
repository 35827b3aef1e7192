package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/records"
	"hltvminer/internal/scrapers/hltv"
	"hltvminer/internal/store"

	"github.com/stretchr/testify/require"
)

func TestBatchSleepsRemainingBudget(t *testing.T) {
	clock := newFakeClock()
	source := &fakeSource{
		clock:    clock,
		pageCost: time.Second,
		pages:    map[int][]hltv.MatchRef{0: refs(1)},
		matches: map[int64]hltv.MatchResult{
			1: {Match: records.Match{ID: 1, MapIDs: []int64{10}}, Maps: []records.Map{{ID: 10}}},
		},
	}
	st := newFakeStore()
	c := New(source, st, clock, telemetry.NewRecorder(), Options{
		BatchBudget:    5 * time.Second,
		KnownDecrement: 50 * time.Millisecond,
	})

	stats, err := c.Batch(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Mined)
	require.Equal(t, time.Second, stats.Elapsed)
	require.Equal(t, 4*time.Second, stats.Slept)
	require.Equal(t, []time.Duration{4 * time.Second}, clock.Sleeps())
	require.Contains(t, st.maps, int64(10))
}

func TestBatchKnownMatchesShrinkBudget(t *testing.T) {
	clock := newFakeClock()
	source := &fakeSource{
		clock:    clock,
		pageCost: time.Second,
		pages:    map[int][]hltv.MatchRef{0: refs(1, 2, 3, 4)},
	}
	c := New(source, newFakeStore(1, 2, 3, 4), clock, telemetry.NewRecorder(), Options{
		BatchBudget:    5 * time.Second,
		KnownDecrement: 500 * time.Millisecond,
	})
	c.seed(context.Background())

	stats, err := c.Batch(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Known)
	require.Equal(t, 2*time.Second, stats.Slept)
}

func TestBatchNeverSleepsNegative(t *testing.T) {
	clock := newFakeClock()
	ids := make([]int64, 100)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	source := &fakeSource{
		clock: clock,
		pages: map[int][]hltv.MatchRef{0: refs(ids...)},
	}
	c := New(source, newFakeStore(ids...), clock, telemetry.NewRecorder(), Options{
		BatchBudget:    time.Second,
		KnownDecrement: 50 * time.Millisecond,
	})
	c.seed(context.Background())

	stats, err := c.Batch(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 100, stats.Known)
	require.Equal(t, time.Duration(0), stats.Slept)
	require.Empty(t, clock.Sleeps())
}

func TestBatchFailedMatchIsNotStored(t *testing.T) {
	clock := newFakeClock()
	source := &fakeSource{
		clock: clock,
		pages: map[int][]hltv.MatchRef{0: refs(7)},
	}
	st := newFakeStore()
	tel := telemetry.NewRecorder()
	c := New(source, st, clock, tel, Options{})

	stats, err := c.Batch(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Failed)
	require.Empty(t, st.matches)
	require.True(t, tel.Has(telemetry.KindWarning, "crawler.match"))
}

func TestRunAdvancesPagesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := newFakeClock()
	clock.onSleep = func(n int) {
		if n == 3 {
			cancel()
		}
	}
	source := &fakeSource{clock: clock}
	c := New(source, newFakeStore(), clock, telemetry.NewRecorder(), Options{StartPage: 7})
	require.NotEmpty(t, c.RunID())

	err := c.Run(ctx)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, []int{7, 8, 9}, source.requested)
}

func TestCrawlEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	testdata := filepath.Join("..", "scrapers", "hltv", "testdata")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var name string
		segments := strings.Split(r.URL.Path, "/")
		switch {
		case r.URL.Path == "/results":
			name = "results.html"
		case strings.HasPrefix(r.URL.Path, "/matches/2336135/"):
			name = "match_series.html"
		case strings.HasPrefix(r.URL.Path, "/stats/matches/mapstatsid/") && len(segments) > 4:
			name = "mapstats_" + segments[4] + ".html"
		case strings.HasPrefix(r.URL.Path, "/stats/matches/"):
			name = "match_stats.html"
		}
		body, err := os.ReadFile(filepath.Join(testdata, name))
		if name == "" || err != nil {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	defer server.Close()

	tel := telemetry.NewRecorder()
	st, err := store.Open(":memory:", tel)
	require.NoError(t, err)
	defer st.Close()

	client := hltv.NewClient(hltv.Options{BaseURL: server.URL, Timeout: 5 * time.Second}, tel)
	clock := newFakeClock()
	c := New(client, st, clock, tel, Options{})
	c.seed(ctx)

	stats, err := c.Batch(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Refs)
	require.Equal(t, 1, stats.Mined)
	require.Equal(t, 2, stats.Failed)

	require.Equal(t, int64(1), st.CountMatches(ctx))
	require.Equal(t, int64(3), st.CountMaps(ctx))

	match, ok := st.GetMatchByID(ctx, 2336135)
	require.True(t, ok)
	require.Equal(t, []int64{93503, 93504, 93505}, match.MapIDs)

	playerStats := st.GetPlayerStatsByMatchID(ctx, 2336135)
	require.Len(t, playerStats, 3)
	var slots int
	for _, players := range playerStats {
		for _, p := range players {
			require.NotEmpty(t, p.Name)
			slots++
		}
	}
	require.Equal(t, 30, slots)

	stats, err = c.Batch(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Known)
	require.Equal(t, 0, stats.Mined)
	require.Equal(t, int64(1), st.CountMatches(ctx))
}
