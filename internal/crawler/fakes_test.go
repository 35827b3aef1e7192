package crawler

import (
	"context"
	"sync"
	"time"

	"hltvminer/internal/records"
	"hltvminer/internal/scrapers/hltv"
)

type fakeClock struct {
	mutex  sync.Mutex
	now    time.Time
	sleeps []time.Duration
	// onSleep is called after every sleep with the number of sleeps so far
	onSleep func(n int)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2019, 9, 8, 17, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	c.mutex.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	n := len(c.sleeps)
	onSleep := c.onSleep
	c.mutex.Unlock()

	if onSleep != nil {
		onSleep(n)
	}
	return ctx.Err()
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

type fakeSource struct {
	clock *fakeClock
	// pageCost is how long fetching a results page takes
	pageCost time.Duration
	pages    map[int][]hltv.MatchRef
	matches  map[int64]hltv.MatchResult

	requested []int
}

func (s *fakeSource) ResultsPage(ctx context.Context, page int) ([]hltv.MatchRef, error) {
	s.requested = append(s.requested, page)
	s.clock.Advance(s.pageCost)
	return s.pages[page], nil
}

func (s *fakeSource) Match(ctx context.Context, ref hltv.MatchRef) (hltv.MatchResult, error) {
	result, ok := s.matches[ref.ID]
	if !ok {
		return hltv.MatchResult{}, hltv.ErrNodeNotFound
	}
	return result, nil
}

type fakeStore struct {
	matches map[int64]records.Match
	maps    map[int64]records.Map
}

func newFakeStore(ids ...int64) *fakeStore {
	s := &fakeStore{
		matches: make(map[int64]records.Match),
		maps:    make(map[int64]records.Map),
	}
	for _, id := range ids {
		s.matches[id] = records.Match{ID: id}
	}
	return s
}

func (s *fakeStore) ExistsMatch(ctx context.Context, id int64) bool {
	_, ok := s.matches[id]
	return ok
}

func (s *fakeStore) InsertMatch(ctx context.Context, match records.Match) bool {
	if _, ok := s.matches[match.ID]; !ok {
		s.matches[match.ID] = match
	}
	return true
}

func (s *fakeStore) InsertMap(ctx context.Context, m records.Map) bool {
	if _, ok := s.maps[m.ID]; !ok {
		s.maps[m.ID] = m
	}
	return true
}

func (s *fakeStore) AllMatchIDs(ctx context.Context) []int64 {
	var ids []int64
	for id := range s.matches {
		ids = append(ids, id)
	}
	return ids
}

func refs(ids ...int64) []hltv.MatchRef {
	out := make([]hltv.MatchRef, len(ids))
	for i, id := range ids {
		out[i] = hltv.MatchRef{ID: id, URL: "/matches/" + filterKey(id) + "/x"}
	}
	return out
}
