package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"hltvminer/internal/components/telemetry"
	"hltvminer/internal/records"

	"github.com/stretchr/testify/require"
)

type fakeEventSource struct {
	pages     map[int][]records.Event
	err       error
	requested []int
}

func (s *fakeEventSource) EventsPage(ctx context.Context, page int) ([]records.Event, error) {
	s.requested = append(s.requested, page)
	if s.err != nil {
		return nil, s.err
	}
	return s.pages[page], nil
}

type fakeEventStore struct {
	events  map[string]records.Event
	batches int
}

func (s *fakeEventStore) ExistsEvent(ctx context.Context, name string) bool {
	_, ok := s.events[name]
	return ok
}

func (s *fakeEventStore) InsertEvents(ctx context.Context, events []records.Event) bool {
	s.batches++
	for _, event := range events {
		s.events[event.Name] = event
	}
	return true
}

func TestEventCrawlerStopsOnEmptyPage(t *testing.T) {
	source := &fakeEventSource{
		pages: map[int][]records.Event{
			0: {{Name: "a"}, {Name: "b"}},
			1: {{Name: "b"}, {Name: "c"}},
			2: {{Name: "known"}},
		},
	}
	st := &fakeEventStore{events: map[string]records.Event{"known": {Name: "known"}}}
	clock := newFakeClock()

	c := NewEventCrawler(source, st, clock, telemetry.NewRecorder(), EventOptions{BatchBudget: time.Second})
	mined, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, mined)
	require.Equal(t, []int{0, 1, 2, 3}, source.requested)
	require.Equal(t, 2, st.batches)
	require.Len(t, st.events, 4)
	require.Len(t, clock.Sleeps(), 3)
}

func TestEventCrawlerGivesUp(t *testing.T) {
	fetchErr := errors.New("unreachable")
	source := &fakeEventSource{err: fetchErr}
	st := &fakeEventStore{events: map[string]records.Event{}}
	tel := telemetry.NewRecorder()

	c := NewEventCrawler(source, st, newFakeClock(), tel, EventOptions{StartPage: 4, MaxFailures: 2})
	_, err := c.Run(context.Background())
	require.ErrorIs(t, err, fetchErr)
	require.Equal(t, []int{4, 5}, source.requested)
	require.True(t, tel.Has(telemetry.KindBroken, "events.page"))
}
