package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/yotei/internal/config"
)

type fakeSource struct {
	calendars map[string]string
	events    map[string][]Event
	err       error
	calls     []string
}

func (f *fakeSource) ListCalendars(context.Context) (map[string]string, error) {
	f.calls = append(f.calls, "calendars")
	if f.err != nil {
		return nil, f.err
	}
	return f.calendars, nil
}

func (f *fakeSource) ListEvents(_ context.Context, calendarID string, _, _ time.Time) ([]Event, error) {
	f.calls = append(f.calls, calendarID)
	if f.err != nil {
		return nil, f.err
	}
	return f.events[calendarID], nil
}

type fakeFactory struct {
	sources map[string]*fakeSource
	opened  []string
}

func (f *fakeFactory) open(_ context.Context, account string) (Source, error) {
	f.opened = append(f.opened, account)
	src, ok := f.sources[account]
	if !ok {
		return nil, fmt.Errorf("no credentials for %s", account)
	}
	return src, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func timed(summary, rfc3339 string) Event {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		panic(err)
	}
	return Event{Summary: summary, Start: DateTimeStart{Time: t, raw: rfc3339}}
}

func allDay(summary, date string) Event {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Event{Summary: summary, Start: NewDateStart(d)}
}

func TestAggregator_Upcoming(t *testing.T) {
	factory := &fakeFactory{sources: map[string]*fakeSource{
		"work": {events: map[string][]Event{
			"primary": {timed("standup", "2024-03-10T09:30:00+09:00"), timed("review", "2024-03-11T15:00:00+09:00")},
			"team":    {timed("lunch", "2024-03-10T12:00:00+09:00")},
		}},
		"home": {events: map[string][]Event{
			"family": {allDay("birthday", "2024-03-11"), timed("dentist", "2024-03-10T09:30:00+09:00")},
		}},
	}}
	conf := config.Calendars{
		"work": {"primary": "Work", "team": "Team"},
		"home": {"family": "Family"},
	}

	agg := NewAggregator(factory.open, discardLogger())
	events, err := agg.Upcoming(context.Background(), conf, time.Now(), time.Now().Add(Window))
	require.NoError(t, err)

	// length is the sum of the per-calendar counts
	assert.Len(t, events, 5)

	keys := make([]string, len(events))
	for i, e := range events {
		keys[i] = e.SortKey()
	}
	assert.True(t, sort.StringsAreSorted(keys), "events must be sorted: %v", keys)

	var summaries []string
	for _, e := range events {
		summaries = append(summaries, e.Summary)
	}
	// home is visited before work, so the tie keeps dentist first
	assert.Equal(t, []string{"dentist", "standup", "lunch", "birthday", "review"}, summaries)

	assert.Equal(t, []string{"home", "work"}, factory.opened, "one source per account in id order")
	assert.Equal(t, []string{"primary", "team"}, factory.sources["work"].calls)
}

func TestAggregator_Upcoming_Empty(t *testing.T) {
	factory := &fakeFactory{}
	agg := NewAggregator(factory.open, discardLogger())

	events, err := agg.Upcoming(context.Background(), config.Calendars{"idle": {}}, time.Now(), time.Now().Add(Window))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, factory.opened, "accounts without calendars are not opened")
}

func TestAggregator_Upcoming_Errors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("source creation", func(t *testing.T) {
		agg := NewAggregator((&fakeFactory{}).open, discardLogger())
		_, err := agg.Upcoming(context.Background(), config.Calendars{"work": {"primary": "Work"}}, time.Now(), time.Now())
		assert.Error(t, err)
	})

	t.Run("listing aborts the run", func(t *testing.T) {
		factory := &fakeFactory{sources: map[string]*fakeSource{
			"a": {err: boom},
			"b": {},
		}}
		agg := NewAggregator(factory.open, discardLogger())
		_, err := agg.Upcoming(context.Background(), config.Calendars{
			"a": {"x": "X", "y": "Y"},
			"b": {"z": "Z"},
		}, time.Now(), time.Now())
		require.Error(t, err)
		assert.True(t, errors.Is(err, boom))
		assert.Equal(t, []string{"x"}, factory.sources["a"].calls)
		assert.Equal(t, []string{"a"}, factory.opened)
	})
}

func TestAggregator_Calendars(t *testing.T) {
	factory := &fakeFactory{sources: map[string]*fakeSource{
		"work": {calendars: map[string]string{"primary": "Work", "team": "Team"}},
		"home": {calendars: map[string]string{"family": "Family"}},
	}}
	agg := NewAggregator(factory.open, discardLogger())

	all, err := agg.Calendars(context.Background(), config.Calendars{"work": {}, "home": {"stale": "Stale"}})
	require.NoError(t, err)
	assert.Equal(t, config.Calendars{
		"work": {"primary": "Work", "team": "Team"},
		"home": {"family": "Family"},
	}, all)
}

func TestDefaultWindow(t *testing.T) {
	base := time.Date(2024, 3, 10, 8, 0, 0, 0, time.FixedZone("JST", 9*60*60))
	reads := 0
	clock := func() time.Time {
		reads++
		return base.Add(time.Duration(reads) * time.Millisecond)
	}

	from, to := DefaultWindow(clock)

	assert.Equal(t, 2, reads, "each bound reads the clock")
	assert.Equal(t, time.UTC, from.Location())
	assert.Equal(t, base.Add(time.Millisecond).UTC(), from)
	assert.Equal(t, base.Add(2*time.Millisecond).UTC().Add(48*time.Hour), to)
}
