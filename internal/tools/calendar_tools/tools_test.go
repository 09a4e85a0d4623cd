package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/teemow/yotei/internal/calendar"
	"github.com/teemow/yotei/internal/config"
	"github.com/teemow/yotei/internal/server"
	"github.com/teemow/yotei/internal/speech"
)

type fakeSource struct {
	calendars map[string]string
	events    map[string][]calendar.Event
}

func (f *fakeSource) ListCalendars(context.Context) (map[string]string, error) {
	return f.calendars, nil
}

func (f *fakeSource) ListEvents(_ context.Context, calendarID string, _, _ time.Time) ([]calendar.Event, error) {
	return f.events[calendarID], nil
}

func event(id, summary string, start time.Time) calendar.Event {
	return calendar.Event{
		Summary: summary,
		Start:   calendar.NewDateTimeStart(start),
		Raw:     &calendarapi.Event{Id: id, Summary: summary},
	}
}

var (
	jst   = time.FixedZone("JST", 9*60*60)
	fixed = time.Date(2024, 3, 10, 8, 0, 0, 0, jst)
)

func newTestServer(t *testing.T, conf config.Calendars, sources map[string]*fakeSource) (*mcpserver.MCPServer, *server.ServerContext) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "calendars.json")
	require.NoError(t, config.Save(path, conf))

	factory := func(_ context.Context, account string) (calendar.Source, error) {
		src, ok := sources[account]
		if !ok {
			return nil, fmt.Errorf("no token for %s", account)
		}
		return src, nil
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sc := server.NewServerContext(context.Background(), calendar.NewAggregator(factory, logger), path,
		server.WithLogger(logger),
		server.WithClock(func() time.Time { return fixed }),
	)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("yotei-test", "test", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterCalendarTools(s, sc))
	return s, sc
}

func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func testFixture() (config.Calendars, map[string]*fakeSource) {
	conf := config.Calendars{
		"work": {"primary": "Work"},
		"home": {"family": "Family"},
	}
	sources := map[string]*fakeSource{
		"work": {
			calendars: map[string]string{"primary": "Work", "team": "Team"},
			events: map[string][]calendar.Event{
				"primary": {event("w1", "定例", fixed.Add(2*time.Hour))},
			},
		},
		"home": {
			calendars: map[string]string{"family": "Family"},
			events: map[string][]calendar.Event{
				"family": {event("h1", "歯医者", fixed.Add(time.Hour))},
			},
		},
	}
	return conf, sources
}

func TestRegisterCalendarTools(t *testing.T) {
	s, _ := newTestServer(t, config.Calendars{}, nil)

	tools := s.ListTools()
	for _, name := range []string{"calendar_list_calendars", "calendar_upcoming_events", "calendar_announce_events"} {
		assert.Contains(t, tools, name)
	}
	assert.Len(t, tools, 3)
}

func TestUpcomingEvents(t *testing.T) {
	conf, sources := testFixture()
	s, _ := newTestServer(t, conf, sources)

	result := callTool(t, s, "calendar_upcoming_events", nil)
	require.False(t, result.IsError, resultText(t, result))

	var raw []calendarapi.Event
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "h1", raw[0].Id)
	assert.Equal(t, "w1", raw[1].Id)
}

func TestUpcomingEvents_AccountFilter(t *testing.T) {
	conf, sources := testFixture()
	s, _ := newTestServer(t, conf, sources)

	result := callTool(t, s, "calendar_upcoming_events", map[string]interface{}{"account": "work"})
	require.False(t, result.IsError, resultText(t, result))

	var raw []calendarapi.Event
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "w1", raw[0].Id)

	result = callTool(t, s, "calendar_upcoming_events", map[string]interface{}{"account": "unknown"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"unknown" is not configured`)
}

func TestUpcomingEvents_Empty(t *testing.T) {
	s, _ := newTestServer(t, config.Calendars{}, nil)

	result := callTool(t, s, "calendar_upcoming_events", nil)
	require.False(t, result.IsError)
	assert.Equal(t, "[]", resultText(t, result))
}

func TestUpcomingEvents_SourceError(t *testing.T) {
	s, _ := newTestServer(t, config.Calendars{"work": {"primary": "Work"}}, nil)

	result := callTool(t, s, "calendar_upcoming_events", nil)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no token for work")
}

func TestAnnounceEvents(t *testing.T) {
	conf, sources := testFixture()
	s, sc := newTestServer(t, conf, sources)

	result := callTool(t, s, "calendar_announce_events", nil)
	require.False(t, result.IsError, resultText(t, result))

	want := speech.Announcement(fixed.Local(), []calendar.Event{
		sources["home"].events["family"][0],
		sources["work"].events["primary"][0],
	})
	assert.Equal(t, want, resultText(t, result))
	assert.Contains(t, resultText(t, result), speech.Closing)
	assert.Equal(t, fixed, sc.Now())
}

func TestListCalendars(t *testing.T) {
	conf, sources := testFixture()
	s, _ := newTestServer(t, conf, sources)

	result := callTool(t, s, "calendar_list_calendars", nil)
	require.False(t, result.IsError, resultText(t, result))

	var got config.Calendars
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	assert.Equal(t, config.Calendars{
		"work": {"primary": "Work", "team": "Team"},
		"home": {"family": "Family"},
	}, got)

	result = callTool(t, s, "calendar_list_calendars", map[string]interface{}{"account": "home"})
	require.False(t, result.IsError)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &got))
	assert.Equal(t, config.Calendars{"home": {"family": "Family"}}, got)
}

func TestSelectAccounts(t *testing.T) {
	conf := config.Calendars{"a": {"x": "X"}, "b": {}}

	all, err := selectAccounts(conf, "")
	require.NoError(t, err)
	assert.Equal(t, conf, all)

	one, err := selectAccounts(conf, "b")
	require.NoError(t, err)
	assert.Equal(t, config.Calendars{"b": {}}, one)

	_, err = selectAccounts(conf, "c")
	assert.Error(t, err)
}
