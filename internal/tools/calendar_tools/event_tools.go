package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/yotei/internal/calendar"
	"github.com/teemow/yotei/internal/server"
	"github.com/teemow/yotei/internal/speech"
	"github.com/teemow/yotei/internal/tools/common"
)

// RegisterEventTools registers the upcoming event tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	upcomingTool := mcp.NewTool("calendar_upcoming_events",
		mcp.WithDescription("Get the events of the next 48 hours from the configured calendars, sorted by start, as raw Google Calendar event JSON"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
	)

	s.AddTool(upcomingTool, common.InstrumentedToolHandler(
		"calendar_upcoming_events", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpcomingEvents(ctx, request, sc)
		}))

	announceTool := mcp.NewTool("calendar_announce_events",
		mcp.WithDescription("Get the events of the next 48 hours as a Japanese announcement suitable for text-to-speech"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
	)

	s.AddTool(announceTool, common.InstrumentedToolHandler(
		"calendar_announce_events", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAnnounceEvents(ctx, request, sc)
		}))

	return nil
}

// upcoming fetches the events of the default window for the requested accounts.
func upcoming(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) ([]calendar.Event, error) {
	conf, err := sc.Calendars()
	if err != nil {
		return nil, err
	}
	conf, err = selectAccounts(conf, common.GetAccountFromArgs(request.GetArguments()))
	if err != nil {
		return nil, err
	}

	from, to := calendar.DefaultWindow(sc.Now)
	events, err := sc.Aggregator().Upcoming(ctx, conf, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

func handleUpcomingEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	events, err := upcoming(ctx, request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := marshalIndent(calendar.RawEvents(events))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func handleAnnounceEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	events, err := upcoming(ctx, request, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(speech.Announcement(sc.Now().Local(), events)), nil
}
