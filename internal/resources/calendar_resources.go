package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/yotei/internal/calendar"
	"github.com/teemow/yotei/internal/server"
)

const (
	CalendarsURI = "yotei://calendars"
	WindowURI    = "yotei://window"
)

// RegisterCalendarResources registers the read-only configuration resources.
func RegisterCalendarResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	calendarsResource := mcp.NewResource(
		CalendarsURI,
		"Configured Calendars",
		mcp.WithResourceDescription("The accounts and calendar IDs from calendars.json that the event tools read"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(calendarsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendars(ctx, request, sc)
	})

	windowResource := mcp.NewResource(
		WindowURI,
		"Fetch Window",
		mcp.WithResourceDescription("The time range the event tools would fetch right now"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(windowResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleWindow(ctx, request, sc)
	})

	return nil
}

func handleCalendars(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	conf, err := sc.Calendars()
	if err != nil {
		return nil, err
	}
	return jsonContents(request.Params.URI, conf)
}

func handleWindow(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	from, to := calendar.DefaultWindow(sc.Now)
	return jsonContents(request.Params.URI, map[string]string{
		"timeMin": from.Format(time.RFC3339),
		"timeMax": to.Format(time.RFC3339),
	})
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
