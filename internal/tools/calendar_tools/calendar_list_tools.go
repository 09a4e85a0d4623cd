package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/yotei/internal/server"
	"github.com/teemow/yotei/internal/tools/common"
)

// RegisterCalendarListTools registers calendar list tools with the MCP server
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listCalendarsTool := mcp.NewTool("calendar_list_calendars",
		mcp.WithDescription("List every calendar the configured accounts can see, as calendar ID to name per account"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandler(
		"calendar_list_calendars", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	account := common.GetAccountFromArgs(request.GetArguments())

	conf, err := sc.Calendars()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conf, err = selectAccounts(conf, account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	all, err := sc.Aggregator().Calendars(ctx, conf)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list calendars: %v", err)), nil
	}

	text, err := marshalIndent(all)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
