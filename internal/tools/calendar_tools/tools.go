package calendar_tools

import (
	"encoding/json"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/yotei/internal/config"
	"github.com/teemow/yotei/internal/server"
)

const accountDescription = "Account ID from calendars.json. Omit to use every configured account."

// selectAccounts narrows conf to one account. An empty account keeps all of
// them.
func selectAccounts(conf config.Calendars, account string) (config.Calendars, error) {
	if account == "" {
		return conf, nil
	}
	if !conf.Has(account) {
		return nil, fmt.Errorf("account %q is not configured; run 'yotei add-token %s' first", account, account)
	}
	return config.Calendars{account: conf[account]}, nil
}

func marshalIndent(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}

// RegisterCalendarTools registers all Calendar-related tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterCalendarListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}

	if err := RegisterEventTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	return nil
}
