package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/yotei/internal/server"
)

func TestNewMCPServer(t *testing.T) {
	sc := server.NewServerContext(context.Background(), nil, filepath.Join(t.TempDir(), "calendars.json"))
	defer func() { _ = sc.Shutdown() }()

	mcpSrv, err := newMCPServer(sc)
	require.NoError(t, err)

	tools := mcpSrv.ListTools()
	assert.Contains(t, tools, "calendar_list_calendars")
	assert.Contains(t, tools, "calendar_upcoming_events")
	assert.Contains(t, tools, "calendar_announce_events")
}

func TestToolsDocumentation(t *testing.T) {
	markdown, err := toolsDocumentation()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(markdown, "# MCP Tools Reference\n"))
	assert.Contains(t, markdown, "- [Google Calendar Tools](#google-calendar-tools)")
	assert.Contains(t, markdown, "### calendar_upcoming_events")
	assert.Contains(t, markdown, "- `account` (optional): ")

	// tools are listed alphabetically
	announce := strings.Index(markdown, "### calendar_announce_events")
	list := strings.Index(markdown, "### calendar_list_calendars")
	upcoming := strings.Index(markdown, "### calendar_upcoming_events")
	assert.True(t, announce < list && list < upcoming)
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"calendar_upcoming_events", "Google Calendar Tools"},
		{"gmail_list_threads", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getCategoryFromToolName(tt.name))
		})
	}
}

func TestGenerateToolMarkdown(t *testing.T) {
	tool := mcp.NewTool("calendar_example",
		mcp.WithDescription("An example"),
		mcp.WithString("account", mcp.Description("Account ID")),
		mcp.WithString("calendarId", mcp.Required()),
	)

	got := generateToolMarkdown(tool)
	assert.Contains(t, got, "### calendar_example\n\nAn example\n\n")
	assert.Contains(t, got, "- `account` (optional): Account ID\n")
	assert.Contains(t, got, "- `calendarId` (required): string parameter\n")
}
