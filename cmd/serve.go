package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/yotei/internal/logging"
	"github.com/teemow/yotei/internal/resources"
	"github.com/teemow/yotei/internal/server"
	"github.com/teemow/yotei/internal/tools/calendar_tools"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start an MCP (Model Context Protocol) server on stdin/stdout exposing the
calendar discovery, the upcoming events and the spoken announcement as tools,
and the configured calendars as a resource.
calendars.json is re-read on every tool call. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd)
		},
	}
}

// newMCPServer creates the MCP server with every yotei tool registered.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("yotei", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register Calendar tools: %w", err)
	}
	if err := resources.RegisterCalendarResources(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}
	return mcpSrv, nil
}

func (a *app) runServe(cmd *cobra.Command) error {
	sc := server.NewServerContext(cmd.Context(), a.aggregator(), a.settings.CalendarsPath(),
		server.WithMetrics(a.metrics()),
		server.WithLogger(a.logger),
		server.WithClock(a.now),
	)
	defer func() {
		_ = sc.Shutdown()
	}()

	mcpSrv, err := newMCPServer(sc)
	if err != nil {
		return err
	}

	logging.WithOperation(a.logger, "serve").Info("starting MCP server on stdio",
		logging.Count(len(mcpSrv.ListTools())))
	return runStdioServer(mcpSrv)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
