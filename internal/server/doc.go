// Package server provides the MCP server context for yotei.
//
// ServerContext carries everything a tool handler needs: the event
// aggregator, the location of the calendars configuration, the metrics
// recorder, the logger and the clock. The server speaks MCP over stdio to a
// single local client, so there is no session or HTTP layer.
package server
