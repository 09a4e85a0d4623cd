// Package cmd implements the command-line interface for yotei.
//
// This package provides the following commands:
//   - calendars: Show the calendars every configured account can see
//   - dump: Print the events of the next 48 hours as raw JSON
//   - list: Print the events of the next 48 hours as a Japanese announcement
//   - add-token: Authorize a Google account and add its calendars
//   - serve: Start the MCP server on stdio
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
