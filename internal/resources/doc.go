// Package resources provides MCP resources exposing the yotei configuration.
// Resources are read-only data sources that MCP clients can fetch: the
// configured calendars and the current fetch window.
package resources
