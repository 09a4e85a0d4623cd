// Package calendar_tools provides the MCP tools for the configured Google
// Calendars.
//
// Tools:
//   - calendar_list_calendars: discover the calendars of the configured accounts
//   - calendar_upcoming_events: events of the next 48 hours as raw JSON
//   - calendar_announce_events: the same events as a Japanese announcement
//
// Every tool takes an optional "account" argument restricting it to one
// account of calendars.json.
package calendar_tools
