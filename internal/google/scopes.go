package google

import (
	calendar "google.golang.org/api/calendar/v3"
)

// DefaultOAuthScopes are the Google OAuth scopes requested for every account.
// The tool only reads calendars and events.
var DefaultOAuthScopes = []string{
	calendar.CalendarReadonlyScope,
}
