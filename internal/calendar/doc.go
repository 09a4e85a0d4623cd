// Package calendar provides a read-only client for the Google Calendar API
// and merges upcoming events across accounts.
//
// Client wraps one account's calendar.Service. ListCalendars walks the
// calendar list, ListEvents reads the single-event instances of one calendar
// in a time window.
//
// Aggregator visits every (account, calendar) pair of a configuration and
// returns one list sorted by start:
//
//	agg := calendar.NewAggregator(calendar.ProviderFactory(resolver), logger)
//	from, to := calendar.DefaultWindow(time.Now)
//	events, err := agg.Upcoming(ctx, conf, from, to)
//
// Event starts are either a DateTimeStart (timed events) or a DateStart
// (all-day events).
package calendar
