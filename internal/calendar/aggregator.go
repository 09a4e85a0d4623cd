package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/yotei/internal/config"
	"github.com/teemow/yotei/internal/google"
	"github.com/teemow/yotei/internal/logging"
)

// Window is how far ahead events are fetched.
const Window = 48 * time.Hour

// Source is the part of the Calendar API the aggregator needs.
type Source interface {
	ListCalendars(ctx context.Context) (map[string]string, error)
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)
}

// SourceFactory returns the Source of one account.
type SourceFactory func(ctx context.Context, account string) (Source, error)

// ProviderFactory returns a SourceFactory creating API clients with tokens
// from provider.
func ProviderFactory(provider google.TokenProvider, opts ...ClientOption) SourceFactory {
	return func(ctx context.Context, account string) (Source, error) {
		c, err := NewClientForAccountWithProvider(ctx, account, provider, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// DefaultWindow returns the fetch window starting now. The two bounds are
// taken from separate clock reads.
func DefaultWindow(clock func() time.Time) (from, to time.Time) {
	from = clock().UTC()
	to = clock().UTC().Add(Window)
	return from, to
}

// Aggregator merges the events of every configured calendar.
type Aggregator struct {
	newSource SourceFactory
	logger    *slog.Logger
}

// NewAggregator creates an Aggregator. A nil logger means slog.Default().
func NewAggregator(newSource SourceFactory, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{newSource: newSource, logger: logger}
}

// Upcoming fetches the events between from and to of every calendar in conf
// and returns them sorted by start. Accounts and calendars are visited in
// id order, one source per account. The first error aborts.
func (a *Aggregator) Upcoming(ctx context.Context, conf config.Calendars, from, to time.Time) ([]Event, error) {
	var events []Event

	for _, account := range conf.AccountIDs() {
		logger := logging.WithAccount(a.logger, account)

		calendarIDs := conf.CalendarIDs(account)
		if len(calendarIDs) == 0 {
			logger.Debug("no calendars configured")
			continue
		}

		src, err := a.newSource(ctx, account)
		if err != nil {
			return nil, err
		}

		for _, calendarID := range calendarIDs {
			list, err := src.ListEvents(ctx, calendarID, from, to)
			if err != nil {
				if IsNotFound(err) {
					return nil, fmt.Errorf("calendar %s of account %s does not exist, remove it from the configuration: %w", calendarID, account, err)
				}
				return nil, err
			}
			logger.Debug("fetched events", logging.Calendar(calendarID), logging.Count(len(list)))
			events = append(events, list...)
		}
	}

	SortEvents(events)
	return events, nil
}

// Calendars discovers the calendars of every configured account.
func (a *Aggregator) Calendars(ctx context.Context, conf config.Calendars) (config.Calendars, error) {
	all := make(config.Calendars, len(conf))

	for _, account := range conf.AccountIDs() {
		calendars, err := a.Discover(ctx, account)
		if err != nil {
			return nil, err
		}
		all[account] = calendars
	}
	return all, nil
}

// Discover lists the calendars of one account.
func (a *Aggregator) Discover(ctx context.Context, account string) (map[string]string, error) {
	src, err := a.newSource(ctx, account)
	if err != nil {
		return nil, err
	}

	calendars, err := src.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account, err)
	}
	a.logger.Debug("discovered calendars", logging.Account(account), logging.Count(len(calendars)))
	return calendars, nil
}
