package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/yotei/internal/google"
	"github.com/teemow/yotei/internal/instrumentation"
)

// MaxEventsPerCalendar is the number of events requested per calendar.
// Only the first page is read.
const MaxEventsPerCalendar = 100

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	account string // The account this client is associated with
	metrics *instrumentation.Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMetrics records every API call.
func WithMetrics(m *instrumentation.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient wraps an existing Calendar service.
func NewClient(svc *calendar.Service, account string, opts ...ClientOption) *Client {
	c := &Client{svc: svc, account: account}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientForAccountWithProvider creates a new Calendar client with OAuth2 authentication for a specific account.
// The OAuth token is retrieved from the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider, opts ...ClientOption) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	tokenSource, err := tokenProvider.TokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return NewClient(svc, account, opts...), nil
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// observe wraps one API call in a span and records its outcome. call
// returns the number of items the API returned.
func (c *Client) observe(ctx context.Context, operation, calendarID string, call func(context.Context) (int, error)) error {
	attrs := instrumentation.NewSpanAttributeBuilder().
		WithAccount(c.account).
		WithCalendar(calendarID).
		Build()
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, operation, attrs...)
	defer span.End()

	start := time.Now()
	items, err := call(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanItems(span, items)
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, time.Since(start))
	return err
}

// ListCalendars returns every calendar on the account's calendar list as
// calendar id -> display name. All pages are read.
func (c *Client) ListCalendars(ctx context.Context) (map[string]string, error) {
	calendars := make(map[string]string)
	pageToken := ""

	for {
		var list *calendar.CalendarList
		err := c.observe(ctx, instrumentation.OperationCalendarListList, "", func(ctx context.Context) (int, error) {
			call := c.svc.CalendarList.List().Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var err error
			list, err = call.Do()
			if err != nil {
				return 0, err
			}
			return len(list.Items), nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list calendars: %w", err)
		}

		for _, entry := range list.Items {
			if entry == nil {
				continue
			}
			calendars[entry.Id] = entry.Summary
		}

		if list.NextPageToken == "" {
			return calendars, nil
		}
		pageToken = list.NextPageToken
	}
}

// ListEvents lists the single-event instances of a calendar that start
// between timeMin and timeMax, ordered by start time. At most
// MaxEventsPerCalendar events are returned.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	var list *calendar.Events
	err := c.observe(ctx, instrumentation.OperationEventsList, calendarID, func(ctx context.Context) (int, error) {
		var err error
		list, err = c.svc.Events.List(calendarID).
			Context(ctx).
			TimeMin(timeMin.UTC().Format(time.RFC3339)).
			TimeMax(timeMax.UTC().Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(MaxEventsPerCalendar).
			Do()
		if err != nil {
			return 0, err
		}
		return len(list.Items), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events of calendar %s: %w", calendarID, err)
	}

	events := make([]Event, 0, len(list.Items))
	for _, item := range list.Items {
		e, err := toEvent(c.account, calendarID, item)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// IsNotFound reports whether err is a 404 from the Google API.
func IsNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
