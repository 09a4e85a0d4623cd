package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// ErrMissingStart is returned for events that carry neither start.dateTime
// nor start.date.
var ErrMissingStart = errors.New("event has no start value")

// Start is the start of an event. It is either a DateTimeStart or a DateStart.
type Start interface {
	// SortKey is the raw ISO-8601 value returned by the API. Keys of the same
	// shape sort chronologically as plain strings.
	SortKey() string

	isStart()
}

// DateTimeStart is the start of a timed event.
type DateTimeStart struct {
	// Time keeps the UTC offset the API returned it with.
	Time time.Time
	raw  string
}

// NewDateTimeStart returns a timed start whose sort key is t in RFC 3339.
func NewDateTimeStart(t time.Time) DateTimeStart {
	return DateTimeStart{Time: t, raw: t.Format(time.RFC3339)}
}

func (s DateTimeStart) SortKey() string { return s.raw }
func (DateTimeStart) isStart()          {}

// DateStart is the start of an all-day event.
type DateStart struct {
	Date Date
	raw  string
}

// NewDateStart returns an all-day start whose sort key is d as YYYY-MM-DD.
func NewDateStart(d Date) DateStart {
	return DateStart{Date: d, raw: d.String()}
}

func (s DateStart) SortKey() string { return s.raw }
func (DateStart) isStart()          {}

// Event is a single upcoming occurrence fetched from one calendar of one account.
type Event struct {
	Account    string
	CalendarID string
	// Summary is the event title. Empty when the API omitted it.
	Summary string
	Start   Start
	// Raw is the event exactly as returned by the API.
	Raw *calendar.Event
}

// SortKey is the start.dateTime value when present, else start.date.
func (e Event) SortKey() string {
	if e.Start == nil {
		return ""
	}
	return e.Start.SortKey()
}

// SortEvents sorts events ascending by SortKey. Events with equal keys keep
// their relative order.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].SortKey() < events[j].SortKey()
	})
}

// parseStart converts the API start value into a Start.
func parseStart(start *calendar.EventDateTime) (Start, error) {
	if start == nil {
		return nil, ErrMissingStart
	}
	if start.DateTime != "" {
		t, err := time.Parse(time.RFC3339, start.DateTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start.dateTime %q: %w", start.DateTime, err)
		}
		return DateTimeStart{Time: t, raw: start.DateTime}, nil
	}
	if start.Date != "" {
		d, err := ParseDate(start.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid start.date %q: %w", start.Date, err)
		}
		return DateStart{Date: d, raw: start.Date}, nil
	}
	return nil, ErrMissingStart
}

// toEvent converts a Google Calendar event to an Event
func toEvent(account, calendarID string, item *calendar.Event) (Event, error) {
	if item == nil {
		return Event{}, ErrMissingStart
	}
	start, err := parseStart(item.Start)
	if err != nil {
		return Event{}, fmt.Errorf("event %s in calendar %s: %w", item.Id, calendarID, err)
	}
	return Event{
		Account:    account,
		CalendarID: calendarID,
		Summary:    item.Summary,
		Start:      start,
		Raw:        item,
	}, nil
}

// RawEvents returns the API objects of events in order.
func RawEvents(events []Event) []*calendar.Event {
	raw := make([]*calendar.Event, 0, len(events))
	for _, e := range events {
		raw = append(raw, e.Raw)
	}
	return raw
}
