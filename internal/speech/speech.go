package speech

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/teemow/yotei/internal/calendar"
)

const (
	// UnknownTitle is spoken for events without a title.
	UnknownTitle = "名称不明"

	// Closing ends every announcement.
	Closing = "以上です。"
)

// Greeting returns the opening line naming today's date and the current time.
func Greeting(now time.Time) string {
	return fmt.Sprintf("こんにちは、今日は%d月%d日。時刻は%d時%d分です。",
		int(now.Month()), now.Day(), now.Hour(), now.Minute())
}

// TimePhrase speaks the time of day of t on a 24-hour clock.
func TimePhrase(t time.Time) string {
	switch t.Minute() {
	case 0:
		return fmt.Sprintf("%d時", t.Hour())
	case 30:
		return fmt.Sprintf("%d時半", t.Hour())
	default:
		return fmt.Sprintf("%d時%d分", t.Hour(), t.Minute())
	}
}

// relativeDays holds the dates an event start is spoken relative to.
type relativeDays struct {
	today, tomorrow, dayAfterTomorrow calendar.Date
}

func daysFrom(now time.Time) relativeDays {
	today := calendar.NewDateFromTime(now)
	return relativeDays{
		today:            today,
		tomorrow:         today.AddDays(1),
		dayAfterTomorrow: today.AddDays(2),
	}
}

func monthDay(d calendar.Date) string {
	return fmt.Sprintf("%d月%d日", int(d.Month()), d.Day())
}

// DateTimePhrase speaks the start of a timed event relative to now.
// The event date is taken in the offset t carries. Starts before today are
// not spoken.
func DateTimePhrase(now, t time.Time) string {
	days := daysFrom(now)
	date := calendar.NewDateFromTime(t)

	switch {
	case date.Before(days.today):
		return ""
	case date.Equal(days.today):
		return TimePhrase(t)
	case date.Equal(days.tomorrow):
		return "明日の" + TimePhrase(t)
	case date.Equal(days.dayAfterTomorrow):
		return "明後日の" + TimePhrase(t)
	default:
		return monthDay(date) + TimePhrase(t)
	}
}

// DatePhrase speaks the start of an all-day event relative to now.
// All-day events of today and earlier are not spoken.
func DatePhrase(now time.Time, date calendar.Date) string {
	days := daysFrom(now)

	switch {
	case date.Before(days.today), date.Equal(days.today):
		return ""
	case date.Equal(days.tomorrow):
		return "明日"
	case date.Equal(days.dayAfterTomorrow):
		return "あさって"
	default:
		return monthDay(date)
	}
}

// Phrase speaks an event start relative to now.
func Phrase(now time.Time, start calendar.Start) string {
	switch s := start.(type) {
	case calendar.DateTimeStart:
		return DateTimePhrase(now, s.Time)
	case calendar.DateStart:
		return DatePhrase(now, s.Date)
	default:
		return ""
	}
}

// EventLine returns the spoken line for one event. The trailing space is a
// pause for the speech synthesizer.
func EventLine(now time.Time, e calendar.Event) string {
	title := e.Summary
	if title == "" {
		title = UnknownTitle
	}
	return Phrase(now, e.Start) + "、" + title + "。 "
}

// Lines returns the greeting, one line per event in order, and the closing.
func Lines(now time.Time, events []calendar.Event) []string {
	lines := make([]string, 0, len(events)+2)
	lines = append(lines, Greeting(now))
	for _, e := range events {
		lines = append(lines, EventLine(now, e))
	}
	return append(lines, Closing)
}

// Announcement returns the whole announcement, one line per entry.
func Announcement(now time.Time, events []calendar.Event) string {
	return strings.Join(Lines(now, events), "\n") + "\n"
}

// Write writes the announcement to w.
func Write(w io.Writer, now time.Time, events []calendar.Event) error {
	_, err := io.WriteString(w, Announcement(now, events))
	return err
}
