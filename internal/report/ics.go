package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
)

// ICSProductID identifies the generator in exported calendars.
const ICSProductID = "-//Krummacker//Friends Manager//EN"

// WriteICS writes an iCalendar file with one all-day event per birthday, starting in the given
// year and repeating every year. stamp is used as DTSTAMP of all events.
func WriteICS(w io.Writer, friends []model.Friend, year int, stamp time.Time) error {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ICSProductID)
	line("X-WR-CALNAME:Birthdays")
	line("CALSCALE:GREGORIAN")
	for _, f := range friends {
		if f.Birthday == nil {
			continue
		}
		start := time.Date(year, time.Month(f.Birthday.Month()), f.Birthday.Day(), 0, 0, 0, 0, time.UTC)
		line("BEGIN:VEVENT")
		line("UID:birthday-%d-%02d%02d@friends-manager", f.Id, f.Birthday.Month(), f.Birthday.Day())
		line("DTSTAMP:%s", stamp.UTC().Format("20060102T150405Z"))
		line("DTSTART;VALUE=DATE:%s", start.Format("20060102"))
		line("DTEND;VALUE=DATE:%s", start.AddDate(0, 0, 1).Format("20060102"))
		line("RRULE:FREQ=YEARLY")
		line("SUMMARY:%s", escapeText("Birthday "+f.FullName()))
		line("TRANSP:TRANSPARENT")
		line("END:VEVENT")
	}
	line("END:VCALENDAR")

	_, err := io.WriteString(w, b.String())
	return err
}

// escapeText escapes the characters that have a meaning in iCalendar text values.
func escapeText(s string) string {
	return strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`).Replace(s)
}
