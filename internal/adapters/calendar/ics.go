// Package calendar renders events as iCalendar (RFC 5545) documents so
// invitees can add them to their own calendars.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"rsvphub/internal/domain"
)

const (
	icsTimeLayout = "20060102T150405Z"
	prodID        = "-//rsvphub//EN"
	// Events carry a single date, not a duration, so the calendar entry
	// defaults to a two hour block.
	defaultDuration = 2 * time.Hour
)

// RenderEvent returns the event as a single-VEVENT iCalendar document.
func RenderEvent(event *domain.Event, appBaseURL string) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+prodID)
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	writeLine(&b, "BEGIN:VEVENT")
	writeLine(&b, "UID:"+event.ID+"@rsvphub")
	writeLine(&b, "DTSTAMP:"+time.Now().UTC().Format(icsTimeLayout))
	writeLine(&b, "DTSTART:"+event.EventDate.UTC().Format(icsTimeLayout))
	writeLine(&b, "DTEND:"+event.EventDate.Add(defaultDuration).UTC().Format(icsTimeLayout))
	writeLine(&b, "SUMMARY:"+escapeText(event.Title))
	if event.Description != nil && *event.Description != "" {
		writeLine(&b, "DESCRIPTION:"+escapeText(*event.Description))
	}
	if event.Location != nil && *event.Location != "" {
		writeLine(&b, "LOCATION:"+escapeText(*event.Location))
	}
	if appBaseURL != "" {
		writeLine(&b, fmt.Sprintf("URL:%s/events/%s", strings.TrimRight(appBaseURL, "/"), event.ID))
	}
	writeLine(&b, "END:VEVENT")
	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

// writeLine appends a content line folded at 75 octets per RFC 5545.
func writeLine(b *strings.Builder, line string) {
	const limit = 75
	for len(line) > limit {
		cut := limit
		// Do not split a multi-byte rune across the fold.
		for cut > 0 && line[cut]&0xC0 == 0x80 {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeText escapes the characters RFC 5545 reserves in TEXT values.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
