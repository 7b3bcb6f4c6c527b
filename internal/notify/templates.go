package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Calendar helper links and the ICS attachment shipped with confirmation
// and reschedule emails.

func formatForGoogle(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func googleCalendarURL(start, end time.Time) string {
	q := url.Values{
		"action":   {"TEMPLATE"},
		"text":     {"Free Coaching Session"},
		"dates":    {formatForGoogle(start) + "/" + formatForGoogle(end)},
		"details":  {"Your free coaching session"},
		"location": {"Online"},
	}
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

func outlookCalendarURL(start, end time.Time) string {
	q := url.Values{
		"subject":  {"Free Coaching Session"},
		"startdt":  {start.UTC().Format(time.RFC3339)},
		"enddt":    {end.UTC().Format(time.RFC3339)},
		"body":     {"Your free coaching session"},
		"location": {"Online"},
	}
	return "https://outlook.office.com/calendar/0/deeplink/compose?" + q.Encode()
}

func generateICS(start, end time.Time, title, description, location string) string {
	stamp := func(t time.Time) string {
		return t.UTC().Format("20060102T150405Z")
	}

	return strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//J Global Biz School//Coaching Session//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + uuid.NewString() + "@j-globalbizschool.com",
		"DTSTAMP:" + stamp(time.Now()),
		"DTSTART:" + stamp(start),
		"DTEND:" + stamp(end),
		"SUMMARY:" + title,
		"DESCRIPTION:" + description,
		"LOCATION:" + location,
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")
}

func icsAttachment(start, end time.Time) Attachment {
	return Attachment{
		Filename:    "coaching-session.ics",
		Content:     generateICS(start, end, "Free Coaching Session", "Your free coaching session", "Online"),
		ContentType: "text/calendar; charset=utf-8",
	}
}

func htmlParagraphs(lines ...string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; color: #333; line-height: 1.6; padding: 20px;">`)
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(line, "\n", "<br/>"))
		b.WriteString("</p>")
	}
	b.WriteString("</div>")
	return b.String()
}

func link(href string) string {
	if href == "" {
		return ""
	}
	return fmt.Sprintf(`<a href="%s" style="color:#2563eb;">%s</a>`, href, href)
}
