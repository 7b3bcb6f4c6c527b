package notify

import (
	"fmt"
	"time"

	"github.com/jglobal-bizschool/coaching-api/internal/models"
	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
)

// BookingNotifier composes and dispatches the contact-facing and
// operator-facing emails for each lifecycle transition.
type BookingNotifier struct {
	dispatcher    *Dispatcher
	fromEmail     string
	lecturerEmail string
	appURL        string
}

func NewBookingNotifier(dispatcher *Dispatcher, fromEmail, lecturerEmail, appURL string) *BookingNotifier {
	return &BookingNotifier{
		dispatcher:    dispatcher,
		fromEmail:     fromEmail,
		lecturerEmail: lecturerEmail,
		appURL:        appURL,
	}
}

func (n *BookingNotifier) manageURL(token string) string {
	return fmt.Sprintf("%s/free-coaching/manage/%s", n.appURL, token)
}

func eventDateTime(b *models.Booking) (string, string) {
	local := b.EventDate.In(timezone.Location())
	return local.Format("2006-01-02"), local.Format("15:04")
}

func (n *BookingNotifier) BookingConfirmed(locale string, b *models.Booking) {
	c := copyFor(locale)
	date, hm := eventDateTime(b)
	start := b.EventDate
	end := start.Add(30 * time.Minute)

	n.dispatcher.Dispatch(Message{
		From:    n.fromEmail,
		To:      b.Email,
		Subject: c.ConfirmSubject,
		HTML: htmlParagraphs(
			fmt.Sprintf(c.Hi, greetingName(locale, b.FirstName, b.LastName)),
			c.Thanks,
			fmt.Sprintf(c.SeeYou, date, hm),
			c.ZoomLink+": "+link(b.ZoomJoinURL),
			c.ManageLink+": "+link(n.manageURL(b.CancellationToken)),
			"Google Calendar: "+link(googleCalendarURL(start, end))+" | Outlook: "+link(outlookCalendarURL(start, end)),
			c.Contact,
			"— "+c.TeamName,
		),
		Attachments: []Attachment{icsAttachment(start, end)},
	})

	n.dispatcher.Dispatch(Message{
		From:    n.fromEmail,
		To:      n.lecturerEmail,
		Subject: "New Free Coaching Booking Received",
		HTML: htmlParagraphs(
			"A new user has booked a free coaching session.",
			fmt.Sprintf("Name: %s %s\nEmail: %s\nPhone: %s\nDate: %s\nTime: %s (JST)",
				b.FirstName, b.LastName, b.Email, b.Phone, date, hm),
			"You can find the event details and the Zoom link in the calendar event description.",
		),
	})
}

func (n *BookingNotifier) BookingCancelled(locale string, b *models.Booking) {
	c := copyFor(locale)
	date, hm := eventDateTime(b)

	n.dispatcher.Dispatch(Message{
		From:    n.fromEmail,
		To:      b.Email,
		Subject: c.CancelSubject,
		HTML: htmlParagraphs(
			fmt.Sprintf(c.Hi, greetingName(locale, b.FirstName, b.LastName)),
			c.CancelledIntro,
			fmt.Sprintf("%s %s (JST)", date, hm),
			c.Contact,
			"— "+c.TeamName,
		),
	})

	n.dispatcher.Dispatch(Message{
		From:    n.fromEmail,
		To:      n.lecturerEmail,
		Subject: "Coaching Session Cancelled by User",
		HTML: htmlParagraphs(
			"The following session has been cancelled:",
			fmt.Sprintf("Name: %s %s\nEmail: %s\nDate: %s %s (JST)",
				b.FirstName, b.LastName, b.Email, date, hm),
		),
	})
}

func (n *BookingNotifier) BookingRescheduled(locale string, oldBooking, newBooking *models.Booking) {
	c := copyFor(locale)
	oldDate, oldHM := eventDateTime(oldBooking)
	newDate, newHM := eventDateTime(newBooking)
	start := newBooking.EventDate
	end := start.Add(30 * time.Minute)

	n.dispatcher.Dispatch(Message{
		From:    n.fromEmail,
		To:      newBooking.Email,
		Subject: c.RescheduleSubject,
		HTML: htmlParagraphs(
			fmt.Sprintf(c.Hi, greetingName(locale, newBooking.FirstName, newBooking.LastName)),
			fmt.Sprintf(c.RescheduleInfo,
				fmt.Sprintf("%s %s (JST)", oldDate, oldHM),
				fmt.Sprintf("%s %s (JST)", newDate, newHM)),
			c.ZoomLink+": "+link(newBooking.ZoomJoinURL),
			c.ManageLink+": "+link(n.manageURL(newBooking.CancellationToken)),
			c.Contact,
			"— "+c.TeamName,
		),
		Attachments: []Attachment{icsAttachment(start, end)},
	})

	n.dispatcher.Dispatch(Message{
		From:    n.fromEmail,
		To:      n.lecturerEmail,
		Subject: "Coaching Session Rescheduled by User",
		HTML: htmlParagraphs(
			"The following session has been rescheduled:",
			fmt.Sprintf("Name: %s %s\nEmail: %s\nOriginal: %s %s (JST)\nNew: %s %s (JST)",
				newBooking.FirstName, newBooking.LastName, newBooking.Email,
				oldDate, oldHM, newDate, newHM),
		),
	})
}

func (n *BookingNotifier) ContactReceived(m *models.ContactMessage) {
	n.dispatcher.Dispatch(Message{
		From:    n.fromEmail,
		To:      n.lecturerEmail,
		Subject: "New Contact Form Message",
		HTML: htmlParagraphs(
			fmt.Sprintf("Name: %s %s\nEmail: %s", m.FirstName, m.LastName, m.Email),
			m.Message,
		),
	})
}
