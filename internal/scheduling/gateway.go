package scheduling

import (
	"context"
	"fmt"
	"time"
)

// BusyInterval is an occupied window on the operator's calendar.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// EventInput describes a calendar event to reserve. The description embeds
// enough booking context to reconstruct it from the calendar alone.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

type Registrant struct {
	Email     string
	FirstName string
	LastName  string
}

// Meeting is a created meeting room plus per-registrant join links.
type Meeting struct {
	ID               string
	JoinLinksByEmail map[string]string
}

// UpstreamError marks a provider failure. Callers decide whether it aborts
// the protocol or is swallowed as best-effort cleanup.
type UpstreamError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Gateway wraps the two independently-failing external systems (calendar,
// meeting rooms) behind the one interface the usecases consume.
type Gateway interface {
	ListBusy(ctx context.Context, timeMin, timeMax time.Time) ([]BusyInterval, error)
	Reserve(ctx context.Context, ev EventInput) (string, error)
	Release(ctx context.Context, eventID string) error

	CreateMeeting(ctx context.Context, topic string, start time.Time, durationMin int, registrants []Registrant) (*Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID string) error
}

type gateway struct {
	calendar *CalendarClient
	zoom     *ZoomClient
}

func NewGateway(calendar *CalendarClient, zoom *ZoomClient) Gateway {
	return &gateway{calendar: calendar, zoom: zoom}
}

func (g *gateway) ListBusy(ctx context.Context, timeMin, timeMax time.Time) ([]BusyInterval, error) {
	return g.calendar.ListBusy(ctx, timeMin, timeMax)
}

func (g *gateway) Reserve(ctx context.Context, ev EventInput) (string, error) {
	return g.calendar.InsertEvent(ctx, ev)
}

func (g *gateway) Release(ctx context.Context, eventID string) error {
	return g.calendar.DeleteEvent(ctx, eventID)
}

func (g *gateway) CreateMeeting(ctx context.Context, topic string, start time.Time, durationMin int, registrants []Registrant) (*Meeting, error) {
	return g.zoom.CreateMeeting(ctx, topic, start, durationMin, registrants)
}

func (g *gateway) DeleteMeeting(ctx context.Context, meetingID string) error {
	return g.zoom.DeleteMeeting(ctx, meetingID)
}
