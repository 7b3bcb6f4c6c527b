package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jglobal-bizschool/coaching-api/internal/audit"
	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
	"github.com/jglobal-bizschool/coaching-api/internal/notify"
	"github.com/jglobal-bizschool/coaching-api/internal/scheduling"
	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
)

// ======================================================
// Test doubles
// ======================================================

// fakeRepo is an in-memory Repository with the same conditional-update
// semantics as the SQL implementation.
type fakeRepo struct {
	mu       sync.Mutex
	rows     []models.Booking
	nextID   uint
	storeErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1}
}

func (r *fakeRepo) seed(b models.Booking) models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = r.nextID
	r.nextID++
	if b.CancellationToken == "" {
		b.CancellationToken = uuid.NewString()
	}
	r.rows = append(r.rows, b)
	return b
}

func (r *fakeRepo) get(id uint) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == id {
			cp := r.rows[i]
			return &cp
		}
	}
	return nil
}

func (r *fakeRepo) FindByToken(ctx context.Context, token string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].CancellationToken == token {
			cp := r.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindLatestDescendant(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return r.latestDescendant(bookingID, false), nil
}

func (r *fakeRepo) FindLatestConfirmedDescendant(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return r.latestDescendant(bookingID, true), nil
}

func (r *fakeRepo) latestDescendant(bookingID uint, confirmedOnly bool) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found *models.Booking
	for i := range r.rows {
		row := r.rows[i]
		if row.OriginalBookingID == nil || *row.OriginalBookingID != bookingID {
			continue
		}
		if confirmedOnly && row.Status != "confirmed" {
			continue
		}
		if found == nil || row.ID > found.ID {
			cp := row
			found = &cp
		}
	}
	return found
}

func (r *fakeRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storeErr != nil {
		return r.storeErr
	}

	b.ID = r.nextID
	r.nextID++
	b.CancellationToken = uuid.NewString()
	r.rows = append(r.rows, *b)
	return nil
}

func (r *fakeRepo) CancelIfConfirmed(ctx context.Context, bookingID uint, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.rows {
		if r.rows[i].ID == bookingID && r.rows[i].Status == "confirmed" {
			r.rows[i].Status = "cancelled"
			t := now
			r.rows[i].CancelledAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateRescheduled(ctx context.Context, newBooking *models.Booking, oldBookingID uint, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storeErr != nil {
		return r.storeErr
	}

	flipped := false
	for i := range r.rows {
		if r.rows[i].ID == oldBookingID && r.rows[i].Status == "confirmed" {
			r.rows[i].Status = "rescheduled"
			t := now
			r.rows[i].RescheduledAt = &t
			flipped = true
			break
		}
	}
	if !flipped {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	newBooking.ID = r.nextID
	r.nextID++
	newBooking.CancellationToken = uuid.NewString()
	r.rows = append(r.rows, *newBooking)
	return nil
}

func (r *fakeRepo) ListBookings(ctx context.Context) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Booking, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

// fakeGateway records every provider call and lets tests inject busy
// windows and failures per operation.
type fakeGateway struct {
	mu sync.Mutex

	busy          []scheduling.BusyInterval
	listBusyErr   error
	reserveErr    error
	createMeetErr error

	eventSeq   int
	meetingSeq int

	reservedEvents  []string
	releasedEvents  []string
	createdMeetings []string
	deletedMeetings []string
}

func (g *fakeGateway) ListBusy(ctx context.Context, timeMin, timeMax time.Time) ([]scheduling.BusyInterval, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.listBusyErr != nil {
		return nil, g.listBusyErr
	}
	return g.busy, nil
}

func (g *fakeGateway) Reserve(ctx context.Context, ev scheduling.EventInput) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.reserveErr != nil {
		return "", g.reserveErr
	}

	g.eventSeq++
	id := fmt.Sprintf("event-%d", g.eventSeq)
	g.reservedEvents = append(g.reservedEvents, id)
	return id, nil
}

func (g *fakeGateway) Release(ctx context.Context, eventID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.releasedEvents = append(g.releasedEvents, eventID)
	return nil
}

func (g *fakeGateway) CreateMeeting(ctx context.Context, topic string, start time.Time, durationMin int, registrants []scheduling.Registrant) (*scheduling.Meeting, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.createMeetErr != nil {
		return nil, g.createMeetErr
	}

	g.meetingSeq++
	id := fmt.Sprintf("meeting-%d", g.meetingSeq)
	g.createdMeetings = append(g.createdMeetings, id)

	links := map[string]string{}
	for _, r := range registrants {
		links[r.Email] = "https://zoom.example/j/" + id
	}
	return &scheduling.Meeting{ID: id, JoinLinksByEmail: links}, nil
}

func (g *fakeGateway) DeleteMeeting(ctx context.Context, meetingID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.deletedMeetings = append(g.deletedMeetings, meetingID)
	return nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.calls++
	return l.allowed, l.err
}

type nopMailer struct{}

func (nopMailer) Send(ctx context.Context, msg notify.Message) error { return nil }

func testNotifier() *notify.BookingNotifier {
	return notify.NewBookingNotifier(notify.NewDispatcher(nopMailer{}), "noreply@test", "lecturer@test", "https://app.test")
}

func testAudit() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil))
}

// ======================================================
// Fixtures
// ======================================================

// testNow is a Monday morning in business time; event dates in the tests
// are offsets from it.
var testNow = time.Date(2030, 6, 3, 9, 0, 0, 0, timezone.Location())

func seedConfirmed(repo *fakeRepo, eventDate time.Time) models.Booking {
	return repo.seed(models.Booking{
		FirstName:             "Taro",
		LastName:              "Yamada",
		Email:                 "taro@example.com",
		Phone:                 "+81-90-0000-0000",
		EventDate:             eventDate,
		Status:                "confirmed",
		GoogleCalendarEventID: "event-old",
		ZoomMeetingID:         "meeting-old",
		ZoomJoinURL:           "https://zoom.example/j/meeting-old",
	})
}
