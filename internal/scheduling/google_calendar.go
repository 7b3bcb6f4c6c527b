package scheduling

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
)

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleCalendarAPI = "https://www.googleapis.com/calendar/v3"
	calendarScope     = "https://www.googleapis.com/auth/calendar"
)

// CalendarClient talks to the Google Calendar REST API authenticated as a
// service account. Access tokens are cached process-wide and refreshed
// shortly before expiry.
type CalendarClient struct {
	serviceEmail string
	privateKey   *rsa.PrivateKey
	calendarID   string
	httpClient   *http.Client

	mu          sync.Mutex
	cachedToken string
	tokenExpiry time.Time
}

func NewCalendarClient(serviceEmail, privateKeyPEM, calendarID string) (*CalendarClient, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse google service key: %w", err)
	}

	return &CalendarClient{
		serviceEmail: serviceEmail,
		privateKey:   key,
		calendarID:   calendarID,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// getToken exchanges a signed service-account assertion for an access token.
// The mutex keeps concurrent requests from issuing duplicate auth calls.
func (c *CalendarClient) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.cachedToken, nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   c.serviceEmail,
		"scope": calendarScope,
		"aud":   googleTokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.privateKey)
	if err != nil {
		return "", &UpstreamError{Provider: "google", Op: "sign assertion", Err: err}
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &UpstreamError{Provider: "google", Op: "token request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: "google", Op: "token request", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return "", &UpstreamError{
			Provider: "google",
			Op:       "token request",
			Err:      fmt.Errorf("status %d: %s", res.StatusCode, body),
		}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return "", &UpstreamError{Provider: "google", Op: "decode token", Err: err}
	}

	c.cachedToken = tok.AccessToken
	// Refresh one minute early to avoid using a token at the edge of expiry.
	c.tokenExpiry = now.Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)

	return c.cachedToken, nil
}

type calendarEvent struct {
	ID          string            `json:"id,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Start       calendarEventTime `json:"start"`
	End         calendarEventTime `json:"end"`
}

type calendarEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

func (c *CalendarClient) eventsURL(path string) string {
	return fmt.Sprintf("%s/calendars/%s/events%s", googleCalendarAPI, url.PathEscape(c.calendarID), path)
}

func (c *CalendarClient) ListBusy(ctx context.Context, timeMin, timeMax time.Time) ([]BusyInterval, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"timeMin":      {timeMin.Format(time.RFC3339)},
		"timeMax":      {timeMax.Format(time.RFC3339)},
		"singleEvents": {"true"},
		"orderBy":      {"startTime"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.eventsURL("?"+q.Encode()), nil)
	if err != nil {
		return nil, &UpstreamError{Provider: "google", Op: "list events", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: "google", Op: "list events", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, &UpstreamError{
			Provider: "google",
			Op:       "list events",
			Err:      fmt.Errorf("status %d: %s", res.StatusCode, body),
		}
	}

	var payload struct {
		Items []calendarEvent `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, &UpstreamError{Provider: "google", Op: "decode events", Err: err}
	}

	busy := make([]BusyInterval, 0, len(payload.Items))
	for _, item := range payload.Items {
		// All-day events carry date instead of dateTime; they don't block slots.
		if item.Start.DateTime == "" || item.End.DateTime == "" {
			continue
		}

		start, err1 := time.Parse(time.RFC3339, item.Start.DateTime)
		end, err2 := time.Parse(time.RFC3339, item.End.DateTime)
		if err1 != nil || err2 != nil {
			continue
		}

		busy = append(busy, BusyInterval{Start: start, End: end})
	}

	return busy, nil
}

func (c *CalendarClient) InsertEvent(ctx context.Context, ev EventInput) (string, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(calendarEvent{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       calendarEventTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: timezone.BusinessTimezone},
		End:         calendarEventTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: timezone.BusinessTimezone},
	})
	if err != nil {
		return "", &UpstreamError{Provider: "google", Op: "encode event", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.eventsURL(""), bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Provider: "google", Op: "insert event", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: "google", Op: "insert event", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		return "", &UpstreamError{
			Provider: "google",
			Op:       "insert event",
			Err:      fmt.Errorf("status %d: %s", res.StatusCode, resBody),
		}
	}

	var created calendarEvent
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		return "", &UpstreamError{Provider: "google", Op: "decode event", Err: err}
	}

	return created.ID, nil
}

func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.eventsURL("/"+url.PathEscape(eventID)), nil)
	if err != nil {
		return &UpstreamError{Provider: "google", Op: "delete event", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Provider: "google", Op: "delete event", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent && res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return &UpstreamError{
			Provider: "google",
			Op:       "delete event",
			Err:      fmt.Errorf("status %d: %s", res.StatusCode, body),
		}
	}

	return nil
}
