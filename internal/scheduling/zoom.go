package scheduling

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
)

const (
	zoomTokenURL = "https://zoom.us/oauth/token"
	zoomAPI      = "https://api.zoom.us/v2"
)

// ZoomClient talks to the Zoom REST API with server-to-server OAuth.
// The account token is cached process-wide and refreshed one minute before
// expiry; there is no teardown, a fresh token is acquired lazily.
type ZoomClient struct {
	accountID    string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	tokenURL string
	apiBase  string

	mu          sync.Mutex
	cachedToken string
	tokenExpiry time.Time
}

func NewZoomClient(accountID, clientID, clientSecret string) *ZoomClient {
	return &ZoomClient{
		accountID:    accountID,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		tokenURL:     zoomTokenURL,
		apiBase:      zoomAPI,
	}
}

func (z *ZoomClient) getToken(ctx context.Context) (string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.cachedToken != "" && time.Now().Before(z.tokenExpiry) {
		return z.cachedToken, nil
	}

	endpoint := fmt.Sprintf("%s?grant_type=account_credentials&account_id=%s",
		z.tokenURL, url.QueryEscape(z.accountID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", &UpstreamError{Provider: "zoom", Op: "token request", Err: err}
	}

	basic := base64.StdEncoding.EncodeToString([]byte(z.clientID + ":" + z.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/json")

	res, err := z.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: "zoom", Op: "token request", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return "", &UpstreamError{
			Provider: "zoom",
			Op:       "token request",
			Err:      fmt.Errorf("status %d: %s", res.StatusCode, body),
		}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return "", &UpstreamError{Provider: "zoom", Op: "decode token", Err: err}
	}

	z.cachedToken = tok.AccessToken
	// Refresh one minute early.
	z.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)

	return z.cachedToken, nil
}

type zoomMeetingResponse struct {
	ID      int64  `json:"id"`
	JoinURL string `json:"join_url"`
}

type zoomRegistrantResponse struct {
	ID      string `json:"id"`
	JoinURL string `json:"join_url"`
}

// CreateMeeting creates a scheduled meeting and registers each attendee,
// collecting their personal join links. A registrant failure is logged and
// skipped; the meeting itself stands.
func (z *ZoomClient) CreateMeeting(ctx context.Context, topic string, start time.Time, durationMin int, registrants []Registrant) (*Meeting, error) {
	token, err := z.getToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"topic":      topic,
		"type":       2, // scheduled
		"start_time": start.UTC().Format("2006-01-02T15:04:05Z"),
		"duration":   durationMin,
		"timezone":   timezone.BusinessTimezone,
		"settings": map[string]any{
			"host_video":                     true,
			"participant_video":              true,
			"join_before_host":               false,
			"approval_type":                  0, // auto-approve
			"registration_type":              1, // registration required
			"audio":                          "both",
			"waiting_room":                   true,
			"registrants_email_notification": true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &UpstreamError{Provider: "zoom", Op: "encode meeting", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.apiBase+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, &UpstreamError{Provider: "zoom", Op: "create meeting", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	res, err := z.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: "zoom", Op: "create meeting", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated && res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		return nil, &UpstreamError{
			Provider: "zoom",
			Op:       "create meeting",
			Err:      fmt.Errorf("status %d: %s", res.StatusCode, resBody),
		}
	}

	var meeting zoomMeetingResponse
	if err := json.NewDecoder(res.Body).Decode(&meeting); err != nil {
		return nil, &UpstreamError{Provider: "zoom", Op: "decode meeting", Err: err}
	}

	meetingID := fmt.Sprintf("%d", meeting.ID)
	links := map[string]string{}

	for _, r := range registrants {
		link, err := z.addRegistrant(ctx, token, meetingID, r)
		if err != nil {
			log.Printf("zoom: failed to add registrant %s: %v", r.Email, err)
			continue
		}
		links[r.Email] = link
	}

	return &Meeting{ID: meetingID, JoinLinksByEmail: links}, nil
}

func (z *ZoomClient) addRegistrant(ctx context.Context, token, meetingID string, r Registrant) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":      r.Email,
		"first_name": r.FirstName,
		"last_name":  r.LastName,
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/meetings/%s/registrants", z.apiBase, url.PathEscape(meetingID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	res, err := z.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated && res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("status %d: %s", res.StatusCode, resBody)
	}

	var reg zoomRegistrantResponse
	if err := json.NewDecoder(res.Body).Decode(&reg); err != nil {
		return "", err
	}

	return reg.JoinURL, nil
}

func (z *ZoomClient) DeleteMeeting(ctx context.Context, meetingID string) error {
	token, err := z.getToken(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/meetings/%s", z.apiBase, url.PathEscape(meetingID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return &UpstreamError{Provider: "zoom", Op: "delete meeting", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := z.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Provider: "zoom", Op: "delete meeting", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent && res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return &UpstreamError{
			Provider: "zoom",
			Op:       "delete meeting",
			Err:      fmt.Errorf("status %d: %s", res.StatusCode, body),
		}
	}

	return nil
}
