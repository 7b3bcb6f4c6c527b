package scheduling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestZoomServer(t *testing.T, tokenCalls *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "account_credentials", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "acct-1", r.URL.Query().Get("account_id"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-1", user)
		assert.Equal(t, "secret-1", pass)

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("/v2/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, float64(2), payload["type"])
		assert.Equal(t, "Asia/Tokyo", payload["timezone"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":       987654321,
			"join_url": "https://zoom.example/j/987654321",
		})
	})

	mux.HandleFunc("/v2/meetings/987654321/registrants", func(w http.ResponseWriter, r *http.Request) {
		var reg map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reg))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"id":       "reg-1",
			"join_url": "https://zoom.example/w/" + reg["email"],
		})
	})

	mux.HandleFunc("/v2/meetings/987654321", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestZoomClient(srv *httptest.Server) *ZoomClient {
	z := NewZoomClient("acct-1", "client-1", "secret-1")
	z.tokenURL = srv.URL + "/oauth/token"
	z.apiBase = srv.URL + "/v2"
	return z
}

func TestZoomTokenIsCached(t *testing.T) {
	var tokenCalls int32
	srv := newTestZoomServer(t, &tokenCalls)
	z := newTestZoomClient(srv)

	ctx := context.Background()

	tok, err := z.getToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	tok, err = z.getToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls), "second call must hit the cache")
}

func TestZoomTokenRefreshesAfterExpiry(t *testing.T) {
	var tokenCalls int32
	srv := newTestZoomServer(t, &tokenCalls)
	z := newTestZoomClient(srv)

	ctx := context.Background()

	_, err := z.getToken(ctx)
	require.NoError(t, err)

	z.mu.Lock()
	z.tokenExpiry = time.Now().Add(-time.Second)
	z.mu.Unlock()

	_, err = z.getToken(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&tokenCalls))
}

func TestZoomTokenConcurrentCallersSingleFetch(t *testing.T) {
	var tokenCalls int32
	srv := newTestZoomServer(t, &tokenCalls)
	z := newTestZoomClient(srv)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := z.getToken(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "tok-abc", tok)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestZoomCreateMeetingCollectsJoinLinks(t *testing.T) {
	var tokenCalls int32
	srv := newTestZoomServer(t, &tokenCalls)
	z := newTestZoomClient(srv)

	start := time.Date(2030, 6, 10, 10, 0, 0, 0, time.UTC)

	meeting, err := z.CreateMeeting(context.Background(), "Free Coaching X Taro Yamada", start, 30, []Registrant{
		{Email: "taro@example.com", FirstName: "Taro", LastName: "Yamada"},
	})
	require.NoError(t, err)

	assert.Equal(t, "987654321", meeting.ID)
	assert.Equal(t, "https://zoom.example/w/taro@example.com", meeting.JoinLinksByEmail["taro@example.com"])
}

func TestZoomDeleteMeeting(t *testing.T) {
	var tokenCalls int32
	srv := newTestZoomServer(t, &tokenCalls)
	z := newTestZoomClient(srv)

	err := z.DeleteMeeting(context.Background(), "987654321")
	assert.NoError(t, err)
}

func TestZoomTokenFailureIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"reason":"invalid client"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	z := NewZoomClient("acct-1", "client-1", "bad-secret")
	z.tokenURL = srv.URL + "/oauth/token"
	z.apiBase = srv.URL + "/v2"

	_, err := z.getToken(context.Background())
	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "zoom", ue.Provider)
}
