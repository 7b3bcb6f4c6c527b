package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Respond(c, err)

	var body HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRespond(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", ErrValidation("Email is required"), http.StatusBadRequest, "validation_error"},
		{"invalid token", ErrBusiness(CodeInvalidToken), http.StatusBadRequest, CodeInvalidToken},
		{"not found", ErrBusiness(CodeNotFound), http.StatusNotFound, CodeNotFound},
		{"invalid state", ErrBusiness(CodeInvalidState), http.StatusBadRequest, CodeInvalidState},
		{"past event", ErrBusiness(CodePastEvent), http.StatusBadRequest, CodePastEvent},
		{"too close", ErrBusiness(CodeTooCloseToEvent), http.StatusBadRequest, CodeTooCloseToEvent},
		{"too soon", ErrBusiness(CodeTooSoon), http.StatusBadRequest, CodeTooSoon},
		{"conflict", ErrBusiness(CodeTimeConflict), http.StatusConflict, CodeTimeConflict},
		{"rate limited", ErrBusiness(CodeRateLimited), http.StatusTooManyRequests, CodeRateLimited},
		{"upstream", ErrBusiness(CodeUpstream), http.StatusInternalServerError, CodeUpstream},
		{"unknown error", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respond(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

// Clients read the message from the top-level `error` key.
func TestRespondEnvelopeKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Respond(c, ErrBusiness(CodeTimeConflict))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	assert.Contains(t, raw, "error")
	assert.Contains(t, raw, "error_code")
	assert.NotEmpty(t, raw["error"])
}

func TestRespondHidesInternalDetail(t *testing.T) {
	_, body := respond(t, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))
	assert.NotContains(t, body.Error, "10.0.0.5")
}

func TestBusinessCode(t *testing.T) {
	assert.Equal(t, CodeTooSoon, BusinessCode(ErrBusiness(CodeTooSoon)))
	assert.Equal(t, "", BusinessCode(errors.New("plain")))
	assert.True(t, IsBusiness(ErrBusiness(CodeNotFound), CodeNotFound))
	assert.False(t, IsBusiness(ErrBusiness(CodeNotFound), CodeTooSoon))
}
