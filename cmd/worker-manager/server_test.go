package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func TestServeMux_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newServeMux(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestServeMux_Ready(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]check
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all dependencies up",
			checks:     map[string]check{"postgres": ok, "redis": ok},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
		},
		{
			name: "redis down",
			checks: map[string]check{
				"postgres": ok,
				"redis":    func(context.Context) error { return errors.New("connection refused") },
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newServeMux(tt.checks, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, "ok", body.Checks["postgres"])
		})
	}
}

func TestServeMux_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newServeMux(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeMux_StartAssessment(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		body      string
		startErr  error
		wantCode  int
		wantID    string
		wantCalls int
	}{
		{name: "given session", method: http.MethodPost, body: `{"sessionId":"s-1"}`, wantCode: http.StatusAccepted, wantID: "s-1", wantCalls: 1},
		{name: "generated session", method: http.MethodPost, wantCode: http.StatusAccepted, wantCalls: 1},
		{name: "broken body", method: http.MethodPost, body: `{"sessionId":`, wantCode: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodGet, wantCode: http.StatusMethodNotAllowed},
		{name: "process not deployed", method: http.MethodPost, body: `{"sessionId":"s-2"}`, startErr: errors.New("NOT_FOUND"), wantCode: http.StatusBadGateway, wantID: "s-2", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			start := func(_ context.Context, sessionID string) (int64, error) {
				calls = append(calls, sessionID)
				if tt.startErr != nil {
					return 0, tt.startErr
				}
				return 2251799813685249, nil
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/assessments", strings.NewReader(tt.body))
			newServeMux(nil, start).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			require.Len(t, calls, tt.wantCalls)
			if tt.wantCalls == 0 {
				return
			}

			var body struct {
				SessionID          string `json:"sessionId"`
				ProcessInstanceKey int64  `json:"processInstanceKey"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, calls[0], body.SessionID)
			assert.NotEmpty(t, body.SessionID)
			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, body.SessionID)
			}
			if tt.startErr == nil {
				assert.Equal(t, int64(2251799813685249), body.ProcessInstanceKey)
			}
		})
	}
}

func TestServeMux_NoStarter(t *testing.T) {
	rec := httptest.NewRecorder()
	newServeMux(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/assessments", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
