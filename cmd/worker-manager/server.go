package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"career-guidance-workers/internal/common/camunda"
	"career-guidance-workers/internal/common/database"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type check func(ctx context.Context) error

// startFunc creates a process instance for an assessment session and returns
// its key.
type startFunc func(ctx context.Context, sessionID string) (int64, error)

type startRequest struct {
	SessionID string `json:"sessionId"`
}

func readinessChecks(pg *database.PostgresClient, rdb *database.RedisClient, es *database.ElasticsearchClient, zb *camunda.Client) map[string]check {
	return map[string]check{
		"postgres":      pg.Ping,
		"redis":         rdb.Ping,
		"elasticsearch": es.Ping,
		"zeebe":         zb.HealthCheck,
	}
}

// newServeMux serves /health (liveness), /ready (every dependency answers),
// /metrics and, when start is set, POST /assessments.
func newServeMux(checks map[string]check, start startFunc) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		results := make(map[string]string, len(checks))
		for name, c := range checks {
			if err := c(ctx); err != nil {
				results[name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": results,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	if start != nil {
		mux.HandleFunc("/assessments", startAssessmentHandler(start))
	}
	return mux
}

// startAssessmentHandler starts the assessment process for the given session,
// or for a new session ID when the body names none.
func startAssessmentHandler(start startFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{"error": "method not allowed"})
			return
		}

		var req startRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
				return
			}
		}
		if req.SessionID == "" {
			req.SessionID = uuid.New().String()
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		key, err := start(ctx, req.SessionID)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":     err.Error(),
				"sessionId": req.SessionID,
			})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]interface{}{
			"sessionId":          req.SessionID,
			"processInstanceKey": key,
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
