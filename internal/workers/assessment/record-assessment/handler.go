// internal/workers/assessment/record-assessment/handler.go
package recordassessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/metrics"
	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TaskType = "record-assessment"
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	result, err := validation.ValidateVariables(job.Variables, GetInputSchema())
	if err != nil {
		h.failJob(client, job, apperrors.NewInputSchemaInvalidError(err.Error()))
		return
	}
	if !result.Valid {
		h.failJob(client, job, apperrors.NewInputSchemaInvalidError(result.Error()))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInputSchemaInvalidError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// execute upserts on the assessment ID so a retried job does not create a
// second row.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	id := input.AssessmentID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	topIDs := topMajorIDs(input.Recommendations, h.config.TopN)

	transcriptJSON, err := json.Marshal(input.Transcript)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal transcript: %w", err))
	}
	profileJSON, err := json.Marshal(input.Profile)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal profile: %w", err))
	}
	recsJSON, err := json.Marshal(input.Recommendations)
	if err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(fmt.Errorf("marshal recommendations: %w", err))
	}

	topMatch := 0
	if len(input.Recommendations) > 0 {
		topMatch = input.Recommendations[0].MatchPercentage
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO assessments (
			id, session_id, student_id, institution, gpa, total_credits, pathway,
			dominant_traits, top_major_ids, top_match, catalog_version,
			transcript, profile, recommendations, contact_email, contact_phone,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
		ON CONFLICT (id) DO UPDATE SET
			top_major_ids = EXCLUDED.top_major_ids,
			top_match = EXCLUDED.top_match,
			recommendations = EXCLUDED.recommendations,
			updated_at = EXCLUDED.updated_at`,
		id,
		nullString(input.SessionID),
		input.Transcript.StudentID,
		input.Transcript.Institution,
		input.Transcript.GPA,
		input.Transcript.TotalCredits,
		string(input.Transcript.Pathway),
		pq.Array(pathwayStrings(input.Profile.DominantTraits)),
		pq.Array(topIDs),
		topMatch,
		h.config.CatalogVersion,
		transcriptJSON,
		profileJSON,
		recsJSON,
		nullString(input.ContactEmail),
		nullString(input.ContactPhone),
		now,
	)
	if err != nil {
		return nil, classifyDBError(err)
	}

	h.writeAudit(ctx, id, input, topIDs, now)

	h.logger.Info("assessment recorded", map[string]interface{}{
		"assessmentId": id,
		"studentId":    input.Transcript.StudentID,
		"pathway":      input.Transcript.Pathway,
		"topMatch":     topMatch,
	})

	return &Output{
		AssessmentID: id,
		RecordedAt:   now.Format(time.RFC3339),
		TopMajorIDs:  topIDs,
	}, nil
}

// writeAudit is best effort; a missing audit row never fails the job.
func (h *Handler) writeAudit(ctx context.Context, id string, input *Input, topIDs []string, at time.Time) {
	details, err := json.Marshal(map[string]interface{}{
		"studentId":   input.Transcript.StudentID,
		"sessionId":   input.SessionID,
		"gpa":         input.Transcript.GPA,
		"pathway":     input.Transcript.Pathway,
		"topMajorIds": topIDs,
	})
	if err != nil {
		details = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"assessment_recorded",
		"assessment",
		id,
		details,
		at,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":        err,
			"assessmentId": id,
		})
	}
}

// classifyDBError separates lost connections from rejected statements using
// the Postgres SQLSTATE class.
func classifyDBError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	return apperrors.NewDatabaseInsertFailedError(err)
}

func topMajorIDs(recs []models.CareerRecommendation, n int) []string {
	if n <= 0 || n > len(recs) {
		n = len(recs)
	}
	ids := make([]string, 0, n)
	for _, r := range recs[:n] {
		ids = append(ids, r.Major.ID)
	}
	return ids
}

func pathwayStrings(ps []models.Pathway) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	apperrors.NewErrorHandler(h.logger).HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
