// internal/workers/transcript/calculate-gpa/handler.go
package calculategpa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/metrics"
	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/guidance"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "calculate-gpa"
)

type Handler struct {
	config *Config
	engine *guidance.Engine
	logger logger.Logger
}

func NewHandler(config *Config, engine *guidance.Engine, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	id := input.TranscriptID
	if id == "" {
		id = uuid.NewString()
	}

	t, err := h.engine.BuildTranscript(id, input.Institution, input.StudentID, input.Subjects)
	if err != nil {
		var pe *guidance.ProblemsError
		if errors.As(err, &pe) {
			return nil, apperrors.FromValidation(apperrors.ErrCodeTranscriptInvalid, pe.Problems)
		}
		return nil, apperrors.NewRecommendationFailedError(err)
	}

	h.logger.Info("gpa calculated", map[string]interface{}{
		"transcriptId": t.ID,
		"studentId":    t.StudentID,
		"gpa":          t.GPA,
		"totalCredits": t.TotalCredits,
		"pathway":      t.Pathway,
	})

	return &Output{
		Transcript:   t,
		GPA:          t.GPA,
		TotalCredits: t.TotalCredits,
		Pathway:      t.Pathway,
	}, nil
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
