// internal/workers/assessment/manage-assessment-session/handler.go
package manageassessmentsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"career-guidance-workers/internal/assessment"
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
	TaskType = "manage-assessment-session"
)

type Handler struct {
	config *Config
	wizard *assessment.Wizard
	store  assessment.Store
	logger logger.Logger
}

func NewHandler(config *Config, engine *guidance.Engine, store assessment.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		wizard: assessment.NewWizard(engine),
		store:  store,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	session, err := h.loadSession(ctx, input)
	if err != nil {
		return nil, err
	}
	from := session.Step

	err = h.wizard.Apply(session, assessment.Command{
		Action:      assessment.Action(input.Action),
		Institution: input.Institution,
		StudentID:   input.StudentID,
		Subjects:    input.Subjects,
		Responses:   input.Responses,
	})
	if err != nil {
		return nil, mapWizardError(err)
	}

	if err := h.store.Save(ctx, session); err != nil {
		return nil, apperrors.NewSessionStoreFailedError(err)
	}

	h.logger.Info("assessment session updated", map[string]interface{}{
		"sessionId": session.ID,
		"action":    input.Action,
		"from":      from,
		"to":        session.Step,
	})

	return &Output{
		SessionID:       session.ID,
		Step:            string(session.Step),
		Complete:        session.Complete(),
		Transcript:      session.Transcript,
		Profile:         session.Profile,
		Recommendations: session.Recommendations,
	}, nil
}

// loadSession creates the session on start when the caller did not supply
// an ID, and reads it from the store otherwise.
func (h *Handler) loadSession(ctx context.Context, input *Input) (*assessment.Session, error) {
	if input.SessionID == "" {
		if assessment.Action(input.Action) != assessment.ActionStart {
			return nil, apperrors.NewInputSchemaInvalidError("sessionId is required for " + input.Action)
		}
		return assessment.NewSession(uuid.NewString(), time.Now().UTC()), nil
	}

	session, err := h.store.Get(ctx, input.SessionID)
	switch {
	case errors.Is(err, assessment.ErrSessionNotFound):
		if assessment.Action(input.Action) == assessment.ActionStart {
			return assessment.NewSession(input.SessionID, time.Now().UTC()), nil
		}
		return nil, apperrors.NewSessionNotFoundError(input.SessionID)
	case err != nil:
		return nil, apperrors.NewSessionStoreFailedError(err)
	}
	return session, nil
}

func mapWizardError(err error) error {
	var pe *guidance.ProblemsError
	switch {
	case errors.As(err, &pe):
		return apperrors.FromValidation(apperrors.ErrorCode(pe.Kind.Error()), pe.Problems)
	case errors.Is(err, assessment.ErrInvalidTransition):
		return apperrors.NewInvalidSessionTransitionError(err.Error())
	case errors.Is(err, assessment.ErrUnknownAction):
		return apperrors.NewInputSchemaInvalidError(err.Error())
	}
	return apperrors.NewRecommendationFailedError(err)
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
