// internal/workers/assessment/notify-assessment-result/handler.go
package notifyassessmentresult

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-guidance-workers/internal/common/aws"
	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/metrics"
	"career-guidance-workers/internal/common/resilience"
	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	TaskType = "notify-assessment-result"
)

// EmailSender and SMSSender are satisfied by the SES and SNS wrappers.
type EmailSender interface {
	Send(ctx context.Context, email aws.Email) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config  *Config
	email   EmailSender
	sms     SMSSender
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  logger.Logger
}

func NewHandler(config *Config, email EmailSender, sms SMSSender, breaker *resilience.Breaker, log logger.Logger) *Handler {
	limit := rate.Inf
	if config.RatePerSecond > 0 {
		limit = rate.Limit(config.RatePerSecond)
	}
	return &Handler{
		config:  config,
		email:   email,
		sms:     sms,
		limiter: rate.NewLimiter(limit, 1),
		breaker: breaker,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
	sendEmail := h.config.EmailEnabled && h.email != nil
	sendSMS := h.config.SMSEnabled && h.sms != nil

	output := &Output{
		NotificationID: uuid.NewString(),
		Status:         StatusDisabled,
		Channels:       []string{},
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}
	if !sendEmail && !sendSMS {
		h.logger.Info("notifications disabled", map[string]interface{}{
			"assessmentId": input.AssessmentID,
		})
		return output, nil
	}

	sendEmail = sendEmail && input.ContactEmail != ""
	sendSMS = sendSMS && input.ContactPhone != ""
	if !sendEmail && !sendSMS {
		return nil, apperrors.NewRecipientMissingError(
			fmt.Sprintf("assessment %s has no contact details for the enabled channels", input.AssessmentID))
	}

	matches := input.Recommendations
	if h.config.TopMatches > 0 && len(matches) > h.config.TopMatches {
		matches = matches[:h.config.TopMatches]
	}

	var failures []error
	if sendEmail {
		if err := h.deliverEmail(ctx, input, matches); err != nil {
			failures = append(failures, err)
		} else {
			output.Channels = append(output.Channels, ChannelEmail)
		}
	}
	if sendSMS {
		if err := h.deliverSMS(ctx, input, matches); err != nil {
			failures = append(failures, err)
		} else {
			output.Channels = append(output.Channels, ChannelSMS)
		}
	}

	switch {
	case len(output.Channels) == 0:
		return nil, failures[0]
	case len(failures) > 0:
		output.Status = StatusPartial
	default:
		output.Status = StatusSent
	}

	h.logger.Info("assessment result sent", map[string]interface{}{
		"assessmentId":   input.AssessmentID,
		"notificationId": output.NotificationID,
		"channels":       output.Channels,
		"status":         output.Status,
	})
	return output, nil
}

func (h *Handler) deliverEmail(ctx context.Context, input *Input, matches []models.CareerRecommendation) error {
	text, html, err := render(input.StudentName, matches)
	if err != nil {
		return apperrors.NewNotificationSendFailedError(ChannelEmail, fmt.Errorf("render email: %w", err))
	}
	return h.deliver(ctx, ChannelEmail, func() (string, error) {
		return h.email.Send(ctx, aws.Email{
			From:     h.config.FromEmail,
			To:       input.ContactEmail,
			Subject:  subjectLine,
			TextBody: text,
			HTMLBody: html,
		})
	})
}

func (h *Handler) deliverSMS(ctx context.Context, input *Input, matches []models.CareerRecommendation) error {
	return h.deliver(ctx, ChannelSMS, func() (string, error) {
		return h.sms.SendSMS(ctx, input.ContactPhone, smsText(matches))
	})
}

// deliver waits for the rate limiter and sends through the breaker shared by
// both AWS channels.
func (h *Handler) deliver(ctx context.Context, channel string, send func() (string, error)) error {
	if err := h.limiter.Wait(ctx); err != nil {
		metrics.NotificationsSent.WithLabelValues(channel, "throttled").Inc()
		return apperrors.NewNotificationSendFailedError(channel, fmt.Errorf("rate limit wait: %w", err))
	}

	res, err := h.breaker.Execute(func() (interface{}, error) {
		return send()
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(channel, "failed").Inc()
		h.logger.Error("notification send failed", map[string]interface{}{
			"channel": channel,
			"error":   err,
		})
		if resilience.IsOpen(err) {
			return apperrors.NewServiceUnavailableError("aws-"+channel, err)
		}
		return apperrors.NewNotificationSendFailedError(channel, err)
	}

	metrics.NotificationsSent.WithLabelValues(channel, "sent").Inc()
	h.logger.Debug("notification delivered", map[string]interface{}{
		"channel":   channel,
		"messageId": res,
	})
	return nil
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
