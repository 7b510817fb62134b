// internal/workers/recommendation/generate-recommendations/handler.go
package generaterecommendations

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/metrics"
	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/guidance"
	"career-guidance-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "generate-recommendations"

	cacheName   = "recommendations"
	cachePrefix = "recommendations:"
)

type Handler struct {
	config *Config
	engine *guidance.Engine
	redis  *redis.Client
	logger logger.Logger
}

// NewHandler accepts a nil redis client, in which case results are not cached.
func NewHandler(config *Config, engine *guidance.Engine, redis *redis.Client, log logger.Logger) *Handler {
	if config.CatalogVersion == "" {
		config.CatalogVersion = engine.Catalog().Version
	}
	return &Handler{
		config: config,
		engine: engine,
		redis:  redis,
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
	key, err := h.cacheKey(input)
	if err != nil {
		return nil, apperrors.NewRecommendationFailedError(err)
	}

	recs, cached := h.fromCache(ctx, key)
	if !cached {
		recs, err = h.engine.GenerateRecommendations(input.Transcript, input.Profile)
		if err != nil {
			var pe *guidance.ProblemsError
			if errors.As(err, &pe) {
				return nil, apperrors.FromValidation(apperrors.ErrorCode(pe.Kind.Error()), pe.Problems)
			}
			return nil, apperrors.NewRecommendationFailedError(err)
		}
		h.store(ctx, key, recs)
	}

	pathway := h.engine.ClassifyPathway(input.Transcript.Subjects)
	output := &Output{
		Recommendations: recs,
		TotalMajors:     len(recs),
		Pathway:         pathway,
		Cached:          cached,
	}
	if len(recs) > 0 {
		top := recs[0]
		output.TopMatch = &top
		metrics.RecommendationTopMatch.Observe(float64(top.MatchPercentage))
	}
	if input.Limit > 0 && input.Limit < len(recs) {
		output.Recommendations = recs[:input.Limit]
	}
	metrics.RecommendationsGenerated.WithLabelValues(string(pathway)).Inc()

	h.logger.Info("recommendations generated", map[string]interface{}{
		"transcriptId": input.Transcript.ID,
		"profileId":    input.Profile.ID,
		"pathway":      pathway,
		"majors":       len(recs),
		"returned":     len(output.Recommendations),
		"cached":       cached,
	})

	return output, nil
}

// cacheKey hashes the catalog version with the whole transcript and profile,
// scores included. Limit only trims the output, so it is left out.
func (h *Handler) cacheKey(input *Input) (string, error) {
	payload, err := json.Marshal(struct {
		Catalog    string                    `json:"catalog"`
		Transcript models.Transcript         `json:"transcript"`
		Profile    models.PersonalityProfile `json:"profile"`
	}{h.config.CatalogVersion, input.Transcript, input.Profile})
	if err != nil {
		return "", fmt.Errorf("build cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return cachePrefix + hex.EncodeToString(sum[:]), nil
}

func (h *Handler) fromCache(ctx context.Context, key string) ([]models.CareerRecommendation, bool) {
	if h.redis == nil {
		return nil, false
	}
	val, err := h.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("recommendation cache lookup failed", map[string]interface{}{
				"error": err,
			})
		}
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
		return nil, false
	}

	var recs []models.CareerRecommendation
	if err := json.Unmarshal(val, &recs); err != nil {
		h.logger.Warn("cached recommendations are unreadable", map[string]interface{}{
			"error": err,
		})
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(cacheName).Inc()
	return recs, true
}

func (h *Handler) store(ctx context.Context, key string, recs []models.CareerRecommendation) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("failed to cache recommendations", map[string]interface{}{
			"error": err,
		})
	}
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
