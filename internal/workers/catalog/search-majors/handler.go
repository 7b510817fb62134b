// internal/workers/catalog/search-majors/handler.go
package searchmajors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/metrics"
	"career-guidance-workers/internal/common/resilience"
	"career-guidance-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "search-majors"
)

type Handler struct {
	config  *Config
	client  *elasticsearch.Client
	breaker *resilience.Breaker
	logger  logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, breaker *resilience.Breaker, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		client:  client,
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

type searchResponse struct {
	indexMissing bool

	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	page, size := h.pagination(input)
	body, err := json.Marshal(buildQuery(input, page*size, size))
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(h.config.IndexName, err)
	}

	res, err := h.breaker.Execute(func() (interface{}, error) {
		return h.search(ctx, body)
	})
	if err != nil {
		return nil, h.classify(ctx, err)
	}
	sr := res.(*searchResponse)
	if sr.indexMissing {
		return nil, apperrors.NewIndexNotFoundError(h.config.IndexName)
	}

	output := &Output{
		Majors:    make([]MajorHit, 0, len(sr.Hits.Hits)),
		TotalHits: sr.Hits.Total.Value,
		Page:      page,
		PageSize:  size,
		Took:      sr.Took,
	}
	for _, hit := range sr.Hits.Hits {
		var m MajorHit
		if err := json.Unmarshal(hit.Source, &m.MajorDocument); err != nil {
			h.logger.Warn("skipping unreadable search hit", map[string]interface{}{
				"error": err,
			})
			continue
		}
		if hit.Score != nil {
			m.Score = *hit.Score
		}
		output.Majors = append(output.Majors, m)
	}

	h.logger.Info("majors searched", map[string]interface{}{
		"query":     input.Query,
		"totalHits": output.TotalHits,
		"returned":  len(output.Majors),
		"took":      output.Took,
	})

	return output, nil
}

// search runs inside the breaker, so only failures of the cluster itself
// are errors. A missing index is a deployment problem and must not trip it.
func (h *Handler) search(ctx context.Context, body []byte) (*searchResponse, error) {
	res, err := h.client.Search(
		h.client.Search.WithContext(ctx),
		h.client.Search.WithIndex(h.config.IndexName),
		h.client.Search.WithBody(bytes.NewReader(body)),
		h.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return &searchResponse{indexMissing: true}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &sr, nil
}

func (h *Handler) classify(ctx context.Context, err error) error {
	switch {
	case resilience.IsOpen(err):
		return apperrors.NewServiceUnavailableError("elasticsearch", err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewSearchTimeoutError(h.config.IndexName)
	}
	return apperrors.NewSearchQueryFailedError(h.config.IndexName, err)
}

func (h *Handler) pagination(input *Input) (int, int) {
	size := input.PageSize
	if size <= 0 {
		size = h.config.DefaultPageSize
	}
	if size > h.config.MaxPageSize {
		size = h.config.MaxPageSize
	}
	page := input.Page
	if page < 0 {
		page = 0
	}
	return page, size
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
