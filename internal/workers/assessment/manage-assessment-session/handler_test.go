package manageassessmentsession

import (
	"context"
	"testing"
	"time"

	"career-guidance-workers/internal/assessment"
	"career-guidance-workers/internal/catalog"
	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/guidance"
	"career-guidance-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestHandler(t *testing.T) (*Handler, *miniredis.Miniredis, *catalog.Catalog) {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := assessment.NewRedisStore(client, 24*time.Hour)
	return NewHandler(LoadConfig(), guidance.NewEngine(c), store, logger.NewTestLogger(t)), mr, c
}

func subjects() []models.Subject {
	return []models.Subject{
		{Name: "Biology", Grade: "A", CreditHours: 4, Semester: "Term 1", Year: 2024},
		{Name: "Chemistry", Grade: "B+", CreditHours: 4, Semester: "Term 1", Year: 2024},
	}
}

func responses(c *catalog.Catalog) []models.PersonalityResponse {
	var out []models.PersonalityResponse
	for _, q := range c.Questions {
		out = append(out, models.PersonalityResponse{QuestionID: q.ID, Answer: models.ScaleAnswer(3)})
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FullWizard(t *testing.T) {
	h, mr, c := newTestHandler(t)
	ctx := context.Background()

	started, err := h.Execute(ctx, &Input{Action: "start"})
	require.NoError(t, err)
	assert.Equal(t, "transcript", started.Step)
	require.NotEmpty(t, started.SessionID)
	assert.True(t, mr.Exists(assessment.SessionKey(started.SessionID)))

	withTranscript, err := h.Execute(ctx, &Input{
		SessionID:   started.SessionID,
		Action:      "submit_transcript",
		Institution: "GS Butare",
		StudentID:   "S-9",
		Subjects:    subjects(),
	})
	require.NoError(t, err)
	assert.Equal(t, "personality", withTranscript.Step)
	require.NotNil(t, withTranscript.Transcript)
	assert.Equal(t, models.PathwayMathScience2, withTranscript.Transcript.Pathway)

	done, err := h.Execute(ctx, &Input{
		SessionID: started.SessionID,
		Action:    "submit_personality",
		Responses: responses(c),
	})
	require.NoError(t, err)
	assert.Equal(t, "recommendations", done.Step)
	assert.True(t, done.Complete)
	assert.Len(t, done.Recommendations, len(c.Majors))
}

func TestHandler_Execute_StartWithCallerID(t *testing.T) {
	h, mr, _ := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{SessionID: "process-123", Action: "start"})
	require.NoError(t, err)
	assert.Equal(t, "process-123", output.SessionID)
	assert.Equal(t, 24*time.Hour, mr.TTL(assessment.SessionKey("process-123")))
}

func TestHandler_Execute_Errors(t *testing.T) {
	h, _, _ := newTestHandler(t)
	ctx := context.Background()

	started, err := h.Execute(ctx, &Input{Action: "start"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input *Input
		code  apperrors.ErrorCode
	}{
		{
			name:  "unknown session",
			input: &Input{SessionID: "missing", Action: "submit_transcript", Subjects: subjects()},
			code:  apperrors.ErrCodeSessionNotFound,
		},
		{
			name:  "personality before transcript",
			input: &Input{SessionID: started.SessionID, Action: "submit_personality"},
			code:  apperrors.ErrCodeInvalidSessionTransition,
		},
		{
			name:  "invalid transcript",
			input: &Input{SessionID: started.SessionID, Action: "submit_transcript", Institution: "x", StudentID: "y"},
			code:  apperrors.ErrCodeTranscriptInvalid,
		},
		{
			name:  "missing session id",
			input: &Input{Action: "retake"},
			code:  apperrors.ErrCodeInputSchemaInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.Normalize(err).Code)
		})
	}
}

func TestHandler_Execute_StoreUnavailable(t *testing.T) {
	h, mr, _ := newTestHandler(t)
	mr.Close()

	_, err := h.Execute(context.Background(), &Input{SessionID: "s-1", Action: "retake"})
	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeSessionStoreFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestInputSchema(t *testing.T) {
	require.NoError(t, validation.CompileSchema(GetInputSchema()))

	tests := []struct {
		name  string
		vars  string
		valid bool
	}{
		{name: "start without session", vars: `{"action":"start"}`, valid: true},
		{name: "submit without session", vars: `{"action":"submit_transcript"}`, valid: false},
		{name: "unknown action", vars: `{"action":"skip","sessionId":"s"}`, valid: false},
		{name: "retake", vars: `{"action":"retake","sessionId":"s"}`, valid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := validation.ValidateVariables(tt.vars, GetInputSchema())
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
		})
	}
}
