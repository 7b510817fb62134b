package generaterecommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"career-guidance-workers/internal/catalog"
	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/guidance"
	"career-guidance-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestEngine(t *testing.T) *guidance.Engine {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return guidance.NewEngine(c)
}

func setupMiniredis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func createTestInput(t *testing.T, e *guidance.Engine) *Input {
	t.Helper()
	var responses []models.PersonalityResponse
	for _, q := range e.Catalog().Questions {
		v := 2
		if q.Category == models.PathwayMathScience1 {
			v = 5
		}
		responses = append(responses, models.PersonalityResponse{QuestionID: q.ID, Answer: models.ScaleAnswer(v)})
	}
	profile, err := e.ScorePersonality("p-1", responses)
	require.NoError(t, err)

	subjects := []models.Subject{
		{Name: "Mathematics", Grade: "A", CreditHours: 4, Semester: "Term 1", Year: 2024},
		{Name: "Physics", Grade: "B+", CreditHours: 3, Semester: "Term 1", Year: 2024},
		{Name: "Computer Science", Grade: "A+", CreditHours: 4, Semester: "Term 1", Year: 2024},
	}
	return &Input{
		Transcript: models.Transcript{
			ID:           "t-1",
			Subjects:     subjects,
			GPA:          e.CalculateGPA(subjects),
			TotalCredits: e.TotalCredits(subjects),
		},
		Profile: profile,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RanksEveryMajor(t *testing.T) {
	e := newTestEngine(t)
	client, _ := setupMiniredis(t)
	h := NewHandler(LoadConfig(), e, client, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), createTestInput(t, e))
	require.NoError(t, err)

	assert.False(t, output.Cached)
	assert.Equal(t, len(e.Catalog().Majors), output.TotalMajors)
	assert.Len(t, output.Recommendations, output.TotalMajors)
	assert.Equal(t, models.PathwayMathScience1, output.Pathway)
	require.NotNil(t, output.TopMatch)
	assert.Equal(t, output.Recommendations[0].ID, output.TopMatch.ID)

	for i := 1; i < len(output.Recommendations); i++ {
		assert.GreaterOrEqual(t, output.Recommendations[i-1].MatchPercentage, output.Recommendations[i].MatchPercentage)
	}
}

func TestHandler_Execute_UsesCache(t *testing.T) {
	e := newTestEngine(t)
	client, mr := setupMiniredis(t)
	cfg := LoadConfig()
	cfg.CacheTTL = 30 * time.Minute
	h := NewHandler(cfg, e, client, logger.NewTestLogger(t))
	input := createTestInput(t, e)

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)
	assert.Equal(t, 30*time.Minute, mr.TTL(mr.Keys()[0]))

	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Recommendations, second.Recommendations)
}

func TestHandler_Execute_ChangedScoresMissCache(t *testing.T) {
	e := newTestEngine(t)
	client, mr := setupMiniredis(t)
	h := NewHandler(LoadConfig(), e, client, logger.NewTestLogger(t))
	input := createTestInput(t, e)

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, first.TopMatch)
	assert.Equal(t, 100, first.TopMatch.PersonalityMatch)

	scores := make(map[models.Pathway]int, len(input.Profile.Scores))
	for k, v := range input.Profile.Scores {
		scores[k] = v
	}
	scores[models.PathwayMathScience1] = 30
	input.Profile.Scores = scores

	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.Len(t, mr.Keys(), 2)

	for _, r := range second.Recommendations {
		if r.Major.Pathway == models.PathwayMathScience1 {
			assert.Equal(t, 30, r.PersonalityMatch, r.Major.ID)
		}
	}
}

func TestHandler_Execute_Limit(t *testing.T) {
	e := newTestEngine(t)
	h := NewHandler(LoadConfig(), e, nil, logger.NewTestLogger(t))
	input := createTestInput(t, e)
	input.Limit = 3

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Len(t, output.Recommendations, 3)
	assert.Equal(t, len(e.Catalog().Majors), output.TotalMajors)
}

func TestHandler_Execute_CacheKeyIgnoresLimit(t *testing.T) {
	e := newTestEngine(t)
	h := NewHandler(LoadConfig(), e, nil, logger.NewTestLogger(t))
	input := createTestInput(t, e)

	a, err := h.cacheKey(input)
	require.NoError(t, err)
	input.Limit = 2
	b, err := h.cacheKey(input)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	input.Transcript.Subjects[0].Grade = "B"
	c, err := h.cacheKey(input)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestHandler_Execute_RedisErrorFallsBack(t *testing.T) {
	e := newTestEngine(t)
	client, mock := redismock.NewClientMock()
	h := NewHandler(LoadConfig(), e, client, logger.NewTestLogger(t))
	input := createTestInput(t, e)
	key, err := h.cacheKey(input)
	require.NoError(t, err)

	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet(key, `.*`, time.Hour).SetErr(errors.New("connection refused"))

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, output.Cached)
	assert.NotEmpty(t, output.Recommendations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_IncompleteProfile(t *testing.T) {
	e := newTestEngine(t)
	h := NewHandler(LoadConfig(), e, nil, logger.NewTestLogger(t))
	input := createTestInput(t, e)
	input.Profile.Responses = input.Profile.Responses[:5]

	_, err := h.Execute(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeProfileIncomplete, apperrors.Normalize(err).Code)
}

func TestInputSchema(t *testing.T) {
	require.NoError(t, validation.CompileSchema(GetInputSchema()))

	res, err := validation.ValidateVariables(`{"transcript":{"subjects":[],"gpa":5},"profile":{"responses":[],"scores":{}}}`, GetInputSchema())
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("transcript.gpa"))
}
