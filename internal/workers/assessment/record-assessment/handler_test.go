package recordassessment

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func createTestInput() *Input {
	rec := func(id string, match int) models.CareerRecommendation {
		return models.CareerRecommendation{ID: "r-" + id, Major: models.Major{ID: id}, MatchPercentage: match}
	}
	return &Input{
		AssessmentID: "7f1c7c56-2b3e-4e0a-9a7e-0c2f3c9d1a11",
		SessionID:    "s-1",
		Transcript: models.Transcript{
			ID:          "t-1",
			StudentID:   "S-001",
			Institution: "GS Kigali",
			GPA:         3.81,
			Pathway:     models.PathwayMathScience1,
		},
		Profile: models.PersonalityProfile{
			ID:             "p-1",
			DominantTraits: []models.Pathway{models.PathwayMathScience1, models.PathwayArtsHumanities},
		},
		Recommendations: []models.CareerRecommendation{
			rec("computer-science", 92), rec("engineering", 87), rec("mathematics-statistics", 84), rec("medicine", 60),
		},
		ContactEmail: "student@example.rw",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(&Config{TopN: 3, CatalogVersion: "2024.1"}, db, logger.NewTestLogger(t))
	input := createTestInput()

	mock.ExpectExec(`INSERT INTO assessments`).
		WithArgs(
			input.AssessmentID,
			"s-1",
			"S-001",
			"GS Kigali",
			3.81,
			0,
			"mathematics_science_1",
			sqlmock.AnyArg(), // dominant traits array
			sqlmock.AnyArg(), // top major ids array
			92,
			"2024.1",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"student@example.rw",
			nil,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("assessment_recorded", "assessment", input.AssessmentID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, input.AssessmentID, output.AssessmentID)
	assert.Equal(t, []string{"computer-science", "engineering", "mathematics-statistics"}, output.TopMajorIDs)
	assert.NotEmpty(t, output.RecordedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_GeneratesID(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(LoadConfig(), db, logger.NewTestLogger(t))
	input := createTestInput()
	input.AssessmentID = ""

	mock.ExpectExec(`INSERT INTO assessments`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	_, err = uuid.Parse(output.AssessmentID)
	assert.NoError(t, err)
}

func TestHandler_Execute_AuditFailureIsNotFatal(t *testing.T) {
	db, mock := setupMockDB(t)
	h := NewHandler(LoadConfig(), db, logger.NewTestLogger(t))

	mock.ExpectExec(`INSERT INTO assessments`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnError(errors.New("relation audit_log does not exist"))

	_, err := h.Execute(context.Background(), createTestInput())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DatabaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{
			name: "connection failure",
			err:  &pq.Error{Code: "08006", Message: "connection failure"},
			code: apperrors.ErrCodeDatabaseConnectionFailed,
		},
		{
			name: "constraint violation",
			err:  &pq.Error{Code: "23502", Message: "null value in column"},
			code: apperrors.ErrCodeDatabaseInsertFailed,
		},
		{
			name: "closed connection",
			err:  sql.ErrConnDone,
			code: apperrors.ErrCodeDatabaseConnectionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			h := NewHandler(LoadConfig(), db, logger.NewTestLogger(t))
			mock.ExpectExec(`INSERT INTO assessments`).WillReturnError(tt.err)

			_, err := h.Execute(context.Background(), createTestInput())
			require.Error(t, err)

			stdErr := apperrors.Normalize(err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.True(t, stdErr.Retryable)
		})
	}
}

func TestTopMajorIDs(t *testing.T) {
	recs := createTestInput().Recommendations
	assert.Len(t, topMajorIDs(recs, 2), 2)
	assert.Len(t, topMajorIDs(recs, 10), 4)
	assert.Len(t, topMajorIDs(recs, 0), 4)
	assert.Empty(t, topMajorIDs(nil, 3))
}

func TestInputSchema(t *testing.T) {
	require.NoError(t, validation.CompileSchema(GetInputSchema()))

	res, err := validation.ValidateVariables(`{"transcript":{"id":"t","studentId":"s"},"profile":{"id":"p"},"recommendations":[]}`, GetInputSchema())
	require.NoError(t, err)
	assert.False(t, res.Valid)
}
