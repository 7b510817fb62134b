package notifyassessmentresult

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"career-guidance-workers/internal/common/aws"
	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/resilience"
	"career-guidance-workers/internal/common/validation"
	"career-guidance-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) Send(ctx context.Context, email aws.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

type MockSMSSender struct{ mock.Mock }

func (m *MockSMSSender) SendSMS(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		EmailEnabled:  true,
		SMSEnabled:    true,
		FromEmail:     "guidance@example.rw",
		RatePerSecond: 100,
		TopMatches:    2,
	}
}

func newTestHandler(t *testing.T, cfg *Config, email EmailSender, sms SMSSender) *Handler {
	t.Helper()
	breaker := resilience.NewBreaker(resilience.BreakerConfig{Name: t.Name(), FailureThreshold: 5}, logger.NewTestLogger(t))
	return NewHandler(cfg, email, sms, breaker, logger.NewTestLogger(t))
}

func createTestInput() *Input {
	rec := func(name string, match int) models.CareerRecommendation {
		return models.CareerRecommendation{
			Major:           models.Major{ID: strings.ToLower(name), Name: name},
			MatchPercentage: match,
			Explanation:     name + " builds directly on your subjects.",
		}
	}
	return &Input{
		AssessmentID: "a-1",
		StudentName:  "Aline",
		ContactEmail: "aline@example.rw",
		ContactPhone: "+250788123456",
		Recommendations: []models.CareerRecommendation{
			rec("Computer Science", 92), rec("Engineering", 87), rec("Medicine", 70),
		},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsBothChannels(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	email.On("Send", mock.Anything, mock.MatchedBy(func(e aws.Email) bool {
		return e.To == "aline@example.rw" &&
			e.From == "guidance@example.rw" &&
			strings.Contains(e.TextBody, "Hello Aline") &&
			strings.Contains(e.TextBody, "2. Engineering (87% match)") &&
			!strings.Contains(e.TextBody, "Medicine") &&
			strings.Contains(e.HTMLBody, "<strong>Computer Science</strong>")
	})).Return("msg-1", nil)
	sms.On("SendSMS", mock.Anything, "+250788123456",
		"Career guidance results: Computer Science 92%, Engineering 87%. Check your email for details.").
		Return("sms-1", nil)

	h := newTestHandler(t, createTestConfig(), email, sms)
	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{ChannelEmail, ChannelSMS}, output.Channels)
	assert.NotEmpty(t, output.NotificationID)
	email.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestHandler_Execute_Disabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false
	email := new(MockEmailSender)

	output, err := newTestHandler(t, cfg, email, nil).Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, output.Channels)
	email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandler_Execute_RecipientMissing(t *testing.T) {
	input := createTestInput()
	input.ContactEmail = ""
	input.ContactPhone = ""

	_, err := newTestHandler(t, createTestConfig(), new(MockEmailSender), new(MockSMSSender)).
		Execute(context.Background(), input)

	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeRecipientMissing, stdErr.Code)
	assert.Equal(t, "NOTIFICATION_SKIPPED", apperrors.ConvertToBPMNError(stdErr).Code)
}

func TestHandler_Execute_PartialFailure(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	email.On("Send", mock.Anything, mock.Anything).Return("", errors.New("MessageRejected"))
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return("sms-1", nil)

	output, err := newTestHandler(t, createTestConfig(), email, sms).Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusPartial, output.Status)
	assert.Equal(t, []string{ChannelSMS}, output.Channels)
}

func TestHandler_Execute_AllChannelsFail(t *testing.T) {
	cfg := createTestConfig()
	cfg.SMSEnabled = false
	email := new(MockEmailSender)
	email.On("Send", mock.Anything, mock.Anything).Return("", errors.New("Throttling"))

	_, err := newTestHandler(t, cfg, email, nil).Execute(context.Background(), createTestInput())

	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_BreakerOpen(t *testing.T) {
	cfg := createTestConfig()
	cfg.SMSEnabled = false
	email := new(MockEmailSender)
	email.On("Send", mock.Anything, mock.Anything).Return("", errors.New("ServiceUnavailable")).Once()

	breaker := resilience.NewBreaker(resilience.BreakerConfig{Name: t.Name(), FailureThreshold: 1, Timeout: time.Minute}, nil)
	h := NewHandler(cfg, email, nil, breaker, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), createTestInput())
	require.Error(t, err)

	_, err = h.Execute(context.Background(), createTestInput())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeServiceUnavailable, apperrors.Normalize(err).Code)
	email.AssertNumberOfCalls(t, "Send", 1)
}

func TestRender_DefaultsName(t *testing.T) {
	text, html, err := render("  ", createTestInput().Recommendations[:1])
	require.NoError(t, err)
	assert.Contains(t, text, "Hello there,")
	assert.Contains(t, html, "<li><strong>Computer Science</strong> (92% match)")
}

func TestRender_EscapesHTML(t *testing.T) {
	_, html, err := render("<script>", createTestInput().Recommendations[:1])
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestInputSchema(t *testing.T) {
	require.NoError(t, validation.CompileSchema(GetInputSchema()))

	res, err := validation.ValidateVariables(`{"assessmentId":"a","recommendations":[{}],"contactPhone":"0788"}`, GetInputSchema())
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("contactPhone"))
}
