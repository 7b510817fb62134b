// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Business errors end the job with a BPMN error the process can catch.
const (
	ErrCodeTranscriptInvalid        ErrorCode = "TRANSCRIPT_INVALID"
	ErrCodeProfileIncomplete        ErrorCode = "PROFILE_INCOMPLETE"
	ErrCodeInvalidResponse          ErrorCode = "INVALID_RESPONSE"
	ErrCodeInputSchemaInvalid       ErrorCode = "INPUT_SCHEMA_INVALID"
	ErrCodeSessionNotFound          ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidSessionTransition ErrorCode = "INVALID_SESSION_TRANSITION"
	ErrCodeIndexNotFound            ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeRecipientMissing         ErrorCode = "NOTIFICATION_RECIPIENT_MISSING"
	ErrCodeRecommendationFailed     ErrorCode = "RECOMMENDATION_FAILED"
)

// Technical errors are retried before the incident is raised.
const (
	ErrCodeCatalogLoadFailed             ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed          ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed          ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout                 ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeSessionStoreFailed            ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeNotificationSendFailed        ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeServiceUnavailable            ErrorCode = "SERVICE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newBusiness(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func newTechnical(code ErrorCode, message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewTranscriptInvalidError carries every validation problem in metadata.
func NewTranscriptInvalidError(problems []string) *StandardError {
	return newBusiness(ErrCodeTranscriptInvalid, "Transcript failed validation", strings.Join(problems, "; ")).
		WithMetadata("validationErrors", problems)
}

func NewProfileIncompleteError(problems []string) *StandardError {
	return newBusiness(ErrCodeProfileIncomplete, "Personality questionnaire is incomplete", strings.Join(problems, "; ")).
		WithMetadata("validationErrors", problems)
}

func NewInvalidResponseError(problems []string) *StandardError {
	return newBusiness(ErrCodeInvalidResponse, "Personality questionnaire has invalid answers", strings.Join(problems, "; ")).
		WithMetadata("validationErrors", problems)
}

// FromValidation builds the business error for problems reported under code
// by the engine, whose sentinel errors use the same code strings.
func FromValidation(code ErrorCode, problems []string) *StandardError {
	switch code {
	case ErrCodeTranscriptInvalid:
		return NewTranscriptInvalidError(problems)
	case ErrCodeProfileIncomplete:
		return NewProfileIncompleteError(problems)
	case ErrCodeInvalidResponse:
		return NewInvalidResponseError(problems)
	}
	return newBusiness(code, "Validation failed", strings.Join(problems, "; ")).
		WithMetadata("validationErrors", problems)
}

func NewInputSchemaInvalidError(details string) *StandardError {
	return newBusiness(ErrCodeInputSchemaInvalid, "Job variables do not match the input schema", details)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newBusiness(ErrCodeSessionNotFound, "Assessment session not found", fmt.Sprintf("session %s", sessionID))
}

func NewInvalidSessionTransitionError(details string) *StandardError {
	return newBusiness(ErrCodeInvalidSessionTransition, "Action not allowed in the current assessment step", details)
}

func NewIndexNotFoundError(indexName string) *StandardError {
	return newBusiness(ErrCodeIndexNotFound, "Search index not found", fmt.Sprintf("index %s", indexName))
}

func NewRecipientMissingError(details string) *StandardError {
	return newBusiness(ErrCodeRecipientMissing, "No notification channel has a recipient", details)
}

func NewRecommendationFailedError(err error) *StandardError {
	e := newTechnical(ErrCodeRecommendationFailed, "Could not generate recommendations", err)
	e.Retryable = false
	return e
}

func NewCatalogLoadFailedError(err error) *StandardError {
	return newTechnical(ErrCodeCatalogLoadFailed, "Failed to load the reference catalog", err)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newTechnical(ErrCodeDatabaseConnectionFailed, "Database connection failed", err)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newTechnical(ErrCodeDatabaseInsertFailed, "Failed to persist record", err)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newTechnical(ErrCodeQueryExecutionFailed, fmt.Sprintf("Query %s failed", queryType), err)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newTechnical(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection failed", err)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newTechnical(ErrCodeSearchQueryFailed, fmt.Sprintf("Search on %s failed", index), err)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newTechnical(ErrCodeSearchTimeout, fmt.Sprintf("Search on %s timed out", index), nil)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newTechnical(ErrCodeSessionStoreFailed, "Assessment session store unavailable", err)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newTechnical(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s notification", channel), err)
}

func NewServiceUnavailableError(service string, err error) *StandardError {
	return newTechnical(ErrCodeServiceUnavailable, fmt.Sprintf("%s is unavailable", service), err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the BPMN error codes the
// assessment process catches. Codes missing here are thrown unchanged.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeTranscriptInvalid:        "TRANSCRIPT_INVALID",
	ErrCodeProfileIncomplete:        "PROFILE_INCOMPLETE",
	ErrCodeInvalidResponse:          "PROFILE_INCOMPLETE",
	ErrCodeInputSchemaInvalid:       "INPUT_SCHEMA_INVALID",
	ErrCodeSessionNotFound:          "SESSION_NOT_FOUND",
	ErrCodeInvalidSessionTransition: "INVALID_SESSION_TRANSITION",
	ErrCodeRecipientMissing:         "NOTIFICATION_SKIPPED",
	ErrCodeCatalogLoadFailed:        "CATALOG_UNAVAILABLE",
	ErrCodeSearchTimeout:            "SEARCH_UNAVAILABLE",
	ErrCodeSearchQueryFailed:        "SEARCH_UNAVAILABLE",
	ErrCodeServiceUnavailable:       "SERVICE_UNAVAILABLE",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogLoadFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeSearchTimeout,
		ErrCodeServiceUnavailable:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TRANSCRIPT") || strings.Contains(codeStr, "PROFILE") ||
		strings.Contains(codeStr, "RESPONSE") || strings.Contains(codeStr, "RECOMMENDATION"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
