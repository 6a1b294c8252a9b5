package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeInvalidMIME  = "INVALID_MIME"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeInvalidURL   = "INVALID_URL"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// ErrCodeRobotBlock is reserved for a strict robots-enforcement mode.
	// The advisory policy never raises it; disallow matches only set
	// Meta.RobotWarning on the record.
	ErrCodeRobotBlock = "ROBOT_BLOCK"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Attempts int    `json:"retry_attempts,omitempty"`
}

// ScrapeError is the internal error type carrying an error code and,
// for fetch-level failures, the number of attempts made before giving up.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code     string
	Message  string
	Attempts int
	Err      error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// NewFetchError creates a ScrapeError for an exhausted fetch, recording how
// many attempts were made.
func NewFetchError(code, message string, attempts int, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Attempts: attempts, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message, Attempts: e.Attempts}
}
