package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch matches every *FetchError.
	ErrFetch = errors.New("fetch questions failed")
	// ErrStore matches every *StoreError.
	ErrStore = errors.New("history store failure")

	ErrInvalidAmount  = fmt.Errorf("amount must be between %d and %d", MinAmount, MaxAmount)
	ErrInvalidRequest = errors.New("invalid fetch request")

	// Session precondition violations. They are programming errors in the
	// caller; the session state is left untouched when one is returned.
	ErrSessionNotStarted  = errors.New("quiz session not started")
	ErrNoCurrentQuestion  = errors.New("no current question")
	ErrAlreadyAnswered    = errors.New("current question already answered")
	ErrQuestionUnanswered = errors.New("current question not answered")
)

type FetchReason string

const (
	FetchReasonInvalidAmount   FetchReason = "invalid_amount"
	FetchReasonInvalidRequest  FetchReason = "invalid_request"
	FetchReasonTransport       FetchReason = "transport"
	FetchReasonStatus          FetchReason = "status"
	FetchReasonDecode          FetchReason = "decode"
	FetchReasonResponseCode    FetchReason = "response_code"
	FetchReasonShortResult     FetchReason = "short_result"
	FetchReasonInvalidQuestion FetchReason = "invalid_question"
)

// FetchError reports why a question set could not be produced. ResponseCode
// is only meaningful for FetchReasonResponseCode.
type FetchError struct {
	Reason       FetchReason
	ResponseCode int
	Err          error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch questions: %s", e.Reason)
	}
	return fmt.Sprintf("fetch questions: %s: %v", e.Reason, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Retryable reports whether repeating the same request may succeed.
func (e *FetchError) Retryable() bool {
	switch e.Reason {
	case FetchReasonTransport, FetchReasonStatus:
		return true
	case FetchReasonResponseCode:
		return e.ResponseCode == rateLimitCode
	default:
		return false
	}
}

// StoreError wraps a durable-storage failure. Op names the store operation
// (init, append, count, read).
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }
