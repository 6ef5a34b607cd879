package apperror

import (
	"errors"
	"fmt"

	"credit-assess-be/pkg/store"
)

// Kind classifies a workflow failure so the HTTP layer can map it to a
// transport status without string matching.
type Kind string

const (
	KindSessionNotFound    Kind = "SESSION_NOT_FOUND"
	KindPreconditionFailed Kind = "PRECONDITION_FAILED"
	KindGeneration         Kind = "GENERATION_ERROR"
	KindGenerationTimeout  Kind = "GENERATION_TIMEOUT"
	KindFeedbackProcessing Kind = "FEEDBACK_PROCESSING_ERROR"
)

// Error is the structured failure every state-machine operation returns.
// The underlying agent or store error is preserved for Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func SessionNotFound(sessionId string) *Error {
	return &Error{
		Kind:    KindSessionNotFound,
		Message: fmt.Sprintf("session %s not found or expired", sessionId),
		Err:     store.ErrSessionNotFound,
	}
}

func PreconditionFailed(message string) *Error {
	return &Error{Kind: KindPreconditionFailed, Message: message}
}

func Generation(message string, err error) *Error {
	return &Error{Kind: KindGeneration, Message: message, Err: err}
}

func GenerationTimeout(message string, err error) *Error {
	return &Error{Kind: KindGenerationTimeout, Message: message, Err: err}
}

func FeedbackProcessing(message string, err error) *Error {
	return &Error{Kind: KindFeedbackProcessing, Message: message, Err: err}
}

// KindOf extracts the kind from any error in the chain, or "" for errors
// that did not originate in the workflow core.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
