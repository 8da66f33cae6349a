package kafka

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProducerClosed = errors.New("booking event producer is closed")
	ErrConsumerClosed = errors.New("booking event consumer is closed")

	// ErrInvalidMessage rejects a batch with no publishable entries.
	ErrInvalidMessage = errors.New("invalid message")

	// Every event is keyed by booking id; an unkeyed event would lose
	// its ordering guarantee.
	ErrEmptyKey   = errors.New("message key cannot be empty")
	ErrEmptyValue = errors.New("message value cannot be empty")
)

// ErrorType classifies a handling failure for the retry loop.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota

	// ErrorTypeTransient covers broker and downstream hiccups worth
	// retrying, a mailer timeout for instance.
	ErrorTypeTransient

	// ErrorTypePermanent covers failures retrying cannot cure, an
	// undecodable event or an event with no recipient.
	ErrorTypePermanent

	ErrorTypeBusiness
)

// EventError carries an explicit classification past ClassifyError's
// string matching. Handlers wrap their failures in one when they know
// whether a retry can help.
type EventError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *EventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *EventError) Unwrap() error {
	return e.Err
}

func (e *EventError) IsTransient() bool {
	return e.Type == ErrorTypeTransient
}

func (e *EventError) IsPermanent() bool {
	return e.Type == ErrorTypePermanent
}

func NewTransientError(message string, err error) *EventError {
	return &EventError{
		Type:    ErrorTypeTransient,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

func NewPermanentError(message string, err error) *EventError {
	return &EventError{
		Type:    ErrorTypePermanent,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

func NewBusinessError(message string, err error) *EventError {
	return &EventError{
		Type:    ErrorTypeBusiness,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

func (e *EventError) WithDetail(key string, value interface{}) *EventError {
	e.Details[key] = value
	return e
}

// Failures the network can cure on a later attempt.
var transientPatterns = []string{
	"connection refused",
	"timeout",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
	"broken pipe",
	"connection reset",
	"i/o timeout",
	"temporary failure",
}

// Failures baked into the event itself; redelivering the same bytes
// can never succeed, so they go straight to the dead letter queue.
var permanentPatterns = []string{
	"undecodable booking event",
	"carries no customer email",
	"invalid message",
	"schema mismatch",
	"unknown topic",
	"invalid configuration",
}

// ClassifyError decides whether a handling failure is worth retrying.
// An explicit EventError wins; otherwise the message is matched against
// the known patterns, and anything unrecognized is treated as permanent.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var eventErr *EventError
	if errors.As(err, &eventErr) {
		return eventErr.Type
	}

	errorMsg := strings.ToLower(err.Error())
	for _, pattern := range permanentPatterns {
		if strings.Contains(errorMsg, pattern) {
			return ErrorTypePermanent
		}
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errorMsg, pattern) {
			return ErrorTypeTransient
		}
	}

	return ErrorTypePermanent
}

// ShouldRetry reports whether the consumer should run the handler again.
func ShouldRetry(err error, currentRetries, maxRetries int) bool {
	if err == nil {
		return false
	}
	if currentRetries >= maxRetries {
		return false
	}
	return ClassifyError(err) == ErrorTypeTransient
}
