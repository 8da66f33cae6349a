package kafka

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{
			name: "nil is unknown",
			err:  nil,
			want: ErrorTypeUnknown,
		},
		{
			name: "network hiccup is transient",
			err:  errors.New("dial tcp: connection refused"),
			want: ErrorTypeTransient,
		},
		{
			name: "mailer timeout is transient",
			err:  fmt.Errorf("failed to send booking.created email: i/o timeout"),
			want: ErrorTypeTransient,
		},
		{
			name: "undecodable event is permanent",
			err:  errors.New("undecodable booking event: unexpected end of JSON input"),
			want: ErrorTypePermanent,
		},
		{
			name: "missing recipient is permanent",
			err:  errors.New("booking event abc123 carries no customer email"),
			want: ErrorTypePermanent,
		},
		{
			name: "explicit classification wins over patterns",
			err:  NewPermanentError("gave up", errors.New("connection refused")),
			want: ErrorTypePermanent,
		},
		{
			name: "wrapped explicit classification is found",
			err:  fmt.Errorf("handling failed: %w", NewTransientError("broker busy", nil)),
			want: ErrorTypeTransient,
		},
		{
			name: "unrecognized defaults to permanent",
			err:  errors.New("something odd"),
			want: ErrorTypePermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := errors.New("connection reset")

	if !ShouldRetry(transient, 0, 3) {
		t.Error("first transient failure should retry")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("exhausted retries should stop")
	}
	if ShouldRetry(errors.New("undecodable booking event: bad payload"), 0, 3) {
		t.Error("permanent failure should never retry")
	}
	if ShouldRetry(nil, 0, 3) {
		t.Error("nil error should not retry")
	}
}
