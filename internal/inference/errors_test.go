package inference_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"credintel/internal/inference"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("401 unauthorized"), false},
		{"context canceled", context.Canceled, false},
		{"context deadline", context.DeadlineExceeded, false},
		{"rate limit", inference.NewRateLimitError("openai", errors.New("429"), 10), true},
		{"transient", inference.NewTransientError("openai", errors.New("503")), true},
		{"wrapped transient", fmt.Errorf("outer: %w", inference.NewTransientError("openai", errors.New("502"))), true},
		{"wrapped canceled", fmt.Errorf("outer: %w", context.Canceled), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inference.IsTransient(tc.err))
		})
	}
}

func TestRateLimitErrorDefaultsRetryAfter(t *testing.T) {
	err := inference.NewRateLimitError("openai", errors.New("429"), 0)
	assert.Equal(t, 60*time.Second, err.RetryAfter)

	err = inference.NewRateLimitError("openai", errors.New("429"), 15)
	assert.Equal(t, 15*time.Second, err.RetryAfter)
}

func TestRateLimitErrorUnwrap(t *testing.T) {
	inner := errors.New("too many requests")
	err := inference.NewRateLimitError("openai", inner, 5)
	assert.ErrorIs(t, err, inner)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, inference.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, inference.ParseRetryAfterHeader("not-a-number"))
	assert.Equal(t, 0, inference.ParseRetryAfterHeader("Wed, 21 Oct 2026 07:28:00 GMT"))
	assert.Equal(t, 30, inference.ParseRetryAfterHeader("30"))
}
