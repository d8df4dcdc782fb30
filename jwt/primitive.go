package jwt

import (
	"context"
	"errors"
	"time"
)

// VerifyOptions carries the policy applied when verifying a token.
type VerifyOptions struct {
	// Algorithms is the allowlist; a token signed with anything else is malformed.
	// Implementations must not modify it.
	Algorithms []string
	// ClockTolerance is the grace window, in seconds, applied to exp and nbf.
	// A token is still valid at exactly exp + ClockTolerance.
	ClockTolerance int64
	// ClockTimestamp is the current time in seconds since epoch.
	ClockTimestamp int64
}

// leeway is the tolerance widened by one nanosecond. Both libraries reject a
// token once now reaches exp+leeway; timestamps are whole seconds, so the extra
// nanosecond makes now == exp+tolerance valid without moving any other bound.
func (o VerifyOptions) leeway() time.Duration {
	return time.Duration(o.ClockTolerance)*time.Second + time.Nanosecond
}

// Primitive signs and verifies compact JWTs.
//
// Implementations must be safe for concurrent use.
type Primitive interface {
	Sign(ctx context.Context, claims map[string]any, secret string, algorithm string) (string, error)
	Verify(ctx context.Context, token string, secret string, opts VerifyOptions) (map[string]any, error)
}

var (
	// ErrTokenExpired categorises tokens whose exp is past the tolerance window.
	ErrTokenExpired = errors.New("jwt expired")
	// ErrTokenMalformed categorises undecodable tokens, signature mismatches
	// and disallowed algorithms.
	ErrTokenMalformed = errors.New("jwt malformed")
)

// verifyError keeps the library's message while matching a category.
type verifyError struct {
	category error
	cause    error
}

func (e *verifyError) Error() string {
	return e.cause.Error()
}

func (e *verifyError) Unwrap() []error {
	return []error{e.category, e.cause}
}

func categorize(category, cause error) error {
	if cause == nil {
		cause = category
	}
	return &verifyError{category: category, cause: cause}
}
