package jwtservice

import (
	"errors"
	"fmt"
)

// Code is the machine-readable identifier carried by every [Error].
type Code string

const (
	// CodeNoSecret is returned at construction when no usable secret was resolved.
	CodeNoSecret Code = "E_NO_JWT_SECRET"
	// CodeNoAlgorithms is returned at construction when the algorithm allowlist is empty.
	CodeNoAlgorithms Code = "E_NO_JWT_ALGORITHMS"
	// CodeBadDuration is returned at construction when the duration is missing or unparseable.
	CodeBadDuration Code = "E_BAD_JWT_DURATION"
	// CodeBadTolerance is returned at construction when a tolerance is given but unparseable.
	CodeBadTolerance Code = "E_BAD_JWT_TOLERANCE"
	// CodeUnknownAlgorithm is returned by Sign when the requested algorithm is not allowlisted.
	// The spelling is kept as-is for compatibility with existing consumers.
	CodeUnknownAlgorithm Code = "E_UNKNOWN_ALGORYTHM"
	// CodeJWT is the generic signing or verification failure.
	CodeJWT Code = "E_JWT"
	// CodeExpired is returned by Verify for tokens expired beyond the tolerance window.
	CodeExpired Code = "E_JWT_EXPIRED"
	// CodeMalformed is returned by Verify for structurally invalid or badly signed tokens.
	CodeMalformed Code = "E_JWT_MALFORMED"
)

// Error is the typed failure returned by construction, Sign and Verify.
//
// Params holds the ordered values needed to reconstruct the failing input. The
// secret is never part of Params.
type Error struct {
	Code   Code
	Params []any
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := string(e.Code)
	if len(e.Params) > 0 {
		msg += fmt.Sprintf(" %v", e.Params)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error carrying the same Code, so the sentinels below work
// with errors.Is regardless of Params.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

var (
	// ErrNoSecret matches errors with [CodeNoSecret].
	ErrNoSecret = &Error{Code: CodeNoSecret}
	// ErrNoAlgorithms matches errors with [CodeNoAlgorithms].
	ErrNoAlgorithms = &Error{Code: CodeNoAlgorithms}
	// ErrBadDuration matches errors with [CodeBadDuration].
	ErrBadDuration = &Error{Code: CodeBadDuration}
	// ErrBadTolerance matches errors with [CodeBadTolerance].
	ErrBadTolerance = &Error{Code: CodeBadTolerance}
	// ErrUnknownAlgorithm matches errors with [CodeUnknownAlgorithm].
	ErrUnknownAlgorithm = &Error{Code: CodeUnknownAlgorithm}
	// ErrJWT matches errors with [CodeJWT].
	ErrJWT = &Error{Code: CodeJWT}
	// ErrExpired matches errors with [CodeExpired].
	ErrExpired = &Error{Code: CodeExpired}
	// ErrMalformed matches errors with [CodeMalformed].
	ErrMalformed = &Error{Code: CodeMalformed}
)

func newError(code Code, cause error, params ...any) *Error {
	if params == nil {
		params = []any{}
	}
	return &Error{Code: code, Params: params, Err: cause}
}

// CodeOf returns the Code of the first *Error in err's chain, or "" when there
// is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Code
	}
	return ""
}

// ParamsOf returns the Params of the first *Error in err's chain.
func ParamsOf(err error) []any {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Params
	}
	return nil
}
