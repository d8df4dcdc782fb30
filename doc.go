// Package jwtservice issues and validates signed, time-bounded JWTs from an
// arbitrary payload.
//
// A [Service] is built once, through [NewService] or the fluent [Builder],
// and is then safe for concurrent use. Construction validates the policy in a
// fixed order and fails fast with a typed [*Error]:
//
//  1. duration, required ([CodeBadDuration])
//  2. tolerance, optional ([CodeBadTolerance])
//  3. secret, read from the environment mapping ([CodeNoSecret])
//  4. algorithm allowlist, non-empty ([CodeNoAlgorithms])
//
// [Service.Sign] stamps iat, exp and nbf (seconds) over the payload and
// returns a [SignResult] whose timestamps are milliseconds. [Service.Verify]
// checks the token against the whole allowlist, widening exp and nbf by the
// tolerance, and reports [CodeExpired], [CodeMalformed] or [CodeJWT].
//
// The signing primitive is pluggable (package jwt). Metrics and audit events
// are opt-in and never see the secret or the token payload.
package jwtservice
