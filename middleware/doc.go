// Package middleware adapts jwtservice.Service verification to net/http.
//
//   - [Guard] requires a valid "Authorization: Bearer <token>" header.
//   - [Optional] verifies the header only when it is present.
//
// Verified claims are read back with [ClaimsFromContext]. The package never
// signs tokens and makes no decision beyond pass or reject.
package middleware
