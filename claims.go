package jwtservice

import (
	"context"
	"encoding/json"
	"math"
	"time"
)

// Reserved claim names written by Sign. Payload keys with these names are
// overwritten.
const (
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
)

// Claims is the decoded payload of a verified token, reserved fields
// included.
type Claims map[string]any

func (c Claims) IssuedAt() (time.Time, bool)  { return c.epoch(ClaimIssuedAt) }
func (c Claims) ExpiresAt() (time.Time, bool) { return c.epoch(ClaimExpiresAt) }
func (c Claims) NotBefore() (time.Time, bool) { return c.epoch(ClaimNotBefore) }

func (c Claims) epoch(key string) (time.Time, bool) {
	var sec int64
	switch v := c[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, false
		}
		sec = int64(v)
	case int64:
		sec = v
	case int:
		sec = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		sec = n
	default:
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}

// VerifyInto verifies token with svc and decodes its claims into a T through
// a JSON round trip. Decoding failures are reported as [CodeJWT].
func VerifyInto[T any](ctx context.Context, svc *Service, token string) (T, error) {
	var out T
	claims, err := svc.Verify(ctx, token)
	if err != nil {
		return out, err
	}
	raw, err := json.Marshal(claims)
	if err != nil {
		return out, newError(CodeJWT, err, token)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, newError(CodeJWT, err, token)
	}
	return out, nil
}

// buildClaims merges payload with the reserved time fields, which win.
func buildClaims(payload map[string]any, issuedAtMs, expiresAtMs, validAtMs int64) map[string]any {
	claims := make(map[string]any, len(payload)+3)
	for k, v := range payload {
		claims[k] = v
	}
	claims[ClaimIssuedAt] = floorSeconds(issuedAtMs)
	claims[ClaimExpiresAt] = floorSeconds(expiresAtMs)
	claims[ClaimNotBefore] = floorSeconds(validAtMs)
	return claims
}

func floorSeconds(ms int64) int64 {
	s := ms / 1000
	if ms%1000 < 0 {
		s--
	}
	return s
}
