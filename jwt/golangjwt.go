package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// GolangJWT is the default [Primitive], backed by github.com/golang-jwt/jwt/v5.
type GolangJWT struct{}

var _ Primitive = GolangJWT{}

// NewGolangJWT returns the golang-jwt backed primitive.
func NewGolangJWT() GolangJWT {
	return GolangJWT{}
}

// Sign encodes claims as a compact JWS using algorithm and secret.
func (GolangJWT) Sign(_ context.Context, claims map[string]any, secret string, algorithm string) (string, error) {
	key, err := signingKey(algorithm, secret)
	if err != nil {
		return "", err
	}
	method := gjwt.GetSigningMethod(algorithm)
	if method == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	return gjwt.NewWithClaims(method, gjwt.MapClaims(claims)).SignedString(key)
}

// Verify decodes token, checking its signature against opts.Algorithms and
// its exp/nbf claims against opts.ClockTimestamp widened by opts.ClockTolerance.
func (GolangJWT) Verify(_ context.Context, token string, secret string, opts VerifyOptions) (map[string]any, error) {
	now := time.Unix(opts.ClockTimestamp, 0)
	parser := gjwt.NewParser(
		gjwt.WithValidMethods(opts.Algorithms),
		gjwt.WithLeeway(opts.leeway()),
		gjwt.WithTimeFunc(func() time.Time { return now }),
	)

	claims := gjwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *gjwt.Token) (any, error) {
		return verifyingKey(t.Method.Alg(), secret)
	})
	if err != nil {
		return nil, classifyGolangJWT(err)
	}

	return map[string]any(claims), nil
}

func classifyGolangJWT(err error) error {
	switch {
	case errors.Is(err, gjwt.ErrTokenExpired):
		return categorize(ErrTokenExpired, err)
	case errors.Is(err, gjwt.ErrTokenMalformed),
		errors.Is(err, gjwt.ErrTokenSignatureInvalid),
		errors.Is(err, gjwt.ErrTokenUnverifiable),
		errors.Is(err, gjwt.ErrInvalidType):
		return categorize(ErrTokenMalformed, err)
	default:
		return err
	}
}
