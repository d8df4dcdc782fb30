package jwt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
)

// JWX is a [Primitive] backed by github.com/lestrrat-go/jwx/v2.
//
// Tokens are interchangeable with [GolangJWT]: both produce compact JWS with a
// JSON claims payload and a "typ":"JWT" protected header.
type JWX struct{}

var _ Primitive = JWX{}

// NewJWX returns the jwx backed primitive.
func NewJWX() JWX {
	return JWX{}
}

// Sign encodes claims as a compact JWS using algorithm and secret.
func (JWX) Sign(_ context.Context, claims map[string]any, secret string, algorithm string) (string, error) {
	key, err := signingKey(algorithm, secret)
	if err != nil {
		return "", err
	}
	alg, err := signatureAlgorithm(algorithm)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	hdrs := jws.NewHeaders()
	if err := hdrs.Set(jws.TypeKey, "JWT"); err != nil {
		return "", err
	}

	signed, err := jws.Sign(payload, jws.WithKey(alg, key, jws.WithProtectedHeaders(hdrs)))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

// Verify decodes token with the same policy as [GolangJWT.Verify].
func (JWX) Verify(ctx context.Context, token string, secret string, opts VerifyOptions) (map[string]any, error) {
	now := time.Unix(opts.ClockTimestamp, 0)
	parseOpts := []jwxjwt.ParseOption{
		jwxjwt.WithValidate(true),
		jwxjwt.WithClock(jwxjwt.ClockFunc(func() time.Time { return now })),
		jwxjwt.WithAcceptableSkew(opts.leeway()),
		jwxjwt.WithContext(ctx),
	}

	keys := 0
	for _, name := range opts.Algorithms {
		alg, err := signatureAlgorithm(name)
		if err != nil {
			continue
		}
		key, err := verifyingKey(name, secret)
		if err != nil {
			continue
		}
		parseOpts = append(parseOpts, jwxjwt.WithKey(alg, key))
		keys++
	}
	// Without a key jwx would accept the token unverified.
	if keys == 0 {
		return nil, categorize(ErrTokenMalformed, errors.New("no usable verification key for allowed algorithms"))
	}

	if _, err := jwxjwt.ParseString(token, parseOpts...); err != nil {
		return nil, classifyJWX(err)
	}

	msg, err := jws.ParseString(token)
	if err != nil {
		return nil, categorize(ErrTokenMalformed, err)
	}
	claims := map[string]any{}
	if err := json.Unmarshal(msg.Payload(), &claims); err != nil {
		return nil, categorize(ErrTokenMalformed, err)
	}
	return claims, nil
}

func signatureAlgorithm(name string) (jwa.SignatureAlgorithm, error) {
	if _, err := familyOf(name); err != nil {
		return "", err
	}
	var alg jwa.SignatureAlgorithm
	if err := alg.Accept(name); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return alg, nil
}

func classifyJWX(err error) error {
	switch {
	case errors.Is(err, jwxjwt.ErrTokenExpired()):
		return categorize(ErrTokenExpired, err)
	case jwxjwt.IsValidationError(err):
		return err
	default:
		return categorize(ErrTokenMalformed, err)
	}
}
