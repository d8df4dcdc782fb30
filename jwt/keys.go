package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	gjwt "github.com/golang-jwt/jwt/v5"
)

type family uint8

const (
	familyHMAC family = iota
	familyRSA
	familyECDSA
	familyEdDSA
)

// ErrUnsupportedAlgorithm is returned for algorithm names with no key family,
// including "none".
var ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

func familyOf(alg string) (family, error) {
	switch alg {
	case "HS256", "HS384", "HS512":
		return familyHMAC, nil
	case "RS256", "RS384", "RS512", "PS256", "PS384", "PS512":
		return familyRSA, nil
	case "ES256", "ES384", "ES512":
		return familyECDSA, nil
	case "EdDSA":
		return familyEdDSA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
}

func signingKey(alg, secret string) (any, error) {
	f, err := familyOf(alg)
	if err != nil {
		return nil, err
	}
	switch f {
	case familyRSA:
		key, err := gjwt.ParseRSAPrivateKeyFromPEM([]byte(secret))
		if err != nil {
			return nil, fmt.Errorf("invalid rsa private key: %w", err)
		}
		return key, nil
	case familyECDSA:
		key, err := gjwt.ParseECPrivateKeyFromPEM([]byte(secret))
		if err != nil {
			return nil, fmt.Errorf("invalid ecdsa private key: %w", err)
		}
		return key, nil
	case familyEdDSA:
		return parseEdPrivateKey([]byte(secret))
	default:
		return []byte(secret), nil
	}
}

func verifyingKey(alg, secret string) (any, error) {
	f, err := familyOf(alg)
	if err != nil {
		return nil, err
	}
	switch f {
	case familyRSA:
		if priv, err := gjwt.ParseRSAPrivateKeyFromPEM([]byte(secret)); err == nil {
			return &priv.PublicKey, nil
		}
		key, err := gjwt.ParseRSAPublicKeyFromPEM([]byte(secret))
		if err != nil {
			return nil, fmt.Errorf("invalid rsa key: %w", err)
		}
		return key, nil
	case familyECDSA:
		if priv, err := gjwt.ParseECPrivateKeyFromPEM([]byte(secret)); err == nil {
			return &priv.PublicKey, nil
		}
		key, err := gjwt.ParseECPublicKeyFromPEM([]byte(secret))
		if err != nil {
			return nil, fmt.Errorf("invalid ecdsa key: %w", err)
		}
		return key, nil
	case familyEdDSA:
		if priv, err := parseEdPrivateKey([]byte(secret)); err == nil {
			return priv.Public().(ed25519.PublicKey), nil
		}
		return parseEdPublicKey([]byte(secret))
	default:
		// A public key must never double as an HMAC secret.
		if strings.Contains(secret, "PUBLIC KEY-----") {
			return nil, errors.New("public key cannot be used as an hmac secret")
		}
		return []byte(secret), nil
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := gjwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := gjwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}

