// Package jwt is the signing primitive consumed by jwtservice.Service.
//
// [Primitive] is the narrow capability the service depends on: sign a claims
// map with a secret and algorithm, and verify a compact token against an
// allowlist of algorithms, a clock tolerance and an explicit clock timestamp.
// Two implementations are provided: [GolangJWT] (github.com/golang-jwt/jwt/v5,
// the default) and [JWX] (github.com/lestrrat-go/jwx/v2).
//
// Verification failures are categorised so callers can tell an expired token
// ([ErrTokenExpired]) from a malformed or badly signed one ([ErrTokenMalformed]).
// Any other failure is returned uncategorised.
//
// # Keys
//
// HS256/HS384/HS512 use the secret bytes directly. RS*, PS*, ES* and EdDSA
// expect a PEM encoded private key for signing; verification accepts either
// the private key (its public half is used) or a PEM public key.
package jwt
