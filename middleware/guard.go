package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrEthical07/jwtservice"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the claims attached by [Guard] or [Optional].
func ClaimsFromContext(ctx context.Context) (jwtservice.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(jwtservice.Claims)
	return claims, ok
}

// Guard rejects requests without a valid bearer token with 401 and passes
// the verified claims to next through the request context.
func Guard(svc *jwtservice.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if svc == nil {
				unauthorized(w, "")
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, "")
				return
			}

			claims, err := svc.Verify(r.Context(), token)
			if err != nil {
				unauthorized(w, "invalid_token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, code string) {
	challenge := "Bearer"
	if code != "" {
		challenge += ` error="` + code + `"`
	}
	w.Header().Set("WWW-Authenticate", challenge)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func bearerToken(value string) (string, bool) {
	const bearer = "bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
