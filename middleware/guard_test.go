package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/jwtservice"
)

func newService(t *testing.T, now time.Time) *jwtservice.Service {
	t.Helper()
	svc, err := jwtservice.New().
		WithJWT(jwtservice.JWTConfig{
			Duration:   jwtservice.String("1h"),
			Algorithms: []string{"HS256"},
		}).
		WithEnv(map[string]string{"JWT_SECRET": "middleware-secret"}).
		WithClock(func() time.Time { return now }).
		Build()
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func echoUserID(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(claims["sub"].(string)))
}

func serve(h http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGuard(t *testing.T) {
	now := time.Now()
	svc := newService(t, now)
	res, err := svc.Sign(context.Background(), map[string]any{"sub": "user-1"})
	require.NoError(t, err)

	expired := newService(t, now.Add(-3*time.Hour))
	old, err := expired.Sign(context.Background(), map[string]any{"sub": "user-1"})
	require.NoError(t, err)

	h := Guard(svc)(http.HandlerFunc(echoUserID))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		challenge  string
	}{
		{"valid", "Bearer " + res.Token, http.StatusOK, "user-1", ""},
		{"lowercase scheme", "bearer " + res.Token, http.StatusOK, "user-1", ""},
		{"missing", "", http.StatusUnauthorized, "", "Bearer"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "", "Bearer"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "", "Bearer"},
		{"malformed", "Bearer kikooolol", http.StatusUnauthorized, "", `Bearer error="invalid_token"`},
		{"expired", "Bearer " + old.Token, http.StatusUnauthorized, "", `Bearer error="invalid_token"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.header)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			assert.Equal(t, tt.challenge, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestGuardNilService(t *testing.T) {
	rec := serve(Guard(nil)(http.HandlerFunc(echoUserID)), "Bearer x")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptional(t *testing.T) {
	svc := newService(t, time.Now())
	res, err := svc.Sign(context.Background(), map[string]any{"sub": "user-2"})
	require.NoError(t, err)

	h := Optional(svc)(http.HandlerFunc(echoUserID))

	rec := serve(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = serve(h, "Bearer "+res.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-2", rec.Body.String())

	rec = serve(h, "Bearer kikooolol")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("Bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerToken("Bear")
	assert.False(t, ok)
}
