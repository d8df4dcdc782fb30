package jwtservice

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/jwtservice/jwt"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

// 2014-01-26T00:00:00Z
var baseTime = time.UnixMilli(1390694400000).UTC()

type testClock struct {
	mu    sync.Mutex
	now   time.Time
	calls atomic.Int64
}

func newTestClock(t time.Time) *testClock {
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time {
	c.calls.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// fakePrimitive records calls and returns canned results.
type fakePrimitive struct {
	mu          sync.Mutex
	signCalls   int
	verifyCalls int
	lastClaims  map[string]any
	lastAlg     string
	lastSecret  string
	lastOpts    jwt.VerifyOptions

	token     string
	signErr   error
	claims    map[string]any
	verifyErr error
}

func (f *fakePrimitive) Sign(_ context.Context, claims map[string]any, secret, algorithm string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signCalls++
	f.lastClaims = claims
	f.lastAlg = algorithm
	f.lastSecret = secret
	if f.signErr != nil {
		return "", f.signErr
	}
	if f.token == "" {
		return "fake.token.sig", nil
	}
	return f.token, nil
}

func (f *fakePrimitive) Verify(_ context.Context, _ string, secret string, opts jwt.VerifyOptions) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	f.lastSecret = secret
	f.lastOpts = opts
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.claims, nil
}

func jwtConfig(duration, tolerance *string, algs ...string) JWTConfig {
	return JWTConfig{Duration: duration, Tolerance: tolerance, Algorithms: algs}
}

func testEnv() map[string]string {
	return map[string]string{DefaultSecretEnvName: testSecret}
}

func newTestService(t *testing.T, cfg JWTConfig, clock *testClock, p jwt.Primitive) *Service {
	t.Helper()
	deps := Dependencies{
		Config:    Config{JWT: cfg},
		Env:       testEnv(),
		Primitive: p,
	}
	if clock != nil {
		deps.Clock = clock.Now
	}
	svc, err := NewService(deps)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}
