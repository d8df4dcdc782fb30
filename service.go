package jwtservice

import (
	"context"
	"errors"
	"math"
	"slices"
	"time"

	"github.com/MrEthical07/jwtservice/internal/audit"
	"github.com/MrEthical07/jwtservice/jwt"
	"github.com/MrEthical07/jwtservice/logging"
)

// Clock returns the current time. It must be safe for concurrent use.
type Clock func() time.Time

// Dependencies is the construction input of [NewService].
type Dependencies struct {
	Config Config
	// Env is the mapping the secret is read from. See envconfig.Environ for a
	// snapshot of the process environment.
	Env map[string]string
	// SecretEnvName overrides Config.JWT.SecretEnvName.
	SecretEnvName string
	// Clock defaults to time.Now.
	Clock Clock
	// Logger defaults to a no-op logger.
	Logger logging.Logger
	// Primitive defaults to jwt.NewGolangJWT().
	Primitive jwt.Primitive
	// AuditSink receives events when Config.Audit.Enabled is set.
	AuditSink AuditSink
}

// SignResult is the envelope returned by [Service.Sign]. Timestamps are
// milliseconds since epoch; ExpiresAt - IssuedAt equals the configured
// duration and ValidAt equals IssuedAt.
type SignResult struct {
	Token     string `json:"token"`
	IssuedAt  int64  `json:"issuedAt"`
	ExpiresAt int64  `json:"expiresAt"`
	ValidAt   int64  `json:"validAt"`
}

// Service signs and verifies JWTs under one immutable policy.
//
// A Service is safe for concurrent use. Sign and Verify only read the
// resolved policy; the optional metrics and audit dispatcher are the only
// shared mutable state.
type Service struct {
	cfg       resolvedConfig
	clock     Clock
	primitive jwt.Primitive
	metrics   *Metrics
	audit     *audit.Dispatcher
}

// NewService validates deps and returns a ready Service, or one of
// [ErrBadDuration], [ErrBadTolerance], [ErrNoSecret], [ErrNoAlgorithms], in
// that order of precedence. On success it logs a single info line.
func NewService(deps Dependencies) (*Service, error) {
	cfg := cloneConfig(deps.Config)

	resolved, err := resolveConfig(cfg.JWT, deps.Env, deps.SecretEnvName)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:       resolved,
		clock:     deps.Clock,
		primitive: deps.Primitive,
		metrics:   NewMetrics(cfg.Metrics),
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.primitive == nil {
		s.primitive = jwt.NewGolangJWT()
	}
	s.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, deps.AuditSink)

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Log(context.Background(), logging.LevelInfo, "JWT service initialized!")

	return s, nil
}

var errExpiryOverflow = errors.New("expiry does not fit in an int64 millisecond timestamp")

// Sign issues a token for payload. algorithm defaults to the first allowlisted
// algorithm; anything outside the allowlist fails with [ErrUnknownAlgorithm]
// before the primitive is called. Primitive failures surface as [ErrJWT].
//
// The iat, exp and nbf claims are written in seconds and overwrite payload
// keys of the same name.
func (s *Service) Sign(ctx context.Context, payload map[string]any, algorithm ...string) (*SignResult, error) {
	alg := s.cfg.algorithms[0]
	if len(algorithm) > 0 {
		alg = algorithm[0]
	}

	if !s.cfg.allows(alg) {
		s.metrics.Inc(MetricSignUnknownAlgorithm)
		err := newError(CodeUnknownAlgorithm, nil, alg, append([]string(nil), s.cfg.algorithms...))
		s.emitAudit(ctx, AuditEventSign, alg, err)
		return nil, err
	}

	var start time.Time
	if s.metrics.LatencyEnabled() {
		start = time.Now()
	}

	issuedAt := s.clock().UnixMilli()
	if issuedAt > math.MaxInt64-s.cfg.durationMs {
		s.metrics.Inc(MetricSignFailure)
		werr := newError(CodeJWT, errExpiryOverflow, payload)
		s.emitAudit(ctx, AuditEventSign, alg, werr)
		return nil, werr
	}
	expiresAt := issuedAt + s.cfg.durationMs
	validAt := issuedAt

	claims := buildClaims(payload, issuedAt, expiresAt, validAt)
	token, err := s.primitive.Sign(ctx, claims, s.cfg.secret, alg)
	if s.metrics.LatencyEnabled() {
		s.metrics.Observe(MetricSignLatency, time.Since(start))
	}
	if err != nil {
		s.metrics.Inc(MetricSignFailure)
		werr := newError(CodeJWT, err, payload)
		s.emitAudit(ctx, AuditEventSign, alg, werr)
		return nil, werr
	}

	s.metrics.Inc(MetricSignSuccess)
	s.emitAudit(ctx, AuditEventSign, alg, nil)

	return &SignResult{
		Token:     token,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		ValidAt:   validAt,
	}, nil
}

// Verify checks token against the whole allowlist and the tolerance window
// and returns its claims unchanged. Failures are exactly one of
// [ErrExpired], [ErrMalformed] or [ErrJWT].
func (s *Service) Verify(ctx context.Context, token string) (Claims, error) {
	var start time.Time
	if s.metrics.LatencyEnabled() {
		start = time.Now()
	}

	opts := jwt.VerifyOptions{
		Algorithms:     slices.Clone(s.cfg.algorithms),
		ClockTolerance: s.cfg.toleranceMs / 1000,
		ClockTimestamp: floorSeconds(s.clock().UnixMilli()),
	}
	claims, err := s.primitive.Verify(ctx, token, s.cfg.secret, opts)
	if s.metrics.LatencyEnabled() {
		s.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}
	if err != nil {
		werr := s.verifyError(token, err)
		s.emitAudit(ctx, AuditEventVerify, "", werr)
		return nil, werr
	}

	s.metrics.Inc(MetricVerifySuccess)
	s.emitAudit(ctx, AuditEventVerify, "", nil)
	return Claims(claims), nil
}

func (s *Service) verifyError(token string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		s.metrics.Inc(MetricVerifyExpired)
		return newError(CodeExpired, err, token, err.Error())
	case errors.Is(err, jwt.ErrTokenMalformed):
		s.metrics.Inc(MetricVerifyMalformed)
		return newError(CodeMalformed, err, token, err.Error())
	default:
		s.metrics.Inc(MetricVerifyFailure)
		return newError(CodeJWT, err, token)
	}
}

// Algorithms returns a copy of the allowlist.
func (s *Service) Algorithms() []string {
	return append([]string(nil), s.cfg.algorithms...)
}

// MetricsSnapshot returns the current counters, empty when metrics are disabled.
func (s *Service) MetricsSnapshot() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// AuditDropped reports audit events dropped under backpressure.
func (s *Service) AuditDropped() uint64 {
	return s.audit.Dropped()
}

// Close drains and stops the audit dispatcher. It is safe to call more than
// once and is a no-op when auditing is disabled.
func (s *Service) Close() {
	s.audit.Close()
}
