package jwtservice

import (
	"slices"
)

// DefaultSecretEnvName is the environment variable holding the secret when
// neither the service nor the config names another one.
const DefaultSecretEnvName = "JWT_SECRET"

// Config is the full construction input of a [Service].
//
// Config values are copied at construction; mutating one afterwards does not
// affect a running service.
type Config struct {
	JWT     JWTConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig carries the raw, unparsed token policy.
//
// Duration and Tolerance use the human interval grammar accepted by
// internal/duration: "2d", "2h", "90 minutes", "1.5h", or a bare number of
// milliseconds such as "3600000".
type JWTConfig struct {
	// Duration is required. nil means absent.
	Duration *string
	// Tolerance is optional and defaults to zero. A non-nil empty string is
	// rejected rather than treated as absent.
	Tolerance *string
	// Algorithms is the ordered allowlist. The first entry is the default
	// signing algorithm.
	Algorithms []string
	// SecretEnvName names the variable holding the secret. The service-level
	// override takes precedence over it.
	SecretEnvName string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig enables the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig enables in-process counters and latency histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns a Config with an HS256 allowlist and audit and
// metrics disabled. Duration is left unset and must be provided.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			Algorithms: []string{"HS256"},
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// String returns a pointer to s, for the optional JWTConfig fields.
func String(s string) *string {
	return &s
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Duration = cloneString(cfg.JWT.Duration)
	out.JWT.Tolerance = cloneString(cfg.JWT.Tolerance)
	out.JWT.Algorithms = slices.Clone(cfg.JWT.Algorithms)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
