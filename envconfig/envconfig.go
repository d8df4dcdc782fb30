// Package envconfig loads jwtservice settings from the process environment,
// optionally seeded from .env files.
package envconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/MrEthical07/jwtservice"
	"github.com/MrEthical07/jwtservice/jwt"
	"github.com/MrEthical07/jwtservice/logging"
)

const (
	envDuration  = "JWT_DURATION"
	envTolerance = "JWT_TOLERANCE"
)

// Backend names accepted by JWT_BACKEND.
const (
	BackendGolangJWT = "golang-jwt"
	BackendJWX       = "jwx"
)

var ErrUnknownBackend = errors.New("unknown jwt backend")

// Settings mirrors the environment variables understood by the CLI and the
// sample server. The secret itself is never part of Settings; it is read by
// the service from the environment mapping under SecretEnvName.
type Settings struct {
	Duration      string   `env:"JWT_DURATION"`
	Tolerance     string   `env:"JWT_TOLERANCE"`
	Algorithms    []string `env:"JWT_ALGORITHMS" envDefault:"HS256" envSeparator:","`
	SecretEnvName string   `env:"JWT_SECRET_ENV_NAME"`
	Backend       string   `env:"JWT_BACKEND" envDefault:"golang-jwt"`

	AuditEnabled   bool `env:"JWT_AUDIT_ENABLED" envDefault:"false"`
	MetricsEnabled bool `env:"JWT_METRICS_ENABLED" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// presence of the optional intervals, which an empty string does not imply
	durationSet  bool
	toleranceSet bool
}

// Load reads the given .env files (".env" when none are named, silently
// skipped if missing) into the process environment without overriding
// variables already set, then parses Settings. It returns the environment
// snapshot the service should read its secret from.
func Load(files ...string) (Settings, map[string]string, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Settings{}, nil, fmt.Errorf("load env files: %w", err)
	}

	environ := Environ()
	s, err := Parse(environ)
	if err != nil {
		return Settings{}, nil, err
	}
	return s, environ, nil
}

// Parse fills Settings from environ only.
func Parse(environ map[string]string) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environ}); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}

	_, s.durationSet = environ[envDuration]
	_, s.toleranceSet = environ[envTolerance]

	algs := s.Algorithms[:0]
	for _, a := range s.Algorithms {
		if a = strings.TrimSpace(a); a != "" {
			algs = append(algs, a)
		}
	}
	s.Algorithms = algs

	return s, nil
}

// Environ snapshots the process environment.
func Environ() map[string]string {
	vars := os.Environ()
	out := make(map[string]string, len(vars))
	for _, kv := range vars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

// JWTConfig converts the settings to the service's raw JWT policy. Validation
// is left to the service.
func (s Settings) JWTConfig() jwtservice.JWTConfig {
	cfg := jwtservice.JWTConfig{
		Algorithms:    append([]string(nil), s.Algorithms...),
		SecretEnvName: s.SecretEnvName,
	}
	if s.durationSet {
		cfg.Duration = jwtservice.String(s.Duration)
	}
	if s.toleranceSet {
		cfg.Tolerance = jwtservice.String(s.Tolerance)
	}
	return cfg
}

// Config returns a full service config built on jwtservice.DefaultConfig.
func (s Settings) Config() jwtservice.Config {
	cfg := jwtservice.DefaultConfig()
	cfg.JWT = s.JWTConfig()
	cfg.Audit.Enabled = s.AuditEnabled
	cfg.Metrics.Enabled = s.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = s.MetricsEnabled
	return cfg
}

// Primitive returns the signing backend named by JWT_BACKEND.
func (s Settings) Primitive() (jwt.Primitive, error) {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case "", BackendGolangJWT:
		return jwt.NewGolangJWT(), nil
	case BackendJWX:
		return jwt.NewJWX(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}

// Level parses LOG_LEVEL.
func (s Settings) Level() (logging.Level, error) {
	return logging.ParseLevel(s.LogLevel)
}
