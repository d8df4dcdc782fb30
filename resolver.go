package jwtservice

import (
	"errors"
	"slices"

	"github.com/MrEthical07/jwtservice/internal/duration"
)

// resolvedConfig is the validated, immutable policy shared by Sign and Verify.
type resolvedConfig struct {
	durationMs  int64
	toleranceMs int64
	algorithms  []string
	secret      string
}

var (
	errNonPositiveDuration = errors.New("duration must be greater than zero")
	errNegativeTolerance   = errors.New("tolerance must not be negative")
	errIntervalTooLarge    = errors.New("interval exceeds the maximum of about 292 years")
)

// resolveConfig validates cfg in a fixed order: duration, tolerance, secret,
// algorithms. The first failure wins. It does not log or read the clock.
func resolveConfig(cfg JWTConfig, env map[string]string, secretEnvName string) (resolvedConfig, error) {
	var out resolvedConfig

	if cfg.Duration == nil {
		return out, newError(CodeBadDuration, nil)
	}
	ms, err := duration.ParseMillis(*cfg.Duration)
	switch {
	case err != nil:
	case ms <= 0:
		err = errNonPositiveDuration
	case ms > duration.MaxMillis:
		err = errIntervalTooLarge
	}
	if err != nil {
		return out, newError(CodeBadDuration, err, *cfg.Duration)
	}
	out.durationMs = ms

	if cfg.Tolerance != nil {
		ms, err := duration.ParseMillis(*cfg.Tolerance)
		switch {
		case err != nil:
		case ms < 0:
			err = errNegativeTolerance
		case ms > duration.MaxMillis:
			err = errIntervalTooLarge
		}
		if err != nil {
			return out, newError(CodeBadTolerance, err, *cfg.Tolerance, err.Error())
		}
		out.toleranceMs = ms
	}

	name := secretVariableName(secretEnvName, cfg.SecretEnvName)
	secret := env[name]
	if secret == "" {
		return out, newError(CodeNoSecret, nil)
	}
	out.secret = secret

	if len(cfg.Algorithms) == 0 {
		return out, newError(CodeNoAlgorithms, nil)
	}
	out.algorithms = slices.Clone(cfg.Algorithms)

	return out, nil
}

func secretVariableName(override, configured string) string {
	switch {
	case override != "":
		return override
	case configured != "":
		return configured
	default:
		return DefaultSecretEnvName
	}
}

func (c resolvedConfig) allows(algorithm string) bool {
	return slices.Contains(c.algorithms, algorithm)
}
