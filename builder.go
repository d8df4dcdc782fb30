package jwtservice

import (
	"errors"

	"github.com/MrEthical07/jwtservice/jwt"
	"github.com/MrEthical07/jwtservice/logging"
)

// Builder assembles a [Service] fluently. A Builder builds at most one
// Service.
type Builder struct {
	config        Config
	env           map[string]string
	secretEnvName string
	clock         Clock
	logger        logging.Logger
	primitive     jwt.Primitive
	auditSink     AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithJWT replaces only the JWT section of the config.
func (b *Builder) WithJWT(cfg JWTConfig) *Builder {
	b.config.JWT = cloneConfig(Config{JWT: cfg}).JWT
	return b
}

// WithEnv sets the mapping the secret is looked up in.
func (b *Builder) WithEnv(env map[string]string) *Builder {
	b.env = cloneEnv(env)
	return b
}

// WithSecretEnvName overrides the variable name the secret is read from.
func (b *Builder) WithSecretEnvName(name string) *Builder {
	b.secretEnvName = name
	return b
}

func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

func (b *Builder) WithLogger(logger logging.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithPrimitive(p jwt.Primitive) *Builder {
	b.primitive = p
	return b
}

// WithAuditSink sets the sink and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build resolves the configuration and returns the Service. Construction
// errors are those of [NewService]; a second successful Build is refused.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	svc, err := NewService(Dependencies{
		Config:        cloneConfig(b.config),
		Env:           b.env,
		SecretEnvName: b.secretEnvName,
		Clock:         b.clock,
		Logger:        b.logger,
		Primitive:     b.primitive,
		AuditSink:     b.auditSink,
	})
	if err != nil {
		return nil, err
	}

	b.built = true
	return svc, nil
}
