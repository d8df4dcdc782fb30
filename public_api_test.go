package jwtservice_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/MrEthical07/jwtservice"
	"github.com/MrEthical07/jwtservice/jwt"
	"github.com/MrEthical07/jwtservice/logging"
	"github.com/MrEthical07/jwtservice/middleware"
)

// Guards the exported surface against accidental breaking changes.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = jwtservice.New
	_ = jwtservice.DefaultConfig
	_ = jwtservice.VerifyInto[map[string]any]

	var _ *jwtservice.Service
	var _ *jwtservice.Builder
	var _ jwtservice.Config
	var _ jwtservice.Dependencies
	var _ jwtservice.SignResult
	var _ jwtservice.Claims
	var _ jwtservice.AuditSink
	var _ jwtservice.Clock
	var _ logging.Logger
	var _ jwt.Primitive = jwt.NewGolangJWT()
	var _ jwt.Primitive = jwt.NewJWX()

	var _ error = jwtservice.ErrNoSecret
	var _ error = jwtservice.ErrNoAlgorithms
	var _ error = jwtservice.ErrBadDuration
	var _ error = jwtservice.ErrBadTolerance
	var _ error = jwtservice.ErrUnknownAlgorithm
	var _ error = jwtservice.ErrJWT
	var _ error = jwtservice.ErrExpired
	var _ error = jwtservice.ErrMalformed

	var _ func(jwtservice.Dependencies) (*jwtservice.Service, error) = jwtservice.NewService
	var _ func(*jwtservice.Service, context.Context, map[string]any, ...string) (*jwtservice.SignResult, error) = (*jwtservice.Service).Sign
	var _ func(*jwtservice.Service, context.Context, string) (jwtservice.Claims, error) = (*jwtservice.Service).Verify
	var _ func(*jwtservice.Service) jwtservice.SecurityReport = (*jwtservice.Service).SecurityReport
	var _ func(*jwtservice.Service) func(http.Handler) http.Handler = middleware.Guard
}
