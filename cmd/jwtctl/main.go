// Command jwtctl signs and verifies tokens from the command line and can
// serve the same operations over HTTP.
//
// Configuration is read from the environment, seeded from .env when present:
//
//	JWT_SECRET          signing secret (name overridable via JWT_SECRET_ENV_NAME)
//	JWT_DURATION        token lifetime, e.g. "2d" or "90m"
//	JWT_TOLERANCE       optional clock tolerance
//	JWT_ALGORITHMS      comma-separated allowlist, default HS256
//	JWT_BACKEND         golang-jwt (default) or jwx
//	JWT_AUDIT_ENABLED   write audit events as JSON lines to stderr
//	JWT_METRICS_ENABLED expose /metrics when serving
//	LOG_LEVEL           debug, info, warn or error
//	HTTP_ADDR           listen address for serve, default :8080
//
// Usage:
//
//	jwtctl [-env-file path] sign [-alg HS256] [-payload '{"sub":"42"}']
//	jwtctl [-env-file path] verify [token]
//	jwtctl [-env-file path] serve
//	jwtctl [-env-file path] report
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MrEthical07/jwtservice"
	"github.com/MrEthical07/jwtservice/envconfig"
	"github.com/MrEthical07/jwtservice/logging"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("jwtctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env-file", "", "dotenv file to load before reading the environment")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: jwtctl [-env-file path] <sign|verify|serve|report> [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	settings, environ, err := envconfig.Load(files...)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFail
	}

	logger, err := newLogger(settings, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return exitFail
	}
	defer func() { _ = logger.Sync() }()

	svc, err := newService(settings, environ, logger, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitFail
	}
	defer svc.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "sign":
		return runSign(ctx, svc, rest, stdin, stdout, stderr)
	case "verify":
		return runVerify(ctx, svc, rest, stdin, stdout, stderr)
	case "serve":
		return runServe(ctx, svc, settings, logger, stderr)
	case "report":
		return writeJSON(stdout, stderr, svc.SecurityReport())
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return exitUsage
	}
}

func newLogger(settings envconfig.Settings, w io.Writer) (*zap.Logger, error) {
	level, err := settings.Level()
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		zapLevel(level),
	)
	return zap.New(core), nil
}

func zapLevel(level logging.Level) zapcore.Level {
	switch level {
	case logging.LevelDebug:
		return zapcore.DebugLevel
	case logging.LevelWarn:
		return zapcore.WarnLevel
	case logging.LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newService(settings envconfig.Settings, environ map[string]string, logger *zap.Logger, auditOut io.Writer) (*jwtservice.Service, error) {
	primitive, err := settings.Primitive()
	if err != nil {
		return nil, err
	}

	b := jwtservice.New().
		WithConfig(settings.Config()).
		WithEnv(environ).
		WithLogger(logging.NewZap(logger)).
		WithPrimitive(primitive)
	if settings.AuditEnabled {
		b = b.WithAuditSink(jwtservice.NewJSONWriterSink(auditOut))
	}
	return b.Build()
}

func runSign(ctx context.Context, svc *jwtservice.Service, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(stderr)
	alg := fs.String("alg", "", "signing algorithm; defaults to the first allowlisted one")
	payloadArg := fs.String("payload", "", "JSON object to sign; read from stdin when empty")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	raw := []byte(*payloadArg)
	if len(raw) == 0 {
		var err error
		if raw, err = io.ReadAll(stdin); err != nil {
			fmt.Fprintf(stderr, "read payload: %v\n", err)
			return exitFail
		}
	}

	payload := map[string]any{}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			fmt.Fprintf(stderr, "payload must be a JSON object: %v\n", err)
			return exitUsage
		}
	}

	var algorithm []string
	if *alg != "" {
		algorithm = append(algorithm, *alg)
	}
	res, err := svc.Sign(ctx, payload, algorithm...)
	if err != nil {
		printError(stderr, err)
		return exitFail
	}
	return writeJSON(stdout, stderr, res)
}

func runVerify(ctx context.Context, svc *jwtservice.Service, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var token string
	switch len(args) {
	case 0:
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(stderr, "read token: %v\n", err)
			return exitFail
		}
		token = strings.TrimSpace(line)
	case 1:
		token = args[0]
	default:
		fmt.Fprintln(stderr, "usage: jwtctl verify [token]")
		return exitUsage
	}

	claims, err := svc.Verify(ctx, token)
	if err != nil {
		printError(stderr, err)
		return exitFail
	}
	return writeJSON(stdout, stderr, claims)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, err)
}

func writeJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return exitFail
	}
	return exitOK
}
