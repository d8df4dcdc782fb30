package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/jwtservice"
	"github.com/MrEthical07/jwtservice/envconfig"
)

func main() {
	var (
		tokens      = flag.Int("tokens", 10000, "number of tokens to sign before the verify phase")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (sign + verify)")
		alg         = flag.String("alg", "HS256", "signing algorithm; asymmetric keys are generated")
		backend     = flag.String("backend", envconfig.BackendGolangJWT, "jwt backend: golang-jwt or jwx")
		lifetime    = flag.String("duration", "1h", "token lifetime")
	)
	flag.Parse()

	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "tokens, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	secret, err := secretFor(*alg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "key generation failed: %v\n", err)
		os.Exit(1)
	}

	settings, err := envconfig.Parse(map[string]string{"JWT_BACKEND": *backend})
	if err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v\n", err)
		os.Exit(2)
	}
	primitive, err := settings.Primitive()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	svc, err := jwtservice.New().
		WithJWT(jwtservice.JWTConfig{
			Duration:   jwtservice.String(*lifetime),
			Algorithms: []string{*alg},
		}).
		WithEnv(map[string]string{jwtservice.DefaultSecretEnvName: secret}).
		WithPrimitive(primitive).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "service build failed: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	ctx := context.Background()

	seeded := make([]string, *tokens)
	fmt.Printf("signing %d seed tokens with %s (%s)...\n", *tokens, *alg, *backend)
	startSeed := time.Now()
	for i := range seeded {
		res, err := svc.Sign(ctx, payloadFor(i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "sign failed: %v\n", err)
			os.Exit(1)
		}
		seeded[i] = res.Token
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	signStats := runPhase(*ops, *concurrency, 7919, func(i int, _ *mrand.Rand) error {
		_, err := svc.Sign(ctx, payloadFor(i))
		return err
	})
	verifyStats := runPhase(*ops, *concurrency, 6151, func(_ int, r *mrand.Rand) error {
		_, err := svc.Verify(ctx, seeded[r.Intn(len(seeded))])
		return err
	})

	fmt.Println("---- results ----")
	printStats("sign", signStats)
	printStats("verify", verifyStats)

	snapshot := svc.MetricsSnapshot()
	fmt.Printf("counters: sign_success=%d sign_failure=%d verify_success=%d verify_expired=%d verify_malformed=%d verify_failure=%d\n",
		snapshot.Counters[jwtservice.MetricSignSuccess],
		snapshot.Counters[jwtservice.MetricSignFailure],
		snapshot.Counters[jwtservice.MetricVerifySuccess],
		snapshot.Counters[jwtservice.MetricVerifyExpired],
		snapshot.Counters[jwtservice.MetricVerifyMalformed],
		snapshot.Counters[jwtservice.MetricVerifyFailure],
	)
}

// runPhase spreads ops calls of op over concurrency workers sharing one
// cursor and records per-call latency.
func runPhase(ops, concurrency int, seedStride int64, op func(i int, r *mrand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := mrand.New(mrand.NewSource(time.Now().UnixNano() + int64(worker)*seedStride))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(i, r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func payloadFor(i int) map[string]any {
	return map[string]any{
		"sub":  fmt.Sprintf("user-%d", i),
		"role": "member",
	}
}

// secretFor returns an HMAC secret, or a freshly generated PKCS#8 PEM private
// key for the asymmetric families.
func secretFor(alg string) (string, error) {
	var (
		key any
		err error
	)
	switch {
	case strings.HasPrefix(alg, "HS"):
		return "loadtest-secret-" + alg, nil
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		key, err = rsa.GenerateKey(rand.Reader, 2048)
	case alg == "ES256":
		key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case alg == "ES384":
		key, err = ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case alg == "ES512":
		key, err = ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	case alg == "EdDSA":
		_, key, err = ed25519.GenerateKey(rand.Reader)
	default:
		return "", fmt.Errorf("unsupported algorithm %q", alg)
	}
	if err != nil {
		return "", err
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})), nil
}
