package jwtservice

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/jwtservice/jwt"
)

func TestMetricsDisabledNoIncrement(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricSignSuccess)

	if got := m.Value(MetricSignSuccess); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if snap := m.Snapshot(); len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricVerifySuccess)
	m.Observe(MetricVerifyLatency, time.Millisecond)
	if m.Enabled() || m.LatencyEnabled() || m.Value(MetricVerifySuccess) != 0 {
		t.Fatal("nil metrics must be inert")
	}
}

func TestMetricsConcurrentIncrementSafe(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 32
	const perG = 4000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				m.Inc(MetricVerifySuccess)
			}
		}()
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if got := m.Value(MetricVerifySuccess); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		50 * time.Microsecond,
		100 * time.Microsecond,
		250 * time.Microsecond,
		500 * time.Microsecond,
		time.Millisecond,
		2500 * time.Microsecond,
		5 * time.Millisecond,
		time.Second,
	}
	for _, d := range observations {
		m.Observe(MetricVerifyLatency, d)
	}
	m.Observe(MetricVerifySuccess, time.Millisecond)

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricVerifyLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}
	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d: expected 1, got %d", i, v)
		}
	}
	for _, v := range snap.Histograms[MetricSignLatency] {
		if v != 0 {
			t.Fatalf("sign histogram should be empty, got %v", snap.Histograms[MetricSignLatency])
		}
	}
	if _, ok := snap.Counters[MetricVerifyLatency]; ok {
		t.Fatal("latency ids must not appear as counters")
	}
}

func TestMetricsLatencyRequiresFlag(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Observe(MetricSignLatency, time.Millisecond)
	if _, ok := m.Snapshot().Histograms[MetricSignLatency]; ok {
		t.Fatal("histograms must be absent when latency is disabled")
	}
}

func TestServiceMetricsCounters(t *testing.T) {
	clock := newTestClock(baseTime)
	svc, err := NewService(Dependencies{
		Config: Config{
			JWT:     jwtConfig(String("1m"), nil, "HS256"),
			Metrics: MetricsConfig{Enabled: true, EnableLatencyHistograms: true},
		},
		Env:   testEnv(),
		Clock: clock.Now,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	res, err := svc.Sign(ctx, map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, _ = svc.Sign(ctx, nil, "LOLALG")
	_, _ = svc.Verify(ctx, res.Token)
	_, _ = svc.Verify(ctx, "kikooolol")
	clock.Set(baseTime.Add(time.Hour))
	_, _ = svc.Verify(ctx, res.Token)

	snap := svc.MetricsSnapshot()
	want := map[MetricID]uint64{
		MetricSignSuccess:          1,
		MetricSignFailure:          0,
		MetricSignUnknownAlgorithm: 1,
		MetricVerifySuccess:        1,
		MetricVerifyExpired:        1,
		MetricVerifyMalformed:      1,
		MetricVerifyFailure:        0,
	}
	for id, v := range want {
		if got := snap.Counters[id]; got != v {
			t.Errorf("metric %d: expected %d, got %d", id, v, got)
		}
	}

	var verifies uint64
	for _, v := range snap.Histograms[MetricVerifyLatency] {
		verifies += v
	}
	if verifies != 3 {
		t.Fatalf("expected 3 verify latency samples, got %d", verifies)
	}
}

func TestServiceMetricsFailures(t *testing.T) {
	fake := &fakePrimitive{signErr: fmt.Errorf("boom"), verifyErr: fmt.Errorf("nbf")}
	svc, err := NewService(Dependencies{
		Config: Config{
			JWT:     jwtConfig(String("1m"), nil, "HS256"),
			Metrics: MetricsConfig{Enabled: true},
		},
		Env:       testEnv(),
		Primitive: fake,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, _ = svc.Sign(context.Background(), nil)
	_, _ = svc.Verify(context.Background(), "x")
	fake.verifyErr = fmt.Errorf("%w: nope", jwt.ErrTokenMalformed)
	_, _ = svc.Verify(context.Background(), "x")

	snap := svc.MetricsSnapshot()
	if snap.Counters[MetricSignFailure] != 1 || snap.Counters[MetricVerifyFailure] != 1 || snap.Counters[MetricVerifyMalformed] != 1 {
		t.Fatalf("unexpected counters: %+v", snap.Counters)
	}
}
