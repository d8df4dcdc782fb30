package internaldefs

import (
	"github.com/MrEthical07/jwtservice"
)

// CounterDef names one service counter for export.
type CounterDef struct {
	ID   jwtservice.MetricID
	Name string
	Help string
}

// HistogramDef names one latency histogram for export.
type HistogramDef struct {
	ID   jwtservice.MetricID
	Name string
	Help string
}

// AuditDropped is exported alongside the service counters.
var AuditDropped = CounterDef{
	Name: "jwtservice_audit_dropped_total",
	Help: "Audit events dropped under dispatcher backpressure.",
}

var CounterDefs = []CounterDef{
	{ID: jwtservice.MetricSignSuccess, Name: "jwtservice_sign_success_total", Help: "Tokens signed."},
	{ID: jwtservice.MetricSignFailure, Name: "jwtservice_sign_failure_total", Help: "Sign calls failed by the signing primitive."},
	{ID: jwtservice.MetricSignUnknownAlgorithm, Name: "jwtservice_sign_unknown_algorithm_total", Help: "Sign calls rejected for a non-allowlisted algorithm."},
	{ID: jwtservice.MetricVerifySuccess, Name: "jwtservice_verify_success_total", Help: "Tokens verified."},
	{ID: jwtservice.MetricVerifyExpired, Name: "jwtservice_verify_expired_total", Help: "Tokens rejected as expired beyond tolerance."},
	{ID: jwtservice.MetricVerifyMalformed, Name: "jwtservice_verify_malformed_total", Help: "Tokens rejected as malformed or badly signed."},
	{ID: jwtservice.MetricVerifyFailure, Name: "jwtservice_verify_failure_total", Help: "Tokens rejected for any other reason."},
}

var HistogramDefs = []HistogramDef{
	{ID: jwtservice.MetricSignLatency, Name: "jwtservice_sign_latency_seconds", Help: "Sign latency histogram."},
	{ID: jwtservice.MetricVerifyLatency, Name: "jwtservice_verify_latency_seconds", Help: "Verify latency histogram."},
}

// HistogramBounds are the upper bounds, in seconds, of the service's
// latency buckets.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.0025",
	"0.005",
	"+Inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i, v := range raw {
		running += v
		out[i] = running
	}
	return out
}
