// Package prometheus renders jwtservice metrics in the Prometheus text
// exposition format.
//
// Counters are named jwtservice_*_total; sign and verify latency are exported
// as jwtservice_sign_latency_seconds and jwtservice_verify_latency_seconds.
// Nothing is registered globally: callers mount [PrometheusExporter.Handler].
package prometheus
