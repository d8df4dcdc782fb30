// Package otel publishes jwtservice metrics through an OpenTelemetry Meter.
//
// Counters become observable counters named like their Prometheus series.
// Each latency histogram becomes a "<name>_bucket" gauge carrying an "le"
// attribute per upper bound, plus a "<name>_count" gauge. The caller owns the
// MeterProvider; [OTelExporter.Close] unregisters the callback.
package otel
