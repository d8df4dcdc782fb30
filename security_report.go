package jwtservice

import "github.com/MrEthical07/jwtservice/internal/security"

// SecurityReport describes the posture of a Service's resolved policy.
type SecurityReport = security.Report

// SecurityReport reports the resolved policy without exposing the secret.
func (s *Service) SecurityReport() SecurityReport {
	if s == nil {
		return SecurityReport{}
	}
	return security.BuildReport(security.ReportInput{
		Algorithms:     s.cfg.algorithms,
		DurationMs:     s.cfg.durationMs,
		ToleranceMs:    s.cfg.toleranceMs,
		SecretLength:   len(s.cfg.secret),
		AuditEnabled:   s.audit != nil,
		MetricsEnabled: s.metrics.Enabled(),
	})
}
