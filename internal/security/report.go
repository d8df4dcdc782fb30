package security

import (
	"strings"
	"time"
)

// Report summarizes the security posture of a resolved token policy. It
// never carries the secret itself.
type Report struct {
	Algorithms          []string      `json:"algorithms"`
	DefaultAlgorithm    string        `json:"defaultAlgorithm"`
	SymmetricAlgorithms bool          `json:"symmetricAlgorithms"`
	MixedFamilies       bool          `json:"mixedFamilies"`
	TokenLifetime       time.Duration `json:"tokenLifetime"`
	ClockTolerance      time.Duration `json:"clockTolerance"`
	LongLivedTokens     bool          `json:"longLivedTokens"`
	SecretLength        int           `json:"secretLength"`
	WeakHMACSecret      bool          `json:"weakHmacSecret"`
	AuditEnabled        bool          `json:"auditEnabled"`
	MetricsEnabled      bool          `json:"metricsEnabled"`
}

type ReportInput struct {
	Algorithms     []string
	DurationMs     int64
	ToleranceMs    int64
	SecretLength   int
	AuditEnabled   bool
	MetricsEnabled bool
}

// LongLivedThreshold marks lifetimes past which tokens are flagged.
const LongLivedThreshold = 24 * time.Hour

func BuildReport(input ReportInput) Report {
	r := Report{
		Algorithms:     append([]string(nil), input.Algorithms...),
		TokenLifetime:  time.Duration(input.DurationMs) * time.Millisecond,
		ClockTolerance: time.Duration(input.ToleranceMs) * time.Millisecond,
		SecretLength:   input.SecretLength,
		AuditEnabled:   input.AuditEnabled,
		MetricsEnabled: input.MetricsEnabled,
	}
	if len(r.Algorithms) > 0 {
		r.DefaultAlgorithm = r.Algorithms[0]
	}
	r.LongLivedTokens = r.TokenLifetime > LongLivedThreshold

	asymmetric := false
	for _, alg := range input.Algorithms {
		size, ok := hmacKeySize(alg)
		if !ok {
			asymmetric = true
			continue
		}
		r.SymmetricAlgorithms = true
		if input.SecretLength < size {
			r.WeakHMACSecret = true
		}
	}
	r.MixedFamilies = r.SymmetricAlgorithms && asymmetric

	return r
}

// hmacKeySize is the minimum key length for an HS* algorithm: the size of
// its hash output.
func hmacKeySize(alg string) (int, bool) {
	if !strings.HasPrefix(alg, "HS") {
		return 0, false
	}
	switch alg {
	case "HS256":
		return 32, true
	case "HS384":
		return 48, true
	case "HS512":
		return 64, true
	}
	return 0, false
}
