// Package kick scores a drilling parameter snapshot for signs of a kick.
//
// Scoring is additive: every indicator that exceeds its threshold adds 2
// points, or 3 when it exceeds twice the threshold. The total score and the
// number of triggered indicators map to a severity band.
package kick

// Severity is the kick severity band, ordered from NONE to CRITICAL.
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders severities; a higher rank is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Routing is the action class a caller forwards the assessment to.
type Routing string

const (
	NoKick      Routing = "NoKick"
	KickWarning Routing = "KickWarning"
	KickAlert   Routing = "KickAlert"
)

// SeverityFor maps a score and indicator count to a severity band.
func SeverityFor(score, count int) Severity {
	switch {
	case count == 0:
		return SeverityNone
	case score >= 8 || count >= 4:
		return SeverityCritical
	case score >= 5 || count >= 3:
		return SeverityHigh
	case score >= 3 || count >= 2:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// RoutingFor maps a severity to its routing class.
func RoutingFor(s Severity) Routing {
	switch s {
	case SeverityNone:
		return NoKick
	case SeverityLow, SeverityMedium:
		return KickWarning
	default:
		return KickAlert
	}
}
