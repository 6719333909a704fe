package reconcile

import (
	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/pkg/clock"
)

// Classify grades a check-in against the cutoff. Arriving exactly at the
// cutoff is on time; no check-in is not applicable.
func Classify(checkIn *clock.Clock, cutoff clock.Clock) audit.Compliance {
	switch {
	case checkIn == nil:
		return audit.ComplianceNotApplicable
	case *checkIn > cutoff:
		return audit.ComplianceLate
	default:
		return audit.ComplianceOnTime
	}
}
