// Package normalize turns each supported attendance source layout into
// canonical attendance events.
package normalize

import (
	"github.com/alturath/hr-audit/internal/domain/attendance"
	"github.com/alturath/hr-audit/internal/domain/audit"
)

// Set holds one normalizer per source kind.
type Set map[attendance.SourceKind]attendance.Normalizer

// NewSet builds the default normalizers for the given options.
func NewSet(opts audit.Options) Set {
	normalizers := []attendance.Normalizer{
		NewGateLogNormalizer(DefaultGateColumns),
		NewStatusExportNormalizer(DefaultStatusColumns, opts.HeaderSkipRows, opts.IsPresentMarker),
		NewMonthlyGridNormalizer(DefaultGridLayout),
	}
	set := make(Set, len(normalizers))
	for _, n := range normalizers {
		set[n.Kind()] = n
	}
	return set
}

// For returns the normalizer for kind, or nil.
func (s Set) For(kind attendance.SourceKind) attendance.Normalizer {
	return s[kind]
}
