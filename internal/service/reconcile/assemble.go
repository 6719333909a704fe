package reconcile

import (
	"math"
	"sort"
	"strings"

	"github.com/alturath/hr-audit/internal/domain/audit"
	"github.com/alturath/hr-audit/internal/pkg/namekey"
)

// SortForDisplay orders verdicts by status rank, then name, then date.
func SortForDisplay(verdicts []audit.Verdict) {
	sort.SliceStable(verdicts, func(i, j int) bool {
		a, b := verdicts[i], verdicts[j]
		if ra, rb := a.Status.Rank(), b.Status.Rank(); ra != rb {
			return ra < rb
		}
		if na, nb := namekey.Fold(a.EmployeeName), namekey.Fold(b.EmployeeName); na != nb {
			return na < nb
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.EmployeeKey < b.EmployeeKey
	})
}

// Filter keeps verdicts whose name or employee ID contains search. An empty
// search keeps everything. The input is not modified.
func Filter(verdicts []audit.Verdict, search string) []audit.Verdict {
	search = strings.TrimSpace(search)
	if search == "" {
		return append([]audit.Verdict(nil), verdicts...)
	}
	var out []audit.Verdict
	for _, v := range verdicts {
		if namekey.Contains(v.EmployeeName, search) || strings.Contains(v.EmployeeID, search) {
			out = append(out, v)
		}
	}
	return out
}

// Summarize counts statuses over the full, unfiltered verdict set.
func Summarize(verdicts []audit.Verdict) audit.Summary {
	s := audit.Summary{TotalRecords: len(verdicts)}
	staff := make(map[string]struct{})
	bySource := make(map[string]*audit.SourceSummary)

	for _, v := range verdicts {
		staff[v.EmployeeKey] = struct{}{}
		switch {
		case v.Status.IsPresent():
			s.Present++
			src, ok := bySource[v.Source]
			if !ok {
				src = &audit.SourceSummary{Source: v.Source}
				bySource[v.Source] = src
			}
			if v.Status == audit.StatusPresentLate {
				s.Late++
				src.Late++
			} else {
				s.OnTime++
				src.OnTime++
			}
		case v.Status == audit.StatusAuthorizedAbsence:
			s.AuthorizedAbsence++
		case v.Status == audit.StatusUnexplainedAbsence:
			s.UnexplainedAbsence++
		}
	}

	s.StaffCount = len(staff)
	if s.Present > 0 {
		s.LatePercent = math.Round(float64(s.Late)/float64(s.Present)*10000) / 100
	}
	for _, src := range bySource {
		s.BySource = append(s.BySource, *src)
	}
	sort.Slice(s.BySource, func(i, j int) bool { return s.BySource[i].Source < s.BySource[j].Source })
	return s
}

// Assemble builds the display rows and the summary for a verdict set.
func Assemble(verdicts []audit.Verdict, search string) (rows []audit.Verdict, summary audit.Summary) {
	summary = Summarize(verdicts)
	rows = Filter(verdicts, search)
	SortForDisplay(rows)
	return rows, summary
}
