package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alturath/hr-audit/internal/domain/audit"
)

// WriteTable renders the report as aligned plain text for terminals.
func WriteTable(w io.Writer, report audit.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Attendance audit %s (cutoff %s)\n\n", windowText(report), report.Cutoff)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, v := range report.Rows {
		fmt.Fprintln(tw, strings.Join(rowValues(v), "\t"))
	}
	if report.Search != "" {
		fmt.Fprintf(tw, "\nShowing %d of %d rows matching %q\n", len(report.Rows), report.TotalRows, report.Search)
	}

	s := report.Summary
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Staff\t%d\n", s.StaffCount)
	fmt.Fprintf(tw, "Present\t%d\n", s.Present)
	fmt.Fprintf(tw, "On time\t%d\n", s.OnTime)
	fmt.Fprintf(tw, "Late\t%d (%.2f%%)\n", s.Late, s.LatePercent)
	fmt.Fprintf(tw, "Authorized absence\t%d\n", s.AuthorizedAbsence)
	fmt.Fprintf(tw, "Unexplained absence\t%d\n", s.UnexplainedAbsence)

	for _, f := range report.Unavailable {
		fmt.Fprintf(tw, "\nSource %s unavailable: %s", f.Source, f.Error)
	}
	if len(report.Unavailable) > 0 {
		fmt.Fprintln(tw)
	}
	if len(report.AmbiguousNames) > 0 {
		fmt.Fprintf(tw, "\nAmbiguous names: %s\n", strings.Join(report.AmbiguousNames, ", "))
	}
	return tw.Flush()
}
