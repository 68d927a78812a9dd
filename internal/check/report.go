// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package check

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/micha-blip/refcheck/pkg/types"
)

// WriteTable renders the detailed two-column table: one row per reference
// in source order, the missing-DOI placeholder standing in for absent
// identifiers.
func WriteTable(w io.Writer, report types.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOI\tstatus")
	for _, entry := range report.Entries {
		fmt.Fprintf(tw, "%s\t%s\n", entry.Label(), entry.Status)
	}
	return tw.Flush()
}

// WriteSummary renders the one-row three-column summary of counts.
func WriteSummary(w io.Writer, report types.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Found\tNot found\tMissing DOI")
	fmt.Fprintf(tw, "%d\t%d\t%d\n",
		report.Summary.Found, report.Summary.NotFound, report.Summary.MissingDOI)
	return tw.Flush()
}

// Tally returns the one-line human-readable count summary printed after
// every run, regardless of output mode.
func Tally(s types.Summary) string {
	return fmt.Sprintf("Done, found %d existing documents, %d non-existing documents and %d missing DOI",
		s.Found, s.NotFound, s.MissingDOI)
}
