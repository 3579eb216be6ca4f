// Package report renders batch results: a plain-text coverage summary and
// a CSV export of the uncovered records in their original shape.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/covscan/covscan/internal/coverage"
	"github.com/covscan/covscan/internal/source"
)

// WriteSummary renders per-sender coverage totals as a text table.
func WriteSummary(w io.Writer, summaries []coverage.Summary) error {
	if _, err := fmt.Fprintln(w, "=== coverage summary ==="); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SENDER\tTOTAL\tCOVERED\tCOVERAGE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\n", s.Sender, s.Total, s.Covered, s.Pct())
	}
	fmt.Fprintf(tw, "\nOverall\t\t\t%.2f%%\n", coverage.TotalPct(summaries))

	return tw.Flush()
}

// WriteSummaryFile writes the coverage summary to path.
func WriteSummaryFile(path string, summaries []coverage.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer f.Close()

	if err := WriteSummary(f, summaries); err != nil {
		return err
	}
	return f.Close()
}

// WriteUncovered exports the uncovered subset of the batch as CSV, original
// header and rows, no further modification.
func WriteUncovered(w io.Writer, batch *source.Batch, uncovered []int) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(batch.Header); err != nil {
		return err
	}
	for _, i := range uncovered {
		if err := writer.Write(batch.Records[i].Row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteUncoveredFile writes the uncovered export to path.
func WriteUncoveredFile(path string, batch *source.Batch, uncovered []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating uncovered export: %w", err)
	}
	defer f.Close()

	if err := WriteUncovered(f, batch, uncovered); err != nil {
		return err
	}
	return f.Close()
}
