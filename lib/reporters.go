package sieveline

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// A Report represents the state a Reporter uses to write out its reports.
type Report interface {
	// Add adds a given *Sample to a Report.
	Add(*Sample)
}

// Closer is an extension interface for Reports that need to be sealed
// before reporting.
type Closer interface {
	// Close sets the report in a fixed state after all samples were added.
	Close()
}

// A Reporter function writes out reports to the given io.Writer or returns
// an error in case of failure.
type Reporter func(io.Writer) error

// Report is a convenience method wrapping the Reporter function type.
func (rep Reporter) Report(w io.Writer) error { return rep(w) }

// NewTextReporter returns a Reporter that writes out Metrics as aligned,
// formatted text.
func NewTextReporter(m *Metrics) Reporter {
	const fmtstr = "Samples\t[total, missing, gap runs, longest run]\t%d, %d, %d, %d\n" +
		"Time\t[earliest, latest, span, mean spacing]\t%g, %g, %g, %g\n" +
		"Values\t[min, mean, max]\t%g, %g, %g\n" +
		"Quantiles\t[50, 90, 95, 99]\t%g, %g, %g, %g\n" +
		"Features\t[peaks, valleys, edges]\t%d, %d, %d\n"

	return func(w io.Writer) (err error) {
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.StripEscape)
		if _, err = fmt.Fprintf(tw, fmtstr,
			m.Samples, m.Gaps.Missing, m.Gaps.Runs, m.Gaps.Longest,
			m.Time.Earliest, m.Time.Latest, m.Time.Span, m.Time.MeanSpacing,
			m.Values.Min, m.Values.Mean, m.Values.Max,
			m.Values.P50, m.Values.P90, m.Values.P95, m.Values.P99,
			m.Features.Peaks, m.Features.Valleys, m.Features.Edges,
		); err != nil {
			return err
		}
		return tw.Flush()
	}
}

// NewJSONReporter returns a Reporter that writes out Metrics as JSON.
func NewJSONReporter(m *Metrics) Reporter {
	return func(w io.Writer) error {
		return json.NewEncoder(w).Encode(m)
	}
}
