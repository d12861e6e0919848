package accuracy

import (
	"fmt"
	"io"
	"time"
)

// WriteText renders the report as a fixed-width table.
func (r Report) WriteText(w io.Writer) error {
	p := &printer{w: w}

	p.printf("Ephemeris validation report\n")
	p.printf("Instant:   %s\n", r.At.UTC().Format(time.RFC3339))
	p.printf("Reference: %s\n", r.Source)
	p.printf("\n")
	p.printf("%-20s %10s %10s %8s  %s\n", "Quantity", "Reference", "Computed", "Delta", "Verdict")

	for _, e := range r.Entries {
		if e.Verdict == VerdictSkipped {
			p.printf("%-20s %10s %10s %8s  %s (%s)\n", e.Quantity, "-", "-", "-", e.Verdict, e.Note)
			continue
		}
		p.printf("%-20s %10.3f %10.3f %8.3f  %s\n", e.Quantity, e.Reference, e.Computed, e.Delta, e.Verdict)
	}

	if len(r.Anomalies) > 0 {
		p.printf("\nAnomalies:\n")
		for _, a := range r.Anomalies {
			p.printf("  - %s\n", a)
		}
	}

	s := r.Summary
	p.printf("\nSummary: %d excellent, %d good, %d check, %d skipped\n", s.Excellent, s.Good, s.Check, s.Skipped)
	p.printf("Confidence: %.1f%% (%s)\n", s.ConfidencePercent, s.Level)
	return p.err
}

// printer remembers the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
