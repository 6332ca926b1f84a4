package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/okian/qualitydash/internal/probe"
)

const (
	outcomePass = "pass"
	outcomeFail = "fail"
)

// RenderChecks writes the outcome of a probe run in the given format.
func RenderChecks(w io.Writer, rep probe.Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "", FormatText:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if _, err := fmt.Fprintln(w, SectionTitle("Dashboard checks")); err != nil {
		return err
	}
	t := NewTable(
		Column{Header: "CHECK"},
		Column{Header: "RESULT", Color: ColorOutcome},
		Column{Header: "DETAIL"},
	)
	for _, r := range rep.Results {
		outcome := outcomePass
		if !r.Passed {
			outcome = outcomeFail
		}
		t.AddRow(r.Name, outcome, r.Detail)
	}
	if err := t.Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d checks, %d failed in %s\n", len(rep.Results), len(rep.Failed()), rep.Duration.Round(time.Millisecond))
	return err
}
