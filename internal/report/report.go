package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/qualitydash/internal/adapters/repository"
	service "github.com/okian/qualitydash/internal/app"
	"github.com/okian/qualitydash/internal/domain/analysis"
	"github.com/okian/qualitydash/internal/domain/display"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Sections.
const (
	SectionSummary    = "summary"
	SectionPriorities = "priorities"
	SectionSlopes     = "slopes"
)

// ErrUnknownFormat is returned for formats other than text and json.
var ErrUnknownFormat = errors.New("unknown report format")

// Source is the read side of the dashboard service.
type Source interface {
	Summary(ctx context.Context, domain string) (analysis.Summary, error)
	Distribution(ctx context.Context, domain string) (analysis.Distribution, error)
	Priorities(ctx context.Context, n int) ([]repository.Entry, error)
	GapRanking(ctx context.Context, n int) ([]repository.Entry, error)
	Underperforming(ctx context.Context, n int) ([]repository.Entry, error)
	Slopes(ctx context.Context, domain string) (service.SlopeChart, error)
}

// Options selects what Render writes.
type Options struct {
	Format   string
	Domain   string
	Limit    int
	View     string
	Sections []string
}

// Document is the JSON form of a report.
type Document struct {
	Domain       string                 `json:"domain,omitempty"`
	Summary      *analysis.Summary      `json:"summary,omitempty"`
	Distribution *analysis.Distribution `json:"distribution,omitempty"`
	Priorities   []repository.Entry     `json:"priorities,omitempty"`
	Slopes       *service.SlopeChart    `json:"slopes,omitempty"`
}

// Render collects the selected sections from src and writes them to w.
func Render(ctx context.Context, w io.Writer, src Source, opts Options) error {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	if opts.Format != FormatText && opts.Format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
	if opts.Limit < 1 {
		opts.Limit = 10
	}
	if len(opts.Sections) == 0 {
		opts.Sections = []string{SectionSummary, SectionPriorities, SectionSlopes}
	}

	doc := Document{Domain: opts.Domain}
	for _, s := range opts.Sections {
		switch s {
		case SectionSummary:
			sum, err := src.Summary(ctx, opts.Domain)
			if err != nil {
				return err
			}
			dist, err := src.Distribution(ctx, opts.Domain)
			if err != nil {
				return err
			}
			doc.Summary, doc.Distribution = &sum, &dist
		case SectionPriorities:
			entries, err := ranking(ctx, src, opts.View, opts.Limit)
			if err != nil {
				return err
			}
			doc.Priorities = entries
		case SectionSlopes:
			chart, err := src.Slopes(ctx, opts.Domain)
			if err != nil {
				return err
			}
			doc.Slopes = &chart
		default:
			return fmt.Errorf("unknown report section %q", s)
		}
	}

	if opts.Format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		return nil
	}
	return renderText(w, doc)
}

func ranking(ctx context.Context, src Source, view string, n int) ([]repository.Entry, error) {
	switch view {
	case "", "priority":
		return src.Priorities(ctx, n)
	case "gap":
		return src.GapRanking(ctx, n)
	case "underperforming":
		return src.Underperforming(ctx, n)
	default:
		return nil, fmt.Errorf("unknown ranking view %q", view)
	}
}

func renderText(w io.Writer, doc Document) error {
	if doc.Summary != nil {
		if err := RenderSummary(w, *doc.Summary, *doc.Distribution); err != nil {
			return err
		}
	}
	if doc.Priorities != nil {
		if err := RenderPriorities(w, doc.Priorities); err != nil {
			return err
		}
	}
	if doc.Slopes != nil {
		if err := RenderSlopes(w, *doc.Slopes); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary writes the headline counts and the weighted distribution.
func RenderSummary(w io.Writer, s analysis.Summary, d analysis.Distribution) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", SectionTitle("Summary")); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	tbl := NewTable(
		Column{Header: "Metric"},
		Column{Header: "Value", Align: AlignRight},
	)
	tbl.AddRow("measures", strconv.Itoa(s.Total))
	tbl.AddRow("excluded", strconv.Itoa(s.Excluded))
	tbl.AddRow("improving", strconv.Itoa(s.Trends.Improving))
	tbl.AddRow("worsening", strconv.Itoa(s.Trends.Worsening))
	tbl.AddRow("stable", strconv.Itoa(s.Trends.Stable))
	tbl.AddRow("better", fmt.Sprintf("%d (%.1f%%)", s.Statuses.Better, d.Better))
	tbl.AddRow("similar", fmt.Sprintf("%d (%.1f%%)", s.Statuses.Similar, d.Similar))
	tbl.AddRow("worse", fmt.Sprintf("%d (%.1f%%)", s.Statuses.Worse, d.Worse))
	tbl.AddRow("no_data", strconv.Itoa(s.Statuses.NoData))
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderPriorities writes a ranked table.
func RenderPriorities(w io.Writer, entries []repository.Entry) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", SectionTitle("Priorities")); err != nil {
		return fmt.Errorf("render priorities: %w", err)
	}
	tbl := NewTable(
		Column{Header: "#", Align: AlignRight},
		Column{Header: "Measure"},
		Column{Header: "Domain"},
		Column{Header: "Status", Color: ColorStatus},
		Column{Header: "Trend", Color: ColorTrend},
		Column{Header: "Gap", Align: AlignRight},
		Column{Header: "Weight", Align: AlignRight},
		Column{Header: "Score", Align: AlignRight},
	)
	for _, e := range entries {
		tbl.AddRow(
			strconv.Itoa(e.Rank),
			e.MeasureID,
			string(e.Domain),
			string(e.Status),
			string(e.Trend),
			formatFloat(e.Gap),
			formatFloat(e.Weight),
			formatFloat(e.Score),
		)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderSlopes writes the slope chart as a table, outliers last.
func RenderSlopes(w io.Writer, chart service.SlopeChart) error {
	title := "Slopes"
	if chart.Domain != "" {
		title += " - " + string(chart.Domain)
	}
	if _, err := fmt.Fprintf(w, "%s\n  Q3 %s, outlier threshold %s\n\n",
		SectionTitle(title), formatFloat(chart.Q3), formatFloat(chart.Threshold)); err != nil {
		return fmt.Errorf("render slopes: %w", err)
	}
	tbl := NewTable(
		Column{Header: "Measure"},
		Column{Header: "Local", Align: AlignRight},
		Column{Header: "Benchmark", Align: AlignRight},
		Column{Header: "Plotted", Align: AlignRight},
		Column{Header: "Group"},
	)
	add := func(group string) func(bar display.SlopeBar) {
		return func(b display.SlopeBar) {
			plotted := ""
			if b.Adjusted {
				plotted = formatFloat(b.DisplayLocalSlope) + " / " + formatFloat(b.DisplayBenchmarkSlope)
			}
			tbl.AddRow(b.ID, formatFloat(b.LocalSlope), formatFloat(b.BenchmarkSlope), plotted, group)
		}
	}
	regular, outliers := add("regular"), add("outlier")
	for _, b := range chart.Regular {
		regular(b)
	}
	for _, b := range chart.Outliers {
		outliers(b)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
