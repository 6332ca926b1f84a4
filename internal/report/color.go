package report

import (
	"github.com/fatih/color"

	"github.com/okian/qualitydash/internal/domain/scoring"
)

// Shared color printers for report sections.
var (
	colorRed   = color.New(color.FgRed)
	colorGreen = color.New(color.FgGreen)
	colorFaint = color.New(color.Faint)
	colorBold  = color.New(color.Bold)
)

// ColorStatus colors benchmark status labels.
func ColorStatus(val string) string {
	switch scoring.Status(val) {
	case scoring.StatusBetter:
		return colorGreen.Sprint(val)
	case scoring.StatusWorse:
		return colorRed.Sprint(val)
	case scoring.StatusNoData:
		return colorFaint.Sprint(val)
	default:
		return val
	}
}

// ColorTrend colors trend labels.
func ColorTrend(val string) string {
	switch scoring.Trend(val) {
	case scoring.TrendImproving:
		return colorGreen.Sprint(val)
	case scoring.TrendWorsening:
		return colorRed.Sprint(val)
	default:
		return val
	}
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}

// SetColor enables or disables ANSI colors for every printer.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// ColorOutcome colors probe check outcomes.
func ColorOutcome(val string) string {
	switch val {
	case outcomePass:
		return colorGreen.Sprint(val)
	case outcomeFail:
		return colorRed.Sprint(val)
	default:
		return val
	}
}
