package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	SetColor(false)
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTable_BasicRender(t *testing.T) {
	tbl := NewTable(
		Column{Header: "Measure"},
		Column{Header: "Score", Align: AlignRight},
	)
	tbl.AddRow("EDAC-30-AMI", "214.500")
	tbl.AddRow("MORT-30-HF", "5.000")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	lines := splitLines(buf.String())
	require.Len(t, lines, 4)
	assert.Equal(t, "  Measure        Score", lines[0])
	assert.Equal(t, "  -----------  -------", lines[1])
	assert.Equal(t, "  EDAC-30-AMI  214.500", lines[2])
	assert.Equal(t, "  MORT-30-HF     5.000", lines[3])
}

func TestTable_MissingAndExtraValues(t *testing.T) {
	tbl := NewTable(Column{Header: "A"}, Column{Header: "B"})
	tbl.AddRow("only-one")
	tbl.AddRow("x", "y", "extra-ignored")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	assert.Contains(t, buf.String(), "only-one")
	assert.NotContains(t, buf.String(), "extra-ignored")
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_ColorFuncKeepsAlignment(t *testing.T) {
	tbl := NewTable(
		Column{Header: "Status", Color: func(v string) string { return "<" + v + ">" }},
		Column{Header: "N", Align: AlignRight},
	)
	tbl.AddRow("worse", "1")
	tbl.AddRow("better", "2")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	lines := splitLines(buf.String())
	assert.Equal(t, "  <worse>   1", lines[2])
	assert.Equal(t, "  <better>  2", lines[3])
}

func TestTable_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTable().Render(&buf))
	assert.Empty(t, buf.String())
}

func TestColorLabels_NoColor(t *testing.T) {
	assert.Equal(t, "worse", ColorStatus("worse"))
	assert.Equal(t, "improving", ColorTrend("improving"))
	assert.Equal(t, "Summary", SectionTitle("Summary"))
}
