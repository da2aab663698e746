package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/thumblens/thumblens/internal/binding"
	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/internal/numeric"
)

// Section is one titled table of a command's output.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string

	// TableOnly sections repeat what the text lines already show.
	TableOnly bool
}

// Result is everything a command prints.  Data is the JSON output; Lines
// head the text output; Sections are the tables shared by text and table
// output.
type Result struct {
	Data     interface{}
	Lines    []string
	Sections []Section
}

func (r *Result) addLine(format string, args ...interface{}) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

func (r *Result) addSection(s Section) {
	r.Sections = append(r.Sections, s)
}

func (r *Result) writeText(w io.Writer) error {
	for _, l := range r.Lines {
		fmt.Fprintln(w, l)
	}
	for _, s := range r.Sections {
		if s.TableOnly {
			continue
		}
		fmt.Fprintln(w)
		if s.Title != "" {
			fmt.Fprintln(w, color.New(color.Bold).Sprint(s.Title))
		}
		if err := renderTable(w, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Result) writeTables(w io.Writer) error {
	for i, s := range r.Sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if s.Title != "" {
			fmt.Fprintf(w, "=== %s ===\n", s.Title)
		}
		if err := renderTable(w, s); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, s Section) error {
	if len(s.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(no data)")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header(s.Headers)
	for _, row := range s.Rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// matrixSection lays a matrix out with one column per matrix column.
// kind picks the format of each column.
func matrixSection(title, first string, m normalize.Matrix, label func(string) string, kind func(string) binding.MetricKind) Section {
	s := Section{Title: title, Headers: []string{first}}
	for _, col := range m.Columns {
		s.Headers = append(s.Headers, label(col))
	}
	for _, r := range m.Rows {
		row := []string{r.Category}
		for _, col := range m.Columns {
			row = append(row, binding.FormatCell(kind(col), r.Get(col)))
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

func sameKind(k binding.MetricKind) func(string) binding.MetricKind {
	return func(string) binding.MetricKind { return k }
}

func verbatim(s string) string { return s }

func count(n int) string { return binding.Format(binding.KindCount, float64(n)) }

func percent(v float64) string { return binding.Format(binding.KindPercent, v) }

// hexColor is a foreground colour from a #rrggbb string.  An unparsable
// string gives an uncoloured printer.
func hexColor(hex string) *color.Color {
	c, err := numeric.ParseHex(hex)
	if err != nil {
		return color.New(color.Reset)
	}
	return color.RGB(int(c.R), int(c.G), int(c.B))
}

func classify(c numeric.Classification) string {
	switch c {
	case numeric.Converging:
		return hexColor(binding.ConvergingColor).Sprint(string(c))
	case numeric.Diverging:
		return hexColor(binding.DivergingColor).Sprint(string(c))
	default:
		return string(c)
	}
}

func tone(t normalize.Tone, s string) string {
	switch t {
	case normalize.ToneGood:
		return color.GreenString(s)
	case normalize.ToneWarn:
		return color.YellowString(s)
	case normalize.ToneBad:
		return color.RedString(s)
	default:
		return s
	}
}

// heatLines draws the heatmap one channel per line, each score on its
// interpolated background.  Absent cells are left unpainted.
func heatLines(h normalize.Heatmap) []string {
	if len(h.Rows) == 0 {
		return nil
	}
	width := len("Channel")
	for _, row := range h.Rows {
		width = max(width, len(row.Channel))
	}
	cellWidth := 5
	for _, y := range h.Years {
		cellWidth = max(cellWidth, len(y))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s", width, "Channel")
	for _, y := range h.Years {
		fmt.Fprintf(&sb, " %*s", cellWidth, y)
	}
	lines := []string{sb.String()}

	for _, row := range h.Rows {
		sb.Reset()
		fmt.Fprintf(&sb, "%-*s", width, row.Channel)
		for _, cell := range row.Cells {
			text := fmt.Sprintf("%*s", cellWidth, binding.FormatCell(binding.KindScore, cell.Score))
			if cell.Score.Present {
				text = color.BgRGB(int(cell.Color.R), int(cell.Color.G), int(cell.Color.B)).Sprint(text)
			}
			sb.WriteString(" ")
			sb.WriteString(text)
		}
		lines = append(lines, sb.String())
	}
	return lines
}
