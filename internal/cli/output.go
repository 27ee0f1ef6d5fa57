package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/colorthief/internal/colour"
	"github.com/jmylchreest/colorthief/internal/thief"
)

const swatchWidth = 4

// view is a command result that can be rendered in every output format.
type view struct {
	// data is marshalled for --format json.
	data any
	// text renders --format text. p is nil when previews are off.
	text func(p *colour.Previewer) string
	// table renders --format table.
	table func(p *colour.Previewer) *Table
}

// render writes v to --output or stdout in the selected format.
func (o *rootOptions) render(cmd *cobra.Command, v view) error {
	var out string
	switch o.format {
	case formatJSON:
		data, err := json.MarshalIndent(v.data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		out = string(data) + "\n"
	case formatTable:
		out = v.table(o.previewer(cmd)).Render()
	default:
		out = v.text(o.previewer(cmd))
	}

	if o.output != "" {
		if err := os.WriteFile(o.output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, err := io.WriteString(cmd.OutOrStdout(), out)
	return err
}

// previewer returns nil unless swatches should be drawn. --preview decides
// when given; otherwise swatches are drawn only for a terminal stdout.
func (o *rootOptions) previewer(cmd *cobra.Command) *colour.Previewer {
	w := cmd.OutOrStdout()
	if cmd.Flags().Changed("preview") {
		if !o.preview {
			return nil
		}
		if isTerminal(w) {
			return colour.NewPreviewer(w)
		}
		return colour.NewPreviewerWithProfile(w, termenv.TrueColor)
	}
	if o.output != "" || !isTerminal(w) {
		return nil
	}
	return colour.NewPreviewer(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func swatchPrefix(p *colour.Previewer, c colour.RGB) string {
	if p == nil {
		return ""
	}
	return p.Swatch(c, swatchWidth) + " "
}

// colorLine formats one palette entry on a single line.
func colorLine(p *colour.Previewer, label string, c thief.ColorResult) string {
	var b strings.Builder
	b.WriteString(swatchPrefix(p, c.RGB))
	if label != "" {
		fmt.Fprintf(&b, "%-10s ", label)
	}
	fmt.Fprintf(&b, "%s  %-18s %-20s %s", c.Formats.Hex, c.Formats.RGB, c.Formats.HSL, c.Formats.Keyword)
	if c.Weight > 0 {
		fmt.Fprintf(&b, " (%.1f%%)", c.Weight*100)
	}
	return b.String()
}

// colorTable lists palette entries with one row per colour.
func colorTable(p *colour.Previewer, labels []string, colors []thief.ColorResult) *Table {
	headers := []string{"Role", "Hex", "RGB", "HSL", "Keyword", "Weight"}
	if p != nil {
		headers = append([]string{""}, headers...)
	}

	table := NewTable(headers)
	for i, c := range colors {
		weight := ""
		if c.Weight > 0 {
			weight = fmt.Sprintf("%.1f%%", c.Weight*100)
		}
		row := []string{labels[i], c.Formats.Hex, c.Formats.RGB, c.Formats.HSL, c.Formats.Keyword, weight}
		if p != nil {
			row = append([]string{p.Swatch(c.RGB, swatchWidth)}, row...)
		}
		table.AddRow(row)
	}
	return table
}
