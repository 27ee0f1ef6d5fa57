package colour

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

const defaultWidth = 8

// Previewer renders colour swatches for a terminal.
type Previewer struct {
	output *termenv.Output
}

// NewPreviewer creates a Previewer for w. The colour profile is detected from w,
// so writers that are not terminals get plain text.
func NewPreviewer(w io.Writer) *Previewer {
	return &Previewer{output: termenv.NewOutput(w)}
}

// NewPreviewerWithProfile creates a Previewer with a fixed colour profile.
func NewPreviewerWithProfile(w io.Writer, profile termenv.Profile) *Previewer {
	return &Previewer{output: termenv.NewOutput(w, termenv.WithProfile(profile))}
}

// Swatch returns a solid block of width cells in colour c.
func (p *Previewer) Swatch(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	return p.output.String(strings.Repeat(" ", width)).
		Background(p.output.Color(c.Hex())).
		String()
}

// SwatchWithText returns a swatch with text centred on it. The text colour is
// black or white, whichever contrasts more with c.
func (p *Previewer) SwatchWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	displayText := text
	if len(text) > width {
		displayText = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		displayText = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	fg := "#ffffff"
	if RGBToHSL(c).L > 50 {
		fg = "#000000"
	}
	return p.output.String(displayText).
		Background(p.output.Color(c.Hex())).
		Foreground(p.output.Color(fg)).
		String()
}

// Line formats a colour as a swatch followed by its hex code and a label.
func (p *Previewer) Line(c RGB, label string, width int) string {
	if label == "" {
		return fmt.Sprintf("%s %s", p.Swatch(c, width), c.Hex())
	}
	return fmt.Sprintf("%s  %-20s %s", p.Swatch(c, width), label, c.Hex())
}
