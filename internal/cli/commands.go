package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorthief/internal/colour"
	"github.com/jmylchreest/colorthief/internal/image"
	"github.com/jmylchreest/colorthief/internal/thief"
	"github.com/jmylchreest/colorthief/internal/version"
)

// extractFunc runs one extraction and describes its result.
type extractFunc func(ctx context.Context, ct *thief.ColorThief, uri string) (view, error)

// imageCommand builds a command that extracts from a single image argument.
func imageCommand(opts *rootOptions, cmd *cobra.Command, extract extractFunc) *cobra.Command {
	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-extract whenever the image file changes")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return opts.runImage(cmd, args[0], extract)
	}
	return cmd
}

// runImage resolves the image argument, extracts once and, with --watch,
// again after every change to the file.
func (o *rootOptions) runImage(cmd *cobra.Command, arg string, extract extractFunc) error {
	if err := image.ValidateImagePath(arg); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	uri, err := image.ResolveImagePath(arg)
	if err != nil {
		return fmt.Errorf("failed to resolve image path: %w", err)
	}

	ct, logger, err := o.newThief(cmd)
	if err != nil {
		return err
	}
	if uri != arg {
		logger.Info("selected image", "path", uri)
	}

	ctx := cmd.Context()
	run := func() error {
		v, err := extract(ctx, ct, uri)
		if err != nil {
			return err
		}
		return o.render(cmd, v)
	}

	if err := run(); err != nil {
		if !o.watch {
			return err
		}
		logger.Error("extraction failed", "error", err)
	}
	if !o.watch {
		return nil
	}
	return watchImage(ctx, uri, logger, run)
}

func newPaletteCmd(opts *rootOptions) *cobra.Command {
	return imageCommand(opts, &cobra.Command{
		Use:   "palette <image>",
		Short: "Extract the colour palette of an image",
		Long: `Extract the colour palette of an image, most prominent colour first.

Examples:
  # Extract 5 colours (default)
  colorthief palette wallpaper.jpg

  # Extract 8 colours as JSON
  colorthief palette -c 8 --format json wallpaper.png

  # Sample every pixel and keep near-white ones
  colorthief palette --quality 1 --exclude-white=false logo.svg

  # Re-extract whenever the file changes
  colorthief palette --watch wallpaper.png`,
	}, paletteView)
}

func paletteView(ctx context.Context, ct *thief.ColorThief, uri string) (view, error) {
	palette, err := ct.Palette(ctx, uri)
	if err != nil {
		return view{}, err
	}

	labels := make([]string, len(palette.Colors))
	for i := range labels {
		labels[i] = "secondary"
	}
	labels[0] = "dominant"

	return view{
		data: palette,
		text: func(p *colour.Previewer) string {
			var b strings.Builder
			for i, c := range palette.Colors {
				b.WriteString(colorLine(p, labels[i], c))
				b.WriteString("\n")
			}
			return b.String()
		},
		table: func(p *colour.Previewer) *Table {
			return colorTable(p, labels, palette.Colors)
		},
	}, nil
}

func newDominantCmd(opts *rootOptions) *cobra.Command {
	return imageCommand(opts, &cobra.Command{
		Use:   "dominant <image>",
		Short: "Print the dominant colour of an image",
		Long: `Print the single most prominent colour of an image.

Examples:
  colorthief dominant wallpaper.jpg
  colorthief dominant --format json https://example.com/logo.png`,
	}, func(ctx context.Context, ct *thief.ColorThief, uri string) (view, error) {
		dominant, err := ct.DominantColor(ctx, uri)
		if err != nil {
			return view{}, err
		}
		return view{
			data: dominant,
			text: func(p *colour.Previewer) string {
				return colorLine(p, "", *dominant) + "\n"
			},
			table: func(p *colour.Previewer) *Table {
				return colorTable(p, []string{"dominant"}, []thief.ColorResult{*dominant})
			},
		}, nil
	})
}

func newColorsCmd(opts *rootOptions) *cobra.Command {
	as := &colourFormatValue{format: colour.FormatHex}
	cmd := imageCommand(opts, &cobra.Command{
		Use:   "colors <image>",
		Short: "Print the palette in a single colour format",
		Long: `Print the palette of an image, one colour per line, in a single format.

Colour formats: hex, rgb, hsl, rgbArray, hslArray, keyword.

Examples:
  colorthief colors wallpaper.jpg
  colorthief colors --as hsl wallpaper.jpg
  colorthief colors --as keyword -c 3 logo.svg`,
	}, func(ctx context.Context, ct *thief.ColorThief, uri string) (view, error) {
		values, err := ct.ColorsInFormat(ctx, uri, as.format)
		if err != nil {
			return view{}, err
		}
		return view{
			data: values,
			text: func(_ *colour.Previewer) string {
				if len(values) == 0 {
					return ""
				}
				return strings.Join(values, "\n") + "\n"
			},
			table: func(_ *colour.Previewer) *Table {
				table := NewTable([]string{"#", as.format.String()})
				for i, v := range values {
					table.AddRow([]string{strconv.Itoa(i + 1), v})
				}
				return table
			},
		}, nil
	})
	cmd.Flags().Var(as, "as", "colour format (hex, rgb, hsl, rgbArray, hslArray, keyword)")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return imageCommand(opts, &cobra.Command{
		Use:   "stats <image>",
		Short: "Summarise the palette of an image",
		Long: `Summarise the palette of an image: the number of colours, their average
brightness and a rank weight per colour (1 for the dominant colour, falling
linearly to 1/N for the last).`,
	}, statsView)
}

type distributionEntry struct {
	hex    string
	weight float64
}

func statsView(ctx context.Context, ct *thief.ColorThief, uri string) (view, error) {
	stats, err := ct.ColorStatistics(ctx, uri)
	if err != nil {
		return view{}, err
	}

	entries := make([]distributionEntry, 0, len(stats.ColorDistribution))
	for hex, w := range stats.ColorDistribution {
		entries = append(entries, distributionEntry{hex: hex, weight: w})
	}
	slices.SortFunc(entries, func(a, b distributionEntry) int {
		if a.weight != b.weight {
			if a.weight > b.weight {
				return -1
			}
			return 1
		}
		return strings.Compare(a.hex, b.hex)
	})

	swatch := func(p *colour.Previewer, e distributionEntry) string {
		if p == nil {
			return ""
		}
		rgb, _ := colour.HexToRGB(e.hex)
		return p.SwatchWithText(rgb, fmt.Sprintf("%.2f", e.weight), 8) + " "
	}

	return view{
		data: stats,
		text: func(p *colour.Previewer) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Total colours:      %d\n", stats.TotalColors)
			fmt.Fprintf(&b, "Average brightness: %.2f\n", stats.AverageBrightness)
			b.WriteString("Distribution:\n")
			for _, e := range entries {
				fmt.Fprintf(&b, "  %s%s  %.4f\n", swatch(p, e), e.hex, e.weight)
			}
			return b.String()
		},
		table: func(p *colour.Previewer) *Table {
			table := NewTable([]string{"Hex", "Weight"})
			for _, e := range entries {
				table.AddRow([]string{swatch(p, e) + e.hex, fmt.Sprintf("%.4f", e.weight)})
			}
			return table
		},
	}, nil
}

func newConvertCmd(opts *rootOptions) *cobra.Command {
	to := &colourFormatValue{format: colour.FormatHex}
	cmd := &cobra.Command{
		Use:   "convert <colour>",
		Short: "Convert a colour between formats",
		Long: `Convert a colour given as hex, rgb(r, g, b), hsl(h, s%, l%), [r, g, b] or a
CSS keyword into every supported format, or into one format with --to.

Examples:
  colorthief convert '#ff6347'
  colorthief convert tomato --to hsl
  colorthief convert 'hsl(9, 100%, 64%)' --to hex
  colorthief convert 'rgb(10, 20, 30)' --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rgb, err := colour.Parse(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("to") {
				s, err := colour.FormatString(rgb, to.format)
				if err != nil {
					return err
				}
				return opts.render(cmd, singleValueView(to.format.String(), s))
			}
			return opts.render(cmd, conversionView(rgb))
		},
	}
	cmd.Flags().Var(to, "to", "print only this format (hex, rgb, hsl, rgbArray, hslArray, keyword)")
	return cmd
}

func singleValueView(name, value string) view {
	return view{
		data: map[string]string{name: value},
		text: func(_ *colour.Previewer) string { return value + "\n" },
		table: func(_ *colour.Previewer) *Table {
			table := NewTable([]string{"Format", "Value"})
			table.AddRow([]string{name, value})
			return table
		},
	}
}

func conversionView(rgb colour.RGB) view {
	type conversion struct{ name, value string }
	conversions := make([]conversion, 0, len(colour.Formats()))
	for _, f := range colour.Formats() {
		s, _ := colour.FormatString(rgb, f)
		conversions = append(conversions, conversion{f.String(), s})
	}

	hsl := colour.RGBToHSL(rgb)
	data := map[string]any{
		colour.FormatHex.String():       rgb.Hex(),
		colour.FormatRGBString.String(): rgb.String(),
		colour.FormatHSLString.String(): hsl.String(),
		colour.FormatRGBArray.String():  rgb.Array(),
		colour.FormatHSLArray.String():  hsl.Array(),
		colour.FormatKeyword.String():   colour.Keyword(rgb),
	}

	return view{
		data: data,
		text: func(p *colour.Previewer) string {
			var b strings.Builder
			if p != nil {
				b.WriteString(p.Line(rgb, colour.Keyword(rgb), 0))
				b.WriteString("\n")
			}
			for _, c := range conversions {
				fmt.Fprintf(&b, "%-9s %s\n", c.name+":", c.value)
			}
			return b.String()
		},
		table: func(_ *colour.Previewer) *Table {
			table := NewTable([]string{"Format", "Value"})
			for _, c := range conversions {
				table.AddRow([]string{c.name, c.value})
			}
			return table
		},
	}
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the release, commit, build date, Go toolchain and the quantizers this binary can run.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()
			return opts.render(cmd, view{
				data: info,
				text: func(_ *colour.Previewer) string { return version.String() + "\n" },
				table: func(_ *colour.Previewer) *Table {
					table := NewTable([]string{"Field", "Value"})
					table.AddRow([]string{"version", info.Version})
					table.AddRow([]string{"commit", info.Commit})
					table.AddRow([]string{"date", info.Date})
					table.AddRow([]string{"go", info.GoVersion})
					table.AddRow([]string{"platform", info.Platform})
					table.AddRow([]string{"minimum go", info.MinimumGo})
					table.AddRow([]string{"quantizers", strings.Join(info.Algorithms, ", ")})
					return table
				},
			})
		},
	}
}
