// colorthief - dominant colour palette extraction
//
// colorthief samples the pixels of a raster image or SVG and reports the
// palette of its most prominent colours as hex, rgb(), hsl() and CSS keywords.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"github.com/jmylchreest/colorthief/internal/cli"
)

func main() {
	cli.Execute()
}
