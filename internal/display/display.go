// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display renders a parsed Geometry as colourised human output, the
// Go equivalent of the original tool's termcolor-based FCB.display(). The
// core package exposes the Geometry struct and never formats it itself;
// fatih/color is imported only here and by the two commands.
package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	nand "github.com/DigitalSecurity/imx-nand-tools"
)

var value = color.New(color.FgCyan, color.Bold).SprintFunc()

// Geometry writes a human-readable rendering of g to w.
func Geometry(w io.Writer, g *nand.Geometry) {
	fmt.Fprintf(w, "FCB version: %d\n\n", g.Version)

	fmt.Fprintln(w, "---[ NAND structure ]---------")
	fmt.Fprintf(w, " > Page data size:\t%s\n", value(fmt.Sprintf("%d bytes", g.PageDataSize)))
	fmt.Fprintf(w, " > Total page size:\t%s\n", value(fmt.Sprintf("%d bytes (OOB: %d bytes)", g.TotalPageSize, g.TotalPageSize-g.PageDataSize)))
	fmt.Fprintf(w, " > Sectors/block:\t%s\n", value(fmt.Sprintf("%d", g.SectorsPerBlock)))
	fmt.Fprintf(w, " > Number of Nands:\t%s\n\n", value(fmt.Sprintf("%d", g.NbNands)))

	fmt.Fprintln(w, "---[ ECC ]--------------------")
	fmt.Fprintf(w, " > ECC block 0 type:\t%s\n", value(fmt.Sprintf("%d (%d bits)", g.EccBlock0T, g.EccBlock0Bits())))
	fmt.Fprintf(w, " > ECC block 0 size:\t%s\n", value(fmt.Sprintf("%d bytes", g.EccBlock0DataSize)))
	fmt.Fprintf(w, " > ECC block N type:\t%s\n", value(fmt.Sprintf("%d (%d bits)", g.EccBlockNT, g.EccBlockNBits())))
	fmt.Fprintf(w, " > ECC block N size:\t%s\n", value(fmt.Sprintf("%d bytes", g.EccBlockNDataSize)))
	fmt.Fprintf(w, " > Metadata bytes:\t%s\n", value(fmt.Sprintf("%d", g.MetadataBytes)))
	fmt.Fprintf(w, " > ECC blocks/page:\t%s\n", value(fmt.Sprintf("%d", g.NbEccBlocksPerPage+1)))
	fmt.Fprintf(w, " > ECC BCH Type:\t%d\n\n", g.BCHType)

	fmt.Fprintln(w, "---[ BadBlocks ]--------")
	fmt.Fprintf(w, " > Bad block marker byte:\t%s\n", value(fmt.Sprintf("0x%x", g.BBMarker)))
	fmt.Fprintf(w, " > Bad block start bit:\t\t%s\n", value(fmt.Sprintf("0x%x", g.BBMarkerBits)))
	fmt.Fprintf(w, " > Bad block Marker raw offset:\t%s\n\n", value(fmt.Sprintf("0x%x", g.MarkerRawOffset)))

	fmt.Fprintln(w, "---[ Firmware Info]-----")
	fmt.Fprintf(w, " > Firmware #1:\t%s\n", value(fmt.Sprintf("start @%08x (%d pages, %d bytes)", g.FW1Start, g.PagesFW1, uint64(g.PagesFW1)*uint64(g.PageDataSize))))
	fmt.Fprintf(w, " > Firmware #2:\t%s\n", value(fmt.Sprintf("start @%08x (%d pages, %d bytes)", g.FW2Start, g.PagesFW2, uint64(g.PagesFW2)*uint64(g.PageDataSize))))
}

// Stats writes the ECC statistics table at the end of a correcting run.
func Stats(w io.Writer, s nand.Stats) {
	fmt.Fprintln(w, "---[ ECC statistics ]---------")
	fmt.Fprintf(w, " > Clean:\t\t%s\n", value(fmt.Sprintf("%d", s.Clean)))
	fmt.Fprintf(w, " > Corrected:\t\t%s\n", value(fmt.Sprintf("%d", s.Corrected)))
	fmt.Fprintf(w, " > Uncorrectable:\t%s\n", value(fmt.Sprintf("%d", s.Uncorrectable)))
	fmt.Fprintf(w, " > Fatal:\t\t%s\n", value(fmt.Sprintf("%d", s.Fatal)))
}

// Banner prints the ASCII-art banner the original CLI tools show on
// startup, in the same bold-cyan styling.
func Banner(w io.Writer, title string) {
	banner := color.New(color.FgCyan, color.Bold)
	banner.Fprintf(w, `
     ___ __  ____  __  _____         _
    |_ _|  \/  \ \/ /_|_   _|__  ___| |___
     | || |\/| |>  <___|| |/ _ \/ _ \ (_-<
    |___|_|  |_/_/\_\   |_|\___/\___/_/__/

      ---< %s >---
`, title)
}
