// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command imx-nand-convert converts an i.MX NAND dump into a linear memory
// image, either in full or restricted to a single firmware slot located
// through the dump's Flash Control Block.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	nand "github.com/DigitalSecurity/imx-nand-tools"
	"github.com/DigitalSecurity/imx-nand-tools/internal/cliutil"
	"github.com/DigitalSecurity/imx-nand-tools/internal/display"
)

func main() {
	var (
		offsetFlag   string
		bbOffsetFlag string
		pageSizeFlag string
		metadataFlag string
		eccSizeFlag  string
		firmware     int
		correctECC   bool
		verbose      bool
	)

	root := &cobra.Command{
		Use:   "imx-nand-convert <nand_dump> <output_nand_dump>",
		Short: "Convert an i.MX NAND dump to a linear memory image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.StandardLogger()
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			display.Banner(os.Stdout, "IMX Nand Convert")

			if verbose {
				log.Info("loading memory dump")
			}
			dump, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("firmware") && firmware != 1 && firmware != 2 {
				color.New(color.FgRed, color.Bold).Fprintln(os.Stdout, ">> Firmware index MUST be 1 OR 2.")
				os.Exit(1)
			}

			offset, err := cliutil.ResolveOffset(dump, offsetFlag)
			if err != nil {
				color.New(color.FgRed, color.Bold).Fprintln(os.Stdout, "!!FCB not found, check your dump.")
				os.Exit(1)
			}
			fmt.Printf(">> FCB found at offset 0x%08x\n", offset)

			end := offset + 140
			if end > len(dump) {
				end = len(dump)
			}
			geom, err := nand.ParseFCB(dump[offset:end])
			if err != nil {
				return err
			}

			var overrides nand.Overrides
			if v, ok, err := cliutil.ParseUintFlag(bbOffsetFlag); err != nil {
				return err
			} else if ok {
				overrides.BadBlockMarker = &v
			}
			if v, ok, err := cliutil.ParseUintFlag(pageSizeFlag); err != nil {
				return err
			} else if ok {
				overrides.PageDataSize = &v
			}
			if v, ok, err := cliutil.ParseUintFlag(metadataFlag); err != nil {
				return err
			} else if ok {
				overrides.MetadataBytes = &v
			}
			if v, ok, err := cliutil.ParseUintFlag(eccSizeFlag); err != nil {
				return err
			} else if ok {
				overrides.EccSizeBits = &v
			}
			overrides.Apply(geom)

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			bar := newTextProgressBar(os.Stdout)
			converter := nand.NewConverter(geom, correctECC, bar.update, log)

			ctx := context.Background()
			if cmd.Flags().Changed("firmware") {
				fmt.Printf(">> Extracting firmware #%d ...\n", firmware)
				err = converter.ConvertFirmware(ctx, dump, firmware, out)
			} else {
				fmt.Println(">> Converting image ...")
				err = converter.ConvertAll(ctx, dump, out)
			}
			bar.finish()
			if err != nil {
				return err
			}

			if correctECC {
				display.Stats(os.Stdout, converter.Stats())
			}
			return nil
		},
	}

	root.Flags().StringVarP(&offsetFlag, "offset", "o", "", "Force FCB offset value")
	root.Flags().StringVarP(&bbOffsetFlag, "bad-block-offset", "b", "", "Force bad block marker offset")
	root.Flags().StringVarP(&pageSizeFlag, "page-size", "p", "", "Force page size (in bytes)")
	root.Flags().StringVarP(&metadataFlag, "metadata-size", "m", "", "Force metadata size (in bytes)")
	root.Flags().StringVarP(&eccSizeFlag, "ecc-size", "e", "", "Force ECC size (in bits)")
	root.Flags().IntVarP(&firmware, "firmware", "f", 0, "Firmware number to extract")
	root.Flags().BoolVarP(&correctECC, "correct", "c", false, "Correct errors with ECC")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "Be more verbose")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
