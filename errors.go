// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nand

import "github.com/pkg/errors"

// Sentinel errors for the abort-class conditions of the conversion pipeline.
// Callers that need to distinguish a specific condition should compare
// against these with errors.Is / errors.Cause rather than string-matching.
var (
	// ErrFCBNotFound is returned when the "FCB " magic is absent from the
	// dump, or located before byte offset 4 (where the header would start
	// at a negative offset).
	ErrFCBNotFound = errors.New("FCB magic not found")

	// ErrFCBTooShort is returned when fewer than 140 bytes (minFCBLen) are
	// available starting at the candidate FCB header offset.
	ErrFCBTooShort = errors.New("FCB buffer too short, need at least 140 bytes")

	// ErrFCBBadMagic is returned when the 4 bytes at header offset 4 do
	// not read "FCB ".
	ErrFCBBadMagic = errors.New("FCB magic mismatch at header offset 4")

	// ErrGeometryInvalid is returned when derived block/ECC sizes
	// contradict total_page_size or produce a zero-length block.
	ErrGeometryInvalid = errors.New("geometry invalid: sizes contradict total page size")

	// ErrPageTruncated is returned when a raw page buffer runs out of
	// bytes before the splitter can extract the next block or ECC code.
	ErrPageTruncated = errors.New("page buffer truncated before next block")

	// ErrFirmwareIDInvalid is returned when a requested firmware id is
	// not 1 or 2.
	ErrFirmwareIDInvalid = errors.New("firmware id must be 1 or 2")
)
