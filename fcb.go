// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nand

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// fcbMagic is the 4-byte value stamped at header offset 4 of every Flash
// Control Block.
var fcbMagic = []byte("FCB ")

// minFCBLen is the minimum number of bytes the parser needs starting at the
// FCB header offset; it covers every field up to and including bch_type.
const minFCBLen = 140

// LocateFCB scans dump for the first occurrence of the "FCB " magic and
// returns the offset of the FCB header that precedes it (the magic sits at
// header offset 4). It returns ErrFCBNotFound when the magic is absent, or
// found at an index below 4 (there is no room for a header before it).
func LocateFCB(dump []byte) (int, error) {
	idx := bytes.Index(dump, fcbMagic)
	if idx < 0 || idx < 4 {
		return 0, ErrFCBNotFound
	}
	return idx - 4, nil
}

// Geometry describes the NAND page layout and ECC configuration carried by
// an i.MX Flash Control Block. It is produced once per dump by ParseFCB and
// may be adjusted through the Set* methods before a conversion starts; every
// setter recomputes whatever derived fields it affects.
type Geometry struct {
	Version uint32

	PageDataSize    uint32
	TotalPageSize   uint32
	SectorsPerBlock uint32
	NbNands         uint32

	EccBlock0T         uint32
	EccBlockNT         uint32
	EccBlock0DataSize  uint32
	EccBlockNDataSize  uint32
	MetadataBytes      uint32
	NbEccBlocksPerPage uint32
	BCHType            uint32

	FW1Start uint32
	FW2Start uint32
	PagesFW1 uint32
	PagesFW2 uint32

	BBMarker     uint32
	BBMarkerBits uint32

	// MarkerRawOffset is the physical byte offset within a raw page where
	// the bad-block marker currently sits, derived from the fields above.
	MarkerRawOffset uint32
}

func u32le(b []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(b[offset : offset+4])
}

// ParseFCB decodes an FCB header out of content, which must start at the
// header offset returned by LocateFCB (or a caller-forced offset) and
// contain at least minFCBLen bytes.
func ParseFCB(content []byte) (*Geometry, error) {
	if len(content) < 132 {
		return nil, ErrFCBTooShort
	}
	if len(content) < minFCBLen {
		return nil, ErrFCBTooShort
	}
	if !bytes.Equal(content[4:8], fcbMagic) {
		return nil, errors.Wrapf(ErrFCBBadMagic, "got %q", content[4:8])
	}

	g := &Geometry{
		Version:            binary.BigEndian.Uint32(content[8:12]),
		PageDataSize:       u32le(content, 20),
		TotalPageSize:      u32le(content, 24),
		SectorsPerBlock:    u32le(content, 28),
		NbNands:            u32le(content, 32),
		EccBlockNT:         u32le(content, 44),
		EccBlock0DataSize:  u32le(content, 48),
		EccBlockNDataSize:  u32le(content, 52),
		EccBlock0T:         u32le(content, 56),
		MetadataBytes:      u32le(content, 60),
		NbEccBlocksPerPage: u32le(content, 64),
		FW1Start:           u32le(content, 104),
		FW2Start:           u32le(content, 108),
		PagesFW1:           u32le(content, 112),
		PagesFW2:           u32le(content, 116),
		BBMarker:           u32le(content, 124),
		BBMarkerBits:       u32le(content, 128),
		BCHType:            u32le(content, 136),
	}
	g.recomputeMarkerOffset()

	return g, nil
}

// recomputeMarkerOffset derives MarkerRawOffset from the current
// MetadataBytes, EccBlock0T, EccBlockNT, EccBlockNDataSize and BBMarker
// fields, per the formula in the Geometry data model:
//
//	metadata_bytes + ceil(26*ecc_block0_t/8) + ceil((marker_page-1)*26*ecc_blockN_t/8) + bb_marker
//
// where marker_page = floor(bb_marker / ecc_blockN_data_size).
func (g *Geometry) recomputeMarkerOffset() {
	if g.EccBlockNDataSize == 0 {
		g.MarkerRawOffset = g.MetadataBytes + g.BBMarker
		return
	}
	markerPage := g.BBMarker / g.EccBlockNDataSize
	block0EccBytes := ceilDiv(26*g.EccBlock0T, 8)
	// markerPage is unsigned, so the "-1" must happen in signed arithmetic:
	// markerPage == 0 (marker inside Block0) needs a genuine -1 here, not
	// the uint32 wraparound 0xFFFFFFFF.
	blockNEccBits := (int64(markerPage) - 1) * 26 * int64(g.EccBlockNT)
	blockNEccBytes := ceilDivInt64(blockNEccBits, 8)
	g.MarkerRawOffset = uint32(int64(g.MetadataBytes) + int64(block0EccBytes) + blockNEccBytes + int64(g.BBMarker))
}

// ceilDiv computes ceil(a/b) for non-negative uint32 operands.
func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return 0
	}
	return uint32(math.Ceil(float64(a) / float64(b)))
}

// ceilDivInt64 computes ceil(a/b) for a possibly negative numerator, as the
// marker_page-1 term can legitimately go negative for a marker that lives
// inside Block0.
func ceilDivInt64(a int64, b int64) int64 {
	if a >= 0 {
		return (a + b - 1) / b
	}
	return -((-a) / b)
}

// EccBlock0Bits returns the Block0 ECC code size in bits (26 * t).
func (g *Geometry) EccBlock0Bits() uint32 { return 26 * g.EccBlock0T }

// EccBlockNBits returns the BlockN ECC code size in bits (26 * t).
func (g *Geometry) EccBlockNBits() uint32 { return 26 * g.EccBlockNT }

// Validate checks the invariants that must hold for the splitter to be able
// to walk a page without running off the end of the buffer. The converter
// calls this once, after any overrides have been applied and before the
// page loop starts.
func (g *Geometry) Validate() error {
	if g.EccBlock0T == 0 || g.EccBlockNT == 0 {
		return errors.Wrap(ErrGeometryInvalid, "ECC strength must be positive")
	}
	if g.EccBlock0DataSize == 0 || g.EccBlockNDataSize == 0 {
		return errors.Wrap(ErrGeometryInvalid, "ECC data block size must be positive")
	}
	need := uint64(g.MetadataBytes) +
		uint64(g.EccBlock0DataSize) + uint64(ceilDiv(g.EccBlock0Bits(), 8)) +
		uint64(g.NbEccBlocksPerPage)*(uint64(g.EccBlockNDataSize)+uint64(ceilDiv(g.EccBlockNBits(), 8)))
	if uint64(g.TotalPageSize) < need {
		return errors.Wrapf(ErrGeometryInvalid, "total_page_size %d smaller than required %d", g.TotalPageSize, need)
	}
	return nil
}

// SetMetadataBytes forces the per-page metadata region size. It does not
// alter any other field; MarkerRawOffset is recomputed since it depends on
// MetadataBytes.
func (g *Geometry) SetMetadataBytes(n uint32) {
	g.MetadataBytes = n
	g.recomputeMarkerOffset()
}

// SetPageDataSize forces the page data size. It does not alter
// MetadataBytes, the ECC fields, or BBMarker.
func (g *Geometry) SetPageDataSize(n uint32) {
	g.PageDataSize = n
}

// SetBadBlockMarker forces the bad-block marker logical byte offset and
// recomputes MarkerRawOffset.
func (g *Geometry) SetBadBlockMarker(offset uint32) {
	g.BBMarker = offset
	g.recomputeMarkerOffset()
}

// SetEccSizeBits forces both ECC strengths from a total ECC code size in
// bits, setting ecc_block0_t = ecc_blockN_t = floor(bits/26).
func (g *Geometry) SetEccSizeBits(bits uint32) {
	t := bits / 26
	g.EccBlock0T = t
	g.EccBlockNT = t
	g.recomputeMarkerOffset()
}
