// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nand

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fcbFixture fields mirror the raw header layout; buildFCB packs them at
// their documented byte offsets the same way ParseFCB reads them back.
type fcbFixture struct {
	version            uint32
	pageDataSize       uint32
	totalPageSize      uint32
	sectorsPerBlock    uint32
	nbNands            uint32
	eccBlock0T         uint32
	eccBlockNT         uint32
	eccBlock0DataSize  uint32
	eccBlockNDataSize  uint32
	metadataBytes      uint32
	nbEccBlocksPerPage uint32
	fw1Start           uint32
	fw2Start           uint32
	pagesFW1           uint32
	pagesFW2           uint32
	bbMarker           uint32
	bbMarkerBits       uint32
	bchType            uint32
}

func defaultFixture() fcbFixture {
	return fcbFixture{
		version:            1,
		pageDataSize:       2048,
		totalPageSize:      2162,
		sectorsPerBlock:    4,
		nbNands:            1,
		eccBlock0T:         8,
		eccBlockNT:         8,
		eccBlock0DataSize:  512,
		eccBlockNDataSize:  512,
		metadataBytes:      10,
		nbEccBlocksPerPage: 3,
		fw1Start:           4,
		fw2Start:           132,
		pagesFW1:           128,
		pagesFW2:           128,
		bbMarker:           0,
		bbMarkerBits:       0,
		bchType:            62,
	}
}

func (f fcbFixture) build() []byte {
	buf := make([]byte, minFCBLen)
	copy(buf[4:8], fcbMagic)
	binary.BigEndian.PutUint32(buf[8:12], f.version)
	binary.LittleEndian.PutUint32(buf[20:24], f.pageDataSize)
	binary.LittleEndian.PutUint32(buf[24:28], f.totalPageSize)
	binary.LittleEndian.PutUint32(buf[28:32], f.sectorsPerBlock)
	binary.LittleEndian.PutUint32(buf[32:36], f.nbNands)
	binary.LittleEndian.PutUint32(buf[44:48], f.eccBlockNT)
	binary.LittleEndian.PutUint32(buf[48:52], f.eccBlock0DataSize)
	binary.LittleEndian.PutUint32(buf[52:56], f.eccBlockNDataSize)
	binary.LittleEndian.PutUint32(buf[56:60], f.eccBlock0T)
	binary.LittleEndian.PutUint32(buf[60:64], f.metadataBytes)
	binary.LittleEndian.PutUint32(buf[64:68], f.nbEccBlocksPerPage)
	binary.LittleEndian.PutUint32(buf[104:108], f.fw1Start)
	binary.LittleEndian.PutUint32(buf[108:112], f.fw2Start)
	binary.LittleEndian.PutUint32(buf[112:116], f.pagesFW1)
	binary.LittleEndian.PutUint32(buf[116:120], f.pagesFW2)
	binary.LittleEndian.PutUint32(buf[124:128], f.bbMarker)
	binary.LittleEndian.PutUint32(buf[128:132], f.bbMarkerBits)
	binary.LittleEndian.PutUint32(buf[136:140], f.bchType)
	return buf
}

func TestLocateFCB(t *testing.T) {
	dump := make([]byte, 64)
	header := defaultFixture().build()
	copy(dump[8:], header)

	offset, err := LocateFCB(dump)
	require.NoError(t, err)
	assert.Equal(t, 8, offset)
}

func TestLocateFCBNotFound(t *testing.T) {
	dump := make([]byte, 64)
	_, err := LocateFCB(dump)
	assert.ErrorIs(t, err, ErrFCBNotFound)
}

func TestLocateFCBTooCloseToStart(t *testing.T) {
	dump := append([]byte{}, fcbMagic...)
	_, err := LocateFCB(dump)
	assert.ErrorIs(t, err, ErrFCBNotFound)
}

func TestParseFCB(t *testing.T) {
	buf := defaultFixture().build()

	g, err := ParseFCB(buf)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), g.Version)
	assert.Equal(t, uint32(2048), g.PageDataSize)
	assert.Equal(t, uint32(2162), g.TotalPageSize)
	assert.Equal(t, uint32(4), g.SectorsPerBlock)
	assert.Equal(t, uint32(8), g.EccBlock0T)
	assert.Equal(t, uint32(8), g.EccBlockNT)
	assert.Equal(t, uint32(512), g.EccBlock0DataSize)
	assert.Equal(t, uint32(512), g.EccBlockNDataSize)
	assert.Equal(t, uint32(10), g.MetadataBytes)
	assert.Equal(t, uint32(3), g.NbEccBlocksPerPage)
	assert.Equal(t, uint32(4), g.FW1Start)
	assert.Equal(t, uint32(128), g.PagesFW1)
	assert.Equal(t, uint32(10), g.MarkerRawOffset)
	require.NoError(t, g.Validate())
}

func TestParseFCBTooShort(t *testing.T) {
	_, err := ParseFCB(make([]byte, 100))
	assert.ErrorIs(t, err, ErrFCBTooShort)
}

func TestParseFCBBadMagic(t *testing.T) {
	buf := defaultFixture().build()
	copy(buf[4:8], "XXXX")
	_, err := ParseFCB(buf)
	assert.ErrorIs(t, err, ErrFCBBadMagic)
}

func TestValidateRejectsUndersizedTotalPageSize(t *testing.T) {
	fix := defaultFixture()
	fix.totalPageSize = 100
	g, err := ParseFCB(fix.build())
	require.NoError(t, err)

	err = g.Validate()
	assert.ErrorIs(t, err, ErrGeometryInvalid)
}

func TestValidateRejectsZeroStrength(t *testing.T) {
	fix := defaultFixture()
	fix.eccBlock0T = 0
	g, err := ParseFCB(fix.build())
	require.NoError(t, err)

	err = g.Validate()
	assert.ErrorIs(t, err, ErrGeometryInvalid)
}

func TestMarkerOffsetInsideBlock0(t *testing.T) {
	fix := defaultFixture()
	fix.bbMarker = 5
	g, err := ParseFCB(fix.build())
	require.NoError(t, err)

	// markerPage = 5/512 = 0, so the marker lives inside Block0 and the
	// block0EccBytes/blockNEccBytes terms cancel exactly.
	assert.Equal(t, g.MetadataBytes+g.BBMarker, g.MarkerRawOffset)
}

func TestSetPageDataSizeLeavesOtherFieldsAlone(t *testing.T) {
	g, err := ParseFCB(defaultFixture().build())
	require.NoError(t, err)
	before := g.MarkerRawOffset

	g.SetPageDataSize(4096)

	assert.Equal(t, uint32(4096), g.PageDataSize)
	assert.Equal(t, before, g.MarkerRawOffset)
	assert.Equal(t, uint32(8), g.EccBlock0T)
}

func TestSetBadBlockMarkerRecomputesOffset(t *testing.T) {
	g, err := ParseFCB(defaultFixture().build())
	require.NoError(t, err)

	g.SetBadBlockMarker(5)

	assert.Equal(t, uint32(5), g.BBMarker)
	assert.Equal(t, g.MetadataBytes+5, g.MarkerRawOffset)
}

func TestSetEccSizeBits(t *testing.T) {
	g, err := ParseFCB(defaultFixture().build())
	require.NoError(t, err)

	g.SetEccSizeBits(104) // 104/26 = 4

	assert.Equal(t, uint32(4), g.EccBlock0T)
	assert.Equal(t, uint32(4), g.EccBlockNT)
}

func TestSetMetadataBytesRecomputesOffset(t *testing.T) {
	g, err := ParseFCB(defaultFixture().build())
	require.NoError(t, err)

	g.SetMetadataBytes(20)

	assert.Equal(t, uint32(20), g.MetadataBytes)
	assert.Equal(t, uint32(20), g.MarkerRawOffset)
}
