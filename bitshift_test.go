// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftBitsByteAligned(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	got := ShiftBits(buf, 8)
	assert.Equal(t, []byte{0xBB, 0xCC, 0xDD}, got)
}

func TestShiftBitsSubByte(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC}
	got := ShiftBits(buf, 4)
	assert.Equal(t, []byte{0xBA, 0xCB, 0x0C}, got)
}

func TestShiftBitsMixedOffset(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC}
	got := ShiftBits(buf, 12)
	assert.Equal(t, []byte{0xCB, 0x0C}, got)
}

func TestShiftBitsZero(t *testing.T) {
	buf := []byte{0x12, 0x34}
	got := ShiftBits(buf, 0)
	assert.Equal(t, buf, got)
}

func TestShiftBitsPastEnd(t *testing.T) {
	buf := []byte{0x12, 0x34}
	assert.Nil(t, ShiftBits(buf, 24))
}

func TestShiftBitsExactlyAtEnd(t *testing.T) {
	buf := []byte{0x12, 0x34}
	assert.Nil(t, ShiftBits(buf, 16))
}
