// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nand

import "github.com/pkg/errors"

// primitivePolys maps a Galois-field degree m to its primitive polynomial,
// expressed with the degree-m coefficient included (bit m set). This is the
// standard table used by binary BCH implementations, for degrees 5 through
// 15; i.MX hardware only ever exercises m = 13, with polynomial 0x201B.
var primitivePolys = map[int]uint32{
	5:  0x25,
	6:  0x43,
	7:  0x83,
	8:  0x11D,
	9:  0x211,
	10: 0x409,
	11: 0x805,
	12: 0x1053,
	13: 0x201B,
	14: 0x402B,
	15: 0x8003,
}

// imxPrimitivePoly is the primitive polynomial of the i.MX BCH field,
// x^13 + x^4 + x^3 + x + 1 (0x201B, decimal 8219), the same value as the
// degree-13 row of primitivePolys; newGaloisField uses it for
// m == imxGaloisDegree.
const imxPrimitivePoly = 0x201B

// imxGaloisDegree is the Galois-field degree the i.MX BCH engine is wired
// for. It yields the 0x201B primitive polynomial used by every i.MX NAND
// controller generation this tool targets.
const imxGaloisDegree = 13

// galoisField is a GF(2^m) log/antilog table pair built from a primitive
// polynomial, used by bchCodec to do the field arithmetic BCH decoding
// needs (multiplication, inversion, polynomial evaluation).
type galoisField struct {
	m       int
	size    int // 2^m - 1, the multiplicative group order
	log     []int
	antilog []int
}

func newGaloisField(m int) (*galoisField, error) {
	poly, ok := primitivePolys[m]
	if !ok {
		return nil, errors.Errorf("unsupported Galois field degree %d", m)
	}
	if m == imxGaloisDegree {
		poly = imxPrimitivePoly
	}
	size := (1 << uint(m)) - 1
	gf := &galoisField{
		m:       m,
		size:    size,
		log:     make([]int, size+1),
		antilog: make([]int, size+1),
	}
	for i := range gf.log {
		gf.log[i] = -1
	}

	reg := 1
	for i := 0; i < size; i++ {
		gf.antilog[i] = reg
		gf.log[reg] = i
		reg <<= 1
		if reg&(1<<uint(m)) != 0 {
			reg ^= int(poly)
		}
	}
	gf.antilog[size] = gf.antilog[0]
	return gf, nil
}

// mul returns a*b in GF(2^m).
func (gf *galoisField) mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return gf.antilog[(gf.log[a]+gf.log[b])%gf.size]
}

// inv returns the multiplicative inverse of a in GF(2^m). a must be non-zero.
func (gf *galoisField) inv(a int) int {
	return gf.antilog[(gf.size-gf.log[a])%gf.size]
}

// pow returns alpha^e, the field element represented by the primitive
// element raised to the e-th power.
func (gf *galoisField) pow(e int) int {
	e %= gf.size
	if e < 0 {
		e += gf.size
	}
	return gf.antilog[e]
}

// BCHOutcome classifies the result of a single BCH decode attempt.
type BCHOutcome int

const (
	// BCHClean means the decoder found zero bit flips.
	BCHClean BCHOutcome = iota
	// BCHCorrected means 1..t bit flips were found and repaired.
	BCHCorrected
	// BCHUncorrectable means more errors were present than the codec can
	// locate reliably; the block is passed through unchanged.
	BCHUncorrectable
	// BCHFatal means the decoder panicked internally (the panic is
	// recovered in decode); the block is passed through unchanged. An
	// error-locator polynomial whose degree disagrees with its root count
	// is reported as BCHUncorrectable, not BCHFatal.
	BCHFatal
)

// String implements fmt.Stringer.
func (o BCHOutcome) String() string {
	switch o {
	case BCHClean:
		return "clean"
	case BCHCorrected:
		return "corrected"
	case BCHUncorrectable:
		return "uncorrectable"
	case BCHFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// bchCodec is a from-scratch binary BCH decoder over GF(2^m), parameterised
// by error-correction strength t. One instance is built per (m, t) pair and
// reused for the lifetime of a conversion, mirroring the way the i.MX BCH
// hardware block is configured once per NAND geometry.
//
// The implementation follows the textbook syndrome / Berlekamp-Massey /
// Chien-search pipeline. Bit positions are read least-significant-bit
// first within each byte (the "reverse" convention the i.MX BCH engine and
// the reference bchlib binding both use), so position 0 is the LSB of the
// first byte of the combined data+ecc codeword.
type bchCodec struct {
	gf *galoisField
	t  int
}

func newBCHCodec(t int) (*bchCodec, error) {
	if t <= 0 {
		return nil, errors.Errorf("BCH strength t must be positive, got %d", t)
	}
	gf, err := newGaloisField(imxGaloisDegree)
	if err != nil {
		return nil, err
	}
	return &bchCodec{gf: gf, t: t}, nil
}

// bitsFromBytes unpacks buf into a slice of bits, one byte of `buf` yielding
// 8 bits in LSB-first order: bit 0 of the result is bit 0 (LSB) of buf[0].
func bitsFromBytes(buf []byte) []int {
	bits := make([]int, len(buf)*8)
	for i, b := range buf {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = int((b >> uint(j)) & 1)
		}
	}
	return bits
}

// bytesFromBits re-packs a bit slice produced by bitsFromBytes back into
// bytes, LSB-first, padding the final byte with zero bits if needed.
func bytesFromBits(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// syndromes evaluates the received bit polynomial at alpha^1 .. alpha^2t.
func (c *bchCodec) syndromes(bits []int) []int {
	s := make([]int, 2*c.t+1) // 1-indexed; s[0] unused
	for i := 1; i <= 2*c.t; i++ {
		acc := 0
		// Evaluate sum_j bits[j] * alpha^(j*i) using Horner from the
		// highest-degree term down, since alpha^(j*i) = (alpha^i)^j.
		ai := c.gf.pow(i)
		for j := len(bits) - 1; j >= 0; j-- {
			acc = c.gf.mul(acc, ai)
			if bits[j] != 0 {
				acc ^= 1
			}
		}
		s[i] = acc
	}
	return s
}

// berlekampMassey computes the error-locator polynomial sigma from the
// syndrome sequence, returning its coefficients with sigma[0] == 1.
func (c *bchCodec) berlekampMassey(s []int) []int {
	gf := c.gf
	sigma := make([]int, c.t+1)
	sigma[0] = 1
	prevSigma := make([]int, c.t+1)
	prevSigma[0] = 1
	l := 0
	m := 1
	b := 1

	for n := 1; n <= 2*c.t; n++ {
		// Discrepancy.
		d := s[n]
		for i := 1; i <= l; i++ {
			d ^= gf.mul(sigma[i], s[n-i])
		}
		if d == 0 {
			m++
			continue
		}
		tCopy := make([]int, len(sigma))
		copy(tCopy, sigma)

		coeff := gf.mul(d, gf.inv(b))
		for i := 0; i < len(prevSigma); i++ {
			idx := i + m
			if idx < len(sigma) {
				sigma[idx] ^= gf.mul(coeff, prevSigma[i])
			}
		}

		if 2*l <= n-1 {
			l = n - l
			copy(prevSigma, tCopy)
			b = d
			m = 1
		} else {
			m++
		}
	}
	return sigma
}

// sigmaDegree returns the highest index with a non-zero coefficient.
func sigmaDegree(sigma []int) int {
	deg := 0
	for i, c := range sigma {
		if c != 0 {
			deg = i
		}
	}
	return deg
}

// chienSearch evaluates sigma at the inverse of every candidate bit
// position and returns the positions where it vanishes (the error
// locations), scanning positions 0..n-1.
func (c *bchCodec) chienSearch(sigma []int, n int) []int {
	gf := c.gf
	var roots []int
	for pos := 0; pos < n; pos++ {
		// sigma(alpha^-pos) == 0 ?
		inv := gf.pow(-pos)
		acc := 0
		power := 1 // inv^0
		for i := 0; i < len(sigma); i++ {
			if sigma[i] != 0 {
				term := gf.mul(sigma[i], power)
				acc ^= term
			}
			power = gf.mul(power, inv)
		}
		if acc == 0 {
			roots = append(roots, pos)
		}
	}
	return roots
}

// BCHResult is the outcome of one decode call: a classification, the number
// of bits repaired (meaningful only when Outcome == BCHCorrected), and the
// data bytes to use going forward (always len(data) bytes).
type BCHResult struct {
	Outcome   BCHOutcome
	Corrected int
	Data      []byte
}

// decode attempts to correct data+ecc as a single codeword. It never
// returns an error: internal inconsistencies are reported as BCHFatal so
// callers can always keep driving the conversion, per the converter's
// failure policy.
func (c *bchCodec) decode(data, ecc []byte) (result BCHResult) {
	defer func() {
		if r := recover(); r != nil {
			result = BCHResult{Outcome: BCHFatal, Data: data}
		}
	}()

	bits := append(bitsFromBytes(data), bitsFromBytes(ecc)...)

	s := c.syndromes(bits)
	clean := true
	for i := 1; i <= 2*c.t; i++ {
		if s[i] != 0 {
			clean = false
			break
		}
	}
	if clean {
		return BCHResult{Outcome: BCHClean, Data: data}
	}

	sigma := c.berlekampMassey(s)
	deg := sigmaDegree(sigma)
	if deg == 0 || deg > c.t {
		return BCHResult{Outcome: BCHUncorrectable, Data: data}
	}

	roots := c.chienSearch(sigma, len(bits))
	if len(roots) != deg {
		return BCHResult{Outcome: BCHUncorrectable, Data: data}
	}

	for _, pos := range roots {
		bits[pos] ^= 1
	}

	fixed := bytesFromBits(bits[:len(data)*8])
	return BCHResult{Outcome: BCHCorrected, Corrected: len(roots), Data: fixed}
}
